package mdcode

// Unfence parses a Markdown document and returns all fenced code blocks
// without modifying the source.
func Unfence(source []byte) (Blocks, error) {
	var blocks Blocks

	err := Walk(source, func(block *Block) error {
		blocks = append(blocks, block)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

// Select returns the blocks whose label equals label.
func (b Blocks) Select(label string) Blocks {
	var res Blocks

	for _, block := range b {
		if block.Label == label {
			res = append(res, block)
		}
	}

	return res
}
