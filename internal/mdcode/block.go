package mdcode

import "github.com/ezerfernandes/mdbook-gabc/internal/span"

// Block is a fenced code block found in a Markdown document.
type Block struct {
	// Label is the info string of the opening fence, trimmed of surrounding
	// whitespace. Empty when the fence has none.
	Label string
	Code  []byte
	// Span covers the block from its opening fence to the end of its closing
	// fence line, without the line ending.
	Span span.Span
	// CodeSpan covers the content lines, line endings included.
	CodeSpan  span.Span
	StartLine int
	EndLine   int
	// Closed is false when the document or the enclosing container ends
	// before a closing fence.
	Closed bool
}

type Blocks []*Block
