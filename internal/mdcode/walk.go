package mdcode

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/ezerfernandes/mdbook-gabc/internal/span"
)

const (
	minFence       = 3
	maxIndent      = 3
	tabWidth       = 4
	footnoteIndent = 4
)

// Walker is a callback invoked for each fenced code block found in a Markdown
// document.
type Walker func(block *Block) error

// NewParser returns a CommonMark parser with the same syntax extensions as the
// mdbook HTML renderer: tables, footnotes, strikethrough and task lists. Block
// boundaries only agree with the final rendering when this set matches.
func NewParser() parser.Parser { //nolint:ireturn
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Footnote,
			extension.Strikethrough,
			extension.TaskList,
		),
	).Parser()
}

type fence struct {
	node  *ast.FencedCodeBlock
	block *Block
	char  byte
	size  int
	found bool
}

type document struct {
	source []byte
	nodes  []ast.Node
	fences map[ast.Node]*fence
}

func scan(source []byte) (*document, error) {
	doc := &document{source: source, fences: make(map[ast.Node]*fence)}
	root := NewParser().Parse(text.NewReader(source))

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}

		doc.nodes = append(doc.nodes, node)

		if fcb, ok := node.(*ast.FencedCodeBlock); ok {
			doc.fences[node] = openFence(fcb, source)
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	for _, f := range doc.fences {
		f.close(source)
	}

	return doc, nil
}

// Walk parses a Markdown document and calls walker for every fenced code
// block, in document order.
func Walk(source []byte, walker Walker) error {
	doc, err := scan(source)
	if err != nil {
		return err
	}

	for _, node := range doc.nodes {
		f, ok := doc.fences[node]
		if !ok {
			continue
		}

		if err := walker(f.block); err != nil {
			return err
		}
	}

	return nil
}

func openFence(fcb *ast.FencedCodeBlock, source []byte) *fence {
	f := &fence{node: fcb, block: &Block{}}

	lines := fcb.Lines()
	hasLines := lines != nil && lines.Len() > 0

	var infoEnd int

	switch {
	case fcb.Info != nil:
		f.block.Label = string(fcb.Info.Segment.Value(source))
		infoEnd = fcb.Info.Segment.Stop
		f.block.Span.Start, f.char, f.size, f.found = fenceRun(source, fcb.Info.Segment.Start)
	case hasLines:
		nl := bytes.LastIndexByte(source[:lines.At(0).Start], '\n')
		if nl < 0 {
			break
		}

		infoEnd = nl
		f.block.Span.Start, f.char, f.size, f.found = fenceRun(source, nl)
	}

	if hasLines {
		f.block.CodeSpan = span.Span{Start: lines.At(0).Start, End: lines.At(lines.Len() - 1).Stop}
	} else if f.found {
		next := lineEnd(source, infoEnd)
		f.block.CodeSpan = span.Span{Start: next, End: next}
	}

	f.block.Code = append([]byte(nil), source[f.block.CodeSpan.Start:f.block.CodeSpan.End]...)
	f.block.Span.End = f.block.CodeSpan.End

	if f.found {
		f.block.StartLine = lineAt(source, f.block.Span.Start)
		f.block.EndLine = f.block.StartLine
	}

	if hasLines {
		f.block.EndLine = lineAt(source, f.block.CodeSpan.End-1)
	}

	return f
}

// fenceRun finds the run of fence characters that ends right before pos,
// ignoring blanks in between.
func fenceRun(source []byte, pos int) (int, byte, int, bool) {
	idx := pos
	for idx > 0 && isBlank(source[idx-1]) {
		idx--
	}

	if idx == 0 || !isFenceChar(source[idx-1]) {
		return 0, 0, 0, false
	}

	char := source[idx-1]
	end := idx

	for idx > 0 && source[idx-1] == char {
		idx--
	}

	return idx, char, end - idx, end-idx >= minFence
}

// close looks for the closing fence on the line following the content and
// extends the block span over it. The line only closes the block when it
// belongs to every container the block is nested in; otherwise the block
// ended with its container and stays unterminated.
func (f *fence) close(source []byte) {
	if !f.found {
		return
	}

	pos := f.block.CodeSpan.End
	if pos >= len(source) {
		return
	}

	eol := bytes.IndexByte(source[pos:], '\n')
	if eol < 0 {
		eol = len(source)
	} else {
		eol += pos
	}

	line := source[pos:eol]

	idx, ok := containerPrefix(f.node, line)
	if !ok {
		return
	}

	width, blanks := indentWidth(line[idx:])
	if width > maxIndent {
		return
	}

	idx += blanks
	start := idx

	for idx < len(line) && line[idx] == f.char {
		idx++
	}

	if idx-start < f.size {
		return
	}

	stop := idx
	for idx < len(line) && isBlank(line[idx]) {
		idx++
	}

	if idx != len(line) {
		return
	}

	// Trailing blanks belong to the fence line, the line ending does not.
	for stop < len(line) && (line[stop] == ' ' || line[stop] == '\t') {
		stop++
	}

	f.block.Span.End = pos + stop
	f.block.EndLine = lineAt(source, pos+stop)
	f.block.Closed = true
}

// containerPrefix skips the markers and indentation of the containers
// enclosing node at the start of line. It fails when line is not part of all
// of them.
func containerPrefix(node ast.Node, line []byte) (int, bool) {
	var chain []ast.Node

	for parent := node.Parent(); parent != nil && parent.Kind() != ast.KindDocument; parent = parent.Parent() {
		chain = append(chain, parent)
	}

	pos := 0

	for i := len(chain) - 1; i >= 0; i-- {
		switch container := chain[i].(type) {
		case *ast.Blockquote:
			width, blanks := indentWidth(line[pos:])
			if width > maxIndent || pos+blanks >= len(line) || line[pos+blanks] != '>' {
				return 0, false
			}

			pos += blanks + 1
			if pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
				pos++
			}
		case *ast.ListItem:
			width, _ := indentWidth(line[pos:])
			if width < container.Offset && width <= maxIndent {
				return 0, false
			}

			pos += skipColumns(line[pos:], container.Offset)
		case *extast.Footnote:
			width, _ := indentWidth(line[pos:])
			if width < footnoteIndent {
				return 0, false
			}

			pos += skipColumns(line[pos:], footnoteIndent)
		}
	}

	return pos, true
}

// indentWidth returns the width in columns of the leading spaces and tabs of
// line and their length in bytes.
func indentWidth(line []byte) (int, int) {
	width := 0

	for idx, c := range line {
		switch c {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		default:
			return width, idx
		}
	}

	return width, len(line)
}

func skipColumns(line []byte, columns int) int {
	width := 0
	idx := 0

	for idx < len(line) && width < columns && (line[idx] == ' ' || line[idx] == '\t') {
		if line[idx] == '\t' {
			width += tabWidth - width%tabWidth
		} else {
			width++
		}

		idx++
	}

	return idx
}

func lineEnd(source []byte, offset int) int {
	idx := bytes.IndexByte(source[offset:], '\n')
	if idx < 0 {
		return len(source)
	}

	return offset + idx + 1
}

func lineAt(source []byte, offset int) int {
	line := 1

	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}

	return line
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func isFenceChar(c byte) bool {
	return c == '`' || c == '~'
}
