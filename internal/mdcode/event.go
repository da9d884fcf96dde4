package mdcode

import (
	"fmt"

	"github.com/yuin/goldmark/ast"

	"github.com/ezerfernandes/mdbook-gabc/internal/span"
)

// Kind identifies the parser occurrence an [Event] describes.
type Kind int

const (
	// KindOther is any block that is not a fenced code block.
	KindOther Kind = iota
	// KindFenceStart opens a fenced code block.
	KindFenceStart
	// KindText is one content line of a fenced code block.
	KindText
	// KindFenceEnd closes a fenced code block. It is not emitted for blocks
	// left unterminated.
	KindFenceEnd
)

func (k Kind) String() string {
	switch k {
	case KindFenceStart:
		return "FenceStart"
	case KindText:
		return "Text"
	case KindFenceEnd:
		return "FenceEnd"
	case KindOther:
		return "Other"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event is a parser occurrence together with the byte span of the source it
// covers.
type Event struct {
	Kind Kind
	// Label is the info string of the fence for fence events.
	Label string
	// Node names the block kind of KindOther events.
	Node string
	Span span.Span
}

// EventFunc consumes one event. Returning an error stops the stream.
type EventFunc func(event Event) error

// Events parses a Markdown document and feeds fn with its events in document
// order.
func Events(source []byte, fn EventFunc) error {
	doc, err := scan(source)
	if err != nil {
		return err
	}

	for _, node := range doc.nodes {
		f, ok := doc.fences[node]
		if !ok {
			if err := fn(Event{Kind: KindOther, Node: node.Kind().String(), Span: linesSpan(node)}); err != nil {
				return err
			}

			continue
		}

		if err := fenceEvents(f, fn); err != nil {
			return err
		}
	}

	return nil
}

func fenceEvents(f *fence, fn EventFunc) error {
	block := f.block

	if err := fn(Event{Kind: KindFenceStart, Label: block.Label, Span: block.Span}); err != nil {
		return err
	}

	lines := f.node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)

		if err := fn(Event{Kind: KindText, Span: span.Span{Start: seg.Start, End: seg.Stop}}); err != nil {
			return err
		}
	}

	if !block.Closed {
		return nil
	}

	return fn(Event{Kind: KindFenceEnd, Label: block.Label, Span: block.Span})
}

func linesSpan(node ast.Node) span.Span {
	lines := node.Lines()
	if lines == nil || lines.Len() == 0 {
		return span.Span{}
	}

	return span.Span{Start: lines.At(0).Start, End: lines.At(lines.Len() - 1).Stop}
}
