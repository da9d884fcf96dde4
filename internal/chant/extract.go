// Package chant turns labelled fenced code blocks of a Markdown chapter into
// HTML <pre> containers.
package chant

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ezerfernandes/mdbook-gabc/internal/mdcode"
	"github.com/ezerfernandes/mdbook-gabc/internal/span"
)

// Fence selects the blocks an [Extractor] replaces and the class of the
// container they are replaced with.
type Fence struct {
	// Label must equal the info string of a block exactly. An empty label
	// never matches, blocks without an info string are never replaced.
	Label string `json:"label"`
	Class string `json:"class"`
}

// Gabc is the fence of Gregorian chant notation blocks.
var Gabc = Fence{Label: "gabc", Class: "chant-container"}

// Wrap returns the container markup for already escaped content.
func (f Fence) Wrap(content string) string {
	return fmt.Sprintf("<pre class=\"%s\">%s</pre>\n\n", f.Class, content)
}

type state int

const (
	outside state = iota
	insideFresh
	insideAccumulating
)

func (s state) String() string {
	switch s {
	case outside:
		return "outside"
	case insideFresh:
		return "inside-fresh"
	case insideAccumulating:
		return "inside-accumulating"
	}

	return fmt.Sprintf("state(%d)", int(s))
}

// Extractor collects the replacements for the blocks of one fence.
type Extractor struct {
	Fence Fence
	Log   *zap.Logger

	source string
	state  state
	code   span.Span
	repls  []span.Replacement
}

// NewExtractor returns an extractor for fence. A nil logger discards
// diagnostics.
func NewExtractor(fence Fence, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}

	return &Extractor{Fence: fence, Log: log}
}

// Extract parses source and returns one replacement per closed block of the
// extractor's fence, in source order.
func (e *Extractor) Extract(source string) ([]span.Replacement, error) {
	e.source = source
	e.state = outside
	e.code = span.Span{}
	e.repls = nil

	if err := mdcode.Events([]byte(source), e.handle); err != nil {
		return nil, err
	}

	if e.state != outside {
		e.Log.Debug("unterminated block left untouched",
			zap.String("label", e.Fence.Label),
			zap.Stringer("code", e.code))
	}

	return e.repls, nil
}

func (e *Extractor) handle(event mdcode.Event) error {
	if e.Log.Core().Enabled(zap.DebugLevel) {
		e.Log.Debug("event",
			zap.Stringer("kind", event.Kind),
			zap.String("label", event.Label),
			zap.String("node", event.Node),
			zap.Stringer("span", event.Span),
			zap.Stringer("state", e.state))
	}

	switch event.Kind {
	case mdcode.KindFenceStart:
		e.state = outside
		if event.Label != "" && event.Label == e.Fence.Label {
			e.state = insideFresh
		}
	case mdcode.KindText:
		switch e.state {
		case insideFresh:
			e.code = event.Span
			e.state = insideAccumulating
		case insideAccumulating:
			e.code.End = event.Span.End
		case outside:
		}
	case mdcode.KindFenceEnd:
		if e.state == outside {
			return nil
		}

		if event.Label != e.Fence.Label {
			panic(fmt.Sprintf("block opened as %q closed as %q", e.Fence.Label, event.Label))
		}

		e.closeBlock(event.Span)
	case mdcode.KindOther:
	}

	return nil
}

func (e *Extractor) closeBlock(block span.Span) {
	var content string
	if e.state == insideAccumulating {
		content = e.source[e.code.Start:e.code.End]
	}

	content = strings.ReplaceAll(EscapeHTML(content), "\r\n", "\n")

	e.repls = append(e.repls, span.Replacement{Span: block, Text: e.Fence.Wrap(content)})
	e.Log.Debug("block replaced",
		zap.String("label", e.Fence.Label),
		zap.Stringer("span", block),
		zap.Int("bytes", len(content)))

	e.state = outside
	e.code = span.Span{}
}
