// Package span rewrites byte ranges of a source document.
package span

import (
	"errors"
	"fmt"
)

// Span is a half-open byte range [Start, End) into a source document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Replacement pairs a span of the original document with the text that takes
// its place.
type Replacement struct {
	Span Span
	Text string
}

var (
	// ErrInvalidSpan is returned by [Rewrite] when a span does not fit the document.
	ErrInvalidSpan = errors.New("invalid span")
	// ErrOverlap is returned by [Rewrite] when spans overlap or are out of order.
	ErrOverlap = errors.New("overlapping spans")
)

func check(source string, repls []Replacement) error {
	for idx, repl := range repls {
		if repl.Span.Start < 0 || repl.Span.End < repl.Span.Start || repl.Span.End > len(source) {
			return fmt.Errorf("replacement %d (%s): %w", idx, repl.Span, ErrInvalidSpan)
		}

		if idx > 0 && repl.Span.Start < repls[idx-1].Span.End {
			return fmt.Errorf("replacement %d (%s): %w", idx, repl.Span, ErrOverlap)
		}
	}

	return nil
}

// Rewrite returns a copy of source where the span of every replacement is
// substituted by a newline followed by the replacement text.
//
// Replacements must be in source order and must not overlap. They are applied
// last to first, so the offsets of the ones not yet applied stay valid.
func Rewrite(source string, repls []Replacement) (string, error) {
	if err := check(source, repls); err != nil {
		return "", err
	}

	res := source

	for idx := len(repls) - 1; idx >= 0; idx-- {
		repl := repls[idx]

		res = replace(res, repl.Span, "\n"+repl.Text)
	}

	return res, nil
}

func replace(source string, span Span, value string) string {
	res := make([]byte, len(source)-span.Len()+len(value))

	copy(res, source[:span.Start])
	copy(res[span.Start:], value)
	copy(res[span.Start+len(value):], source[span.End:])

	return string(res)
}
