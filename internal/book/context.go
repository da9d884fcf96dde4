package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Context describes the build a preprocessor runs in.
type Context struct {
	Root          string                     `json:"root"`
	Config        map[string]json.RawMessage `json:"config"`
	Renderer      string                     `json:"renderer"`
	MdbookVersion string                     `json:"mdbook_version"`
}

// Preprocessor transforms a book before a renderer gets it.
type Preprocessor interface {
	Name() string
	SupportsRenderer(renderer string) bool
	Run(ctx *Context, book *Book) (*Book, error)
}

// ErrInput is returned when the preprocessor input is not a [context, book]
// pair.
var ErrInput = errors.New("malformed preprocessor input")

// PreprocessorConfig decodes the [preprocessor.<name>] table of the book
// configuration into v. It reports whether the table exists.
func (c *Context) PreprocessorConfig(name string, v interface{}) (bool, error) {
	raw, ok := c.Config["preprocessor"]
	if !ok {
		return false, nil
	}

	var tables map[string]json.RawMessage
	if err := json.Unmarshal(raw, &tables); err != nil {
		return false, fmt.Errorf("preprocessor config: %w", err)
	}

	table, ok := tables[name]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(table, v); err != nil {
		return true, fmt.Errorf("preprocessor.%s config: %w", name, err)
	}

	return true, nil
}

// MinorVersion returns the major.minor part of the mdbook version.
func (c *Context) MinorVersion() string {
	parts := strings.SplitN(c.MdbookVersion, ".", 3) //nolint:gomnd
	if len(parts) < 2 {                                //nolint:gomnd
		return c.MdbookVersion
	}

	return parts[0] + "." + parts[1]
}

// ReadInput decodes the [context, book] pair mdbook writes to a
// preprocessor's standard input.
func ReadInput(r io.Reader) (*Context, *Book, error) {
	var pair []json.RawMessage

	if err := json.NewDecoder(r).Decode(&pair); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInput, err)
	}

	if len(pair) != 2 { //nolint:gomnd
		return nil, nil, fmt.Errorf("%w: expected 2 elements, got %d", ErrInput, len(pair))
	}

	var (
		ctx  Context
		book Book
	)

	if err := json.Unmarshal(pair[0], &ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: context: %v", ErrInput, err)
	}

	if err := json.Unmarshal(pair[1], &book); err != nil {
		return nil, nil, fmt.Errorf("%w: book: %v", ErrInput, err)
	}

	return &ctx, &book, nil
}

// WriteBook encodes book the way mdbook reads it back from a preprocessor's
// standard output.
func WriteBook(w io.Writer, book *Book) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	return enc.Encode(book)
}

// Process runs p over the input read from r and writes the resulting book
// to w.
func Process(p Preprocessor, r io.Reader, w io.Writer) error {
	ctx, book, err := ReadInput(r)
	if err != nil {
		return err
	}

	book, err = p.Run(ctx, book)
	if err != nil {
		return err
	}

	return WriteBook(w, book)
}
