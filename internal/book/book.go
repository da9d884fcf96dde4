// Package book models the book mdbook hands to its preprocessors.
package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Chapter is a content unit of a book.
type Chapter struct {
	Name        string   `json:"name"`
	Content     string   `json:"content"`
	Number      []int    `json:"number"`
	SubItems    []Item   `json:"sub_items"`
	Path        *string  `json:"path"`
	SourcePath  *string  `json:"source_path"`
	ParentNames []string `json:"parent_names"`
}

// Item is one entry of a book's table of contents: a chapter, a separator or
// a part title. Exactly one of Chapter, Separator and PartTitle is set.
type Item struct {
	Chapter   *Chapter
	Separator bool
	PartTitle string
}

const separator = "Separator"

var errUnknownItem = errors.New("unknown book item")

func (i Item) MarshalJSON() ([]byte, error) {
	switch {
	case i.Chapter != nil:
		return marshal(map[string]*Chapter{"Chapter": i.Chapter})
	case i.Separator:
		return marshal(separator)
	default:
		return marshal(map[string]string{"PartTitle": i.PartTitle})
	}
}

func (i *Item) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}

		if name != separator {
			return fmt.Errorf("%w: %q", errUnknownItem, name)
		}

		*i = Item{Separator: true}

		return nil
	}

	var variant struct {
		Chapter   *Chapter `json:"Chapter"`
		PartTitle *string  `json:"PartTitle"`
	}

	if err := json.Unmarshal(data, &variant); err != nil {
		return err
	}

	switch {
	case variant.Chapter != nil:
		*i = Item{Chapter: variant.Chapter}
	case variant.PartTitle != nil:
		*i = Item{PartTitle: *variant.PartTitle}
	default:
		return fmt.Errorf("%w: %s", errUnknownItem, data)
	}

	return nil
}

// Book is the tree of items mdbook renders.
type Book struct {
	Sections []Item `json:"sections"`
	// NonExhaustive is carried over verbatim.
	NonExhaustive json.RawMessage `json:"__non_exhaustive"`
}

// ForEachChapter calls fn for every chapter of the book in document order, a
// chapter before its sub-items. It stops at the first error fn returns.
func (b *Book) ForEachChapter(fn func(*Chapter) error) error {
	return forEach(b.Sections, fn)
}

func forEach(items []Item, fn func(*Chapter) error) error {
	for _, item := range items {
		if item.Chapter == nil {
			continue
		}

		if err := fn(item.Chapter); err != nil {
			return err
		}

		if err := forEach(item.Chapter.SubItems, fn); err != nil {
			return err
		}
	}

	return nil
}

func (c *Chapter) MarshalJSON() ([]byte, error) {
	type chapter Chapter

	out := chapter(*c)
	if out.SubItems == nil {
		out.SubItems = []Item{}
	}

	if out.ParentNames == nil {
		out.ParentNames = []string{}
	}

	return marshal(out)
}

// marshal is json.Marshal without HTML escaping, chapter contents are HTML.
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
