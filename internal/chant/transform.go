package chant

import (
	"go.uber.org/zap"

	"github.com/ezerfernandes/mdbook-gabc/internal/span"
)

// Transformer replaces the blocks of several fences, one fence after the
// other.
type Transformer struct {
	Fences []Fence
	Log    *zap.Logger
}

// Transform returns content with every closed block of the transformer's
// fences replaced by its container. Everything else is kept byte for byte.
func (t *Transformer) Transform(content string) (string, error) {
	for _, fence := range t.Fences {
		repls, err := NewExtractor(fence, t.Log).Extract(content)
		if err != nil {
			return "", err
		}

		if len(repls) == 0 {
			continue
		}

		content, err = span.Rewrite(content, repls)
		if err != nil {
			return "", err
		}
	}

	return content, nil
}

// Transform replaces the gabc blocks of content.
func Transform(content string) (string, error) {
	t := Transformer{Fences: []Fence{Gabc}}

	return t.Transform(content)
}
