// Package gabc is the mdbook preprocessor that replaces gabc code blocks with
// chant containers.
package gabc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ezerfernandes/mdbook-gabc/internal/book"
	"github.com/ezerfernandes/mdbook-gabc/internal/chant"
)

const (
	// Name is the name the preprocessor is registered under in book.toml.
	Name = "gabc"
	// Renderer is the only renderer the output is meant for.
	Renderer = "html"
	// MdbookVersion is the mdbook release line the preprocessor is built for.
	MdbookVersion = "0.4"
)

// Error reports the chapter a transformation failed for.
type Error struct {
	Chapter string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("chapter %q: %v", e.Chapter, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Preprocessor implements [book.Preprocessor].
type Preprocessor struct {
	log       *zap.Logger
	transform func(t *chant.Transformer, content string) (string, error)
}

var _ book.Preprocessor = (*Preprocessor)(nil)

// New returns the preprocessor. A nil logger discards diagnostics.
func New(log *zap.Logger) *Preprocessor {
	if log == nil {
		log = zap.NewNop()
	}

	return &Preprocessor{log: log, transform: (*chant.Transformer).Transform}
}

func (p *Preprocessor) Name() string {
	return Name
}

func (p *Preprocessor) SupportsRenderer(renderer string) bool {
	return renderer == Renderer
}

// Run replaces the blocks of every chapter in document order. It stops at the
// first chapter that fails; chapters before it keep their new content.
func (p *Preprocessor) Run(ctx *book.Context, b *book.Book) (*book.Book, error) {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	if ctx != nil && len(ctx.MdbookVersion) != 0 && ctx.MinorVersion() != MdbookVersion {
		p.log.Warn("mdbook version mismatch",
			zap.String("mdbook", ctx.MdbookVersion),
			zap.String("expected", MdbookVersion))
	}

	transformer := chant.Transformer{Fences: cfg.Fences, Log: p.log}

	err = b.ForEachChapter(func(chapter *book.Chapter) error {
		if cfg.excluded(chapter) {
			p.log.Debug("chapter excluded", zap.String("chapter", chapter.Name))

			return nil
		}

		content, err := p.transform(&transformer, chapter.Content)
		if err != nil {
			return &Error{Chapter: chapter.Name, Err: err}
		}

		chapter.Content = content

		return nil
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}
