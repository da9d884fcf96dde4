package gabc

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"

	"github.com/ezerfernandes/mdbook-gabc/internal/book"
	"github.com/ezerfernandes/mdbook-gabc/internal/chant"
)

// Config is the [preprocessor.gabc] table of book.toml.
type Config struct {
	// Exclude lists globs over chapter source paths that are left untouched.
	Exclude []string `json:"exclude"`
	// Fences replaces the default gabc fence when not empty.
	Fences []chant.Fence `json:"fence"`

	exclude []glob.Glob
}

var errFence = errors.New("invalid fence")

// LoadConfig reads the preprocessor configuration from the build context.
// A missing table yields the defaults.
func LoadConfig(ctx *book.Context) (*Config, error) {
	cfg := new(Config)

	if ctx != nil {
		if _, err := ctx.PreprocessorConfig(Name, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.compile(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) compile() error {
	if len(c.Fences) == 0 {
		c.Fences = []chant.Fence{chant.Gabc}
	}

	for idx, fence := range c.Fences {
		if len(fence.Label) == 0 {
			return fmt.Errorf("%w: fence %d has no label", errFence, idx)
		}

		if len(fence.Class) == 0 {
			c.Fences[idx].Class = chant.Gabc.Class
		}
	}

	c.exclude = c.exclude[:0]

	for _, pattern := range c.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return fmt.Errorf("exclude %q: %w", pattern, err)
		}

		c.exclude = append(c.exclude, g)
	}

	return nil
}

func (c *Config) excluded(chapter *book.Chapter) bool {
	if chapter.SourcePath == nil {
		return false
	}

	for _, g := range c.exclude {
		if g.Match(*chapter.SourcePath) {
			return true
		}
	}

	return false
}
