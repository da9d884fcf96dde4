package cmd

import (
	"github.com/gobwas/glob"

	"github.com/ezerfernandes/mdbook-gabc/internal/mdcode"
)

type filterFunc func(block *mdcode.Block) bool

func filter(label string) (filterFunc, error) {
	g, err := glob.Compile(label)
	if err != nil {
		return nil, err
	}

	return func(block *mdcode.Block) bool {
		return len(block.Label) != 0 && g.Match(block.Label)
	}, nil
}

func walk(source []byte, walker mdcode.Walker, filter filterFunc) error {
	return mdcode.Walk(source, func(block *mdcode.Block) error {
		if filter(block) {
			return walker(block)
		}

		return nil
	})
}
