package cmd

import (
	_ "embed"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdbook-gabc/internal/gabc"
)

//go:embed help/supports.md
var supportsHelp string

var errUnsupported = errors.New("unsupported renderer")

func supportsCmd(opts *options) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "supports <renderer>",
		Short: "Report whether a renderer is supported",
		Long:  supportsHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if !gabc.New(opts.log).SupportsRenderer(args[0]) {
				return errUnsupported
			}

			return nil
		},

		DisableAutoGenTag: true,
	}
}
