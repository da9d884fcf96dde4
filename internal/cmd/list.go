package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdbook-gabc/internal/mdcode"
)

//go:embed help/list.md
var listHelp string

const stdinName = "-"

func listCmd(opts *options) *cobra.Command {
	var label string

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] [filename...]",
		Aliases: []string{"ls"},
		Short:   "List the gabc code blocks of Markdown files",
		Long:    listHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			match, err := filter(label)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = []string{stdinName}
			}

			return listRun(cmd.InOrStdin(), cmd.OutOrStdout(), args, match, opts.status)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringVarP(&label, "label", "l", "gabc", "glob the fence label must match")

	return cmd
}

func listRun(stdin io.Reader, out io.Writer, files []string, match filterFunc, status statusFunc) error {
	tbl := table.New("File", "Label", "Lines", "Bytes", "State").WithWriter(out)
	count := 0

	for _, file := range files {
		src, err := readSource(stdin, file)
		if err != nil {
			return err
		}

		err = walk(src, func(block *mdcode.Block) error {
			count++

			tbl.AddRow(file, block.Label, fmt.Sprintf("L%d-%d", block.StartLine, block.EndLine), len(block.Code), blockState(block))

			return nil
		}, match)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}

	if count == 0 {
		status("no matching blocks\n")

		return nil
	}

	tbl.Print()

	return nil
}

func readSource(stdin io.Reader, file string) ([]byte, error) {
	if file == stdinName {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(file)
}

func blockState(block *mdcode.Block) string {
	if block.Closed {
		return "closed"
	}

	return "open"
}
