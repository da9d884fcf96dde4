// Package cmd implements the mdbook-gabc command line.
package cmd

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ezerfernandes/mdbook-gabc/internal/book"
	"github.com/ezerfernandes/mdbook-gabc/internal/gabc"
)

//go:embed help/root.md
var rootHelp string

type statusFunc func(format string, args ...interface{})

type options struct {
	verbose bool
	quiet   bool
	log     *zap.Logger
	status  statusFunc
}

func (opts *options) setup(stderr io.Writer) {
	opts.log = newLogger(stderr, opts.verbose)
	opts.createStatus(stderr)
}

func (opts *options) createStatus(stderr io.Writer) {
	if opts.quiet {
		opts.status = func(string, ...interface{}) {}

		return
	}

	opts.status = func(format string, args ...interface{}) {
		fmt.Fprintf(stderr, format, args...)
	}
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)

	return zap.New(core).Named(gabc.Name)
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:           "mdbook-gabc",
		Short:         "Replace gabc code blocks with chant containers",
		Long:          rootHelp,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer opts.log.Sync() //nolint:errcheck

			return book.Process(gabc.New(opts.log), cmd.InOrStdin(), cmd.OutOrStdout())
		},

		DisableAutoGenTag: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every parser event")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status messages")

	cmd.AddCommand(supportsCmd(opts), listCmd(opts), installCmd(opts))

	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := new(options)

	root := rootCmd(opts)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}

	if !errors.Is(err, errUnsupported) {
		fmt.Fprintf(stderr, "%s: %v\n", root.Name(), err)
	}

	return 1
}
