package cmd

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdbook-gabc/internal/gabc"
)

//go:embed help/install.md
var installHelp string

//go:embed assets/exsurge-init.js
var exsurgeInit []byte

const (
	bookFile  = "book.toml"
	assetFile = "exsurge-init.js"
	fileMode  = 0o644
)

var reOutputHTML = regexp.MustCompile(`(?m)^[[:blank:]]*\[output\.html\][[:blank:]]*\r?\n`)

var errNoBook = errors.New(bookFile + " not found")

type installFS interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

type dirFS string

func (dir dirFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(dir), filepath.FromSlash(name)))
}

func (dir dirFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(filepath.Join(string(dir), filepath.FromSlash(name)), data, perm)
}

func installCmd(opts *options) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "install [dir]",
		Short: "Install the preprocessor into a book",
		Long:  installHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) != 0 {
				dir = args[0]
			}

			return installRun(dirFS(dir), opts.status)
		},

		DisableAutoGenTag: true,
	}
}

type bookConfig struct {
	Output struct {
		HTML struct {
			AdditionalJS []string `toml:"additional-js"`
		} `toml:"html"`
	} `toml:"output"`
}

func installRun(fsys installFS, status statusFunc) error {
	src, err := fsys.ReadFile(bookFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errNoBook
		}

		return err
	}

	if err := installAsset(fsys, status); err != nil {
		return err
	}

	var cfg bookConfig

	meta, err := toml.Decode(string(src), &cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", bookFile, err)
	}

	res := src

	if !meta.IsDefined("preprocessor", gabc.Name) {
		res = appendTable(res, "[preprocessor."+gabc.Name+"]\n")

		status("added [preprocessor.%s] to %s\n", gabc.Name, bookFile)
	}

	scripts := fmt.Sprintf("additional-js = [%q]\n", assetFile)

	switch {
	case !meta.IsDefined("output", "html"):
		res = appendTable(res, "[output.html]\n"+scripts)

		status("added %s to output.html.additional-js\n", assetFile)
	case !meta.IsDefined("output", "html", "additional-js"):
		loc := reOutputHTML.FindIndex(res)
		if loc == nil {
			status("warning: add %q to output.html.additional-js in %s\n", assetFile, bookFile)

			break
		}

		res = insert(res, loc[1], scripts)

		status("added %s to output.html.additional-js\n", assetFile)
	case !contains(cfg.Output.HTML.AdditionalJS, assetFile):
		status("warning: add %q to output.html.additional-js in %s\n", assetFile, bookFile)
	}

	if bytes.Equal(res, src) {
		return nil
	}

	return fsys.WriteFile(bookFile, res, fileMode)
}

func installAsset(fsys installFS, status statusFunc) error {
	current, err := fsys.ReadFile(assetFile)
	if err == nil && bytes.Equal(current, exsurgeInit) {
		return nil
	}

	if err := fsys.WriteFile(assetFile, exsurgeInit, fileMode); err != nil {
		return err
	}

	status("wrote %s\n", assetFile)

	return nil
}

func appendTable(src []byte, table string) []byte {
	res := append([]byte(nil), src...)

	if len(res) != 0 && !bytes.HasSuffix(res, []byte("\n")) {
		res = append(res, '\n')
	}

	if len(res) != 0 {
		res = append(res, '\n')
	}

	return append(res, table...)
}

func insert(src []byte, pos int, value string) []byte {
	res := make([]byte, 0, len(src)+len(value))
	res = append(res, src[:pos]...)
	res = append(res, value...)

	return append(res, src[pos:]...)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}

	return false
}
