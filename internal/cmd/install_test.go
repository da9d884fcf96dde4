package cmd

import (
	"fmt"
	"testing"

	"github.com/liamg/memoryfs"
	"github.com/stretchr/testify/require"
)

func statusTo(lines *[]string) statusFunc {
	return func(format string, args ...interface{}) {
		*lines = append(*lines, fmt.Sprintf(format, args...))
	}
}

func installFixture(t *testing.T, book string) *memoryfs.FS {
	t.Helper()

	fsys := memoryfs.New()
	require.NoError(t, fsys.WriteFile(bookFile, []byte(book), fileMode))

	return fsys
}

func readFile(t *testing.T, fsys *memoryfs.FS, name string) string {
	t.Helper()

	data, err := fsys.ReadFile(name)
	require.NoError(t, err)

	return string(data)
}

func TestInstall(t *testing.T) {
	t.Parallel()

	fsys := installFixture(t, "[book]\ntitle = \"Liber\"")

	var status []string

	require.NoError(t, installRun(fsys, statusTo(&status)))

	require.Equal(t, string(exsurgeInit), readFile(t, fsys, assetFile))
	require.Equal(t,
		"[book]\ntitle = \"Liber\"\n\n[preprocessor.gabc]\n\n[output.html]\nadditional-js = [\"exsurge-init.js\"]\n",
		readFile(t, fsys, bookFile))
	require.Len(t, status, 3)
}

func TestInstallIdempotent(t *testing.T) {
	t.Parallel()

	fsys := installFixture(t, "[book]\ntitle = \"Liber\"\n")

	require.NoError(t, installRun(fsys, func(string, ...interface{}) {}))

	first := readFile(t, fsys, bookFile)

	var status []string

	require.NoError(t, installRun(fsys, statusTo(&status)))
	require.Equal(t, first, readFile(t, fsys, bookFile))
	require.Empty(t, status)
}

func TestInstallExistingOutput(t *testing.T) {
	t.Parallel()

	fsys := installFixture(t, "[book]\ntitle = \"Liber\"\n\n[output.html]\ndefault-theme = \"light\"\n")

	require.NoError(t, installRun(fsys, func(string, ...interface{}) {}))
	require.Equal(t,
		"[book]\ntitle = \"Liber\"\n\n[output.html]\nadditional-js = [\"exsurge-init.js\"]\ndefault-theme = \"light\"\n\n[preprocessor.gabc]\n",
		readFile(t, fsys, bookFile))
}

func TestInstallOtherScripts(t *testing.T) {
	t.Parallel()

	book := "[preprocessor.gabc]\n\n[output.html]\nadditional-js = [\"custom.js\"]\n"
	fsys := installFixture(t, book)

	var status []string

	require.NoError(t, installRun(fsys, statusTo(&status)))
	require.Equal(t, book, readFile(t, fsys, bookFile))
	require.Len(t, status, 2)
	require.Contains(t, status[1], "warning:")
}

func TestInstallNoBook(t *testing.T) {
	t.Parallel()

	err := installRun(memoryfs.New(), func(string, ...interface{}) {})

	require.Error(t, err)
}

func TestInstallInvalidBook(t *testing.T) {
	t.Parallel()

	fsys := installFixture(t, "[book\n")

	err := installRun(fsys, func(string, ...interface{}) {})

	require.ErrorContains(t, err, bookFile)
}
