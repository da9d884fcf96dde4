package gabc

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ezerfernandes/mdbook-gabc/internal/book"
	"github.com/ezerfernandes/mdbook-gabc/internal/chant"
)

const (
	chantContent = "# Kyrie\n\n```gabc\n(c4) Ky(f)ri(g)e(h)\n```\n"
	chantOutput  = "# Kyrie\n\n\n<pre class=\"chant-container\">(c4) Ky(f)ri(g)e(h)\n</pre>\n\n\n"
)

func str(s string) *string {
	return &s
}

func testBook() *book.Book {
	return &book.Book{Sections: []book.Item{
		{Chapter: &book.Chapter{
			Name:       "Intro",
			Content:    chantContent,
			SourcePath: str("intro.md"),
			SubItems: []book.Item{
				{Chapter: &book.Chapter{Name: "Nested", Content: chantContent, SourcePath: str("intro/nested.md")}},
			},
		}},
		{Separator: true},
		{Chapter: &book.Chapter{Name: "Draft", Content: chantContent, SourcePath: str("drafts/one.md")}},
		{Chapter: &book.Chapter{Name: "Plain", Content: "| a | b |\n|---|---|\n| 1 | 2 |\n"}},
	}}
}

func testContext(t *testing.T, cfg string) *book.Context {
	t.Helper()

	ctx := &book.Context{Renderer: Renderer, MdbookVersion: "0.4.40"}
	if cfg == "" {
		return ctx
	}

	ctx.Config = map[string]json.RawMessage{
		"preprocessor": json.RawMessage(`{"gabc": ` + cfg + `}`),
	}

	return ctx
}

func TestNameAndRenderer(t *testing.T) {
	t.Parallel()

	p := New(nil)

	require.Equal(t, "gabc", p.Name())
	require.True(t, p.SupportsRenderer("html"))
	require.False(t, p.SupportsRenderer("markdown"))
	require.False(t, p.SupportsRenderer("HTML"))
}

func TestRun(t *testing.T) {
	t.Parallel()

	res, err := New(nil).Run(testContext(t, ""), testBook())

	require.NoError(t, err)
	require.Equal(t, chantOutput, res.Sections[0].Chapter.Content)
	require.Equal(t, chantOutput, res.Sections[0].Chapter.SubItems[0].Chapter.Content)
	require.Equal(t, chantOutput, res.Sections[2].Chapter.Content)
	require.Equal(t, "| a | b |\n|---|---|\n| 1 | 2 |\n", res.Sections[3].Chapter.Content)
}

func TestRunExclude(t *testing.T) {
	t.Parallel()

	res, err := New(nil).Run(testContext(t, `{"exclude": ["drafts/*"]}`), testBook())

	require.NoError(t, err)
	require.Equal(t, chantOutput, res.Sections[0].Chapter.Content)
	require.Equal(t, chantContent, res.Sections[2].Chapter.Content)
}

func TestRunFences(t *testing.T) {
	t.Parallel()

	b := &book.Book{Sections: []book.Item{
		{Chapter: &book.Chapter{Name: "ABC", Content: "```abc\nX:1\n```\n\n```gabc\n(f3)\n```\n"}},
	}}

	res, err := New(nil).Run(testContext(t, `{"fence": [{"label": "abc", "class": "abc-score"}, {"label": "gabc"}]}`), b)

	require.NoError(t, err)
	require.Equal(t,
		"\n<pre class=\"abc-score\">X:1\n</pre>\n\n\n\n\n<pre class=\"chant-container\">(f3)\n</pre>\n\n\n",
		res.Sections[0].Chapter.Content)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken")

	p := New(nil)
	p.transform = func(tr *chant.Transformer, content string) (string, error) {
		if strings.Contains(content, "fail") {
			return "", errBroken
		}

		return tr.Transform(content)
	}

	b := &book.Book{Sections: []book.Item{
		{Chapter: &book.Chapter{Name: "One", Content: chantContent}},
		{Chapter: &book.Chapter{Name: "Two", Content: "fail"}},
		{Chapter: &book.Chapter{Name: "Three", Content: chantContent}},
	}}

	res, err := p.Run(testContext(t, ""), b)

	require.Nil(t, res)
	require.ErrorIs(t, err, errBroken)

	var chapterErr *Error

	require.ErrorAs(t, err, &chapterErr)
	require.Equal(t, "Two", chapterErr.Chapter)
	require.Equal(t, `chapter "Two": broken`, err.Error())

	require.Equal(t, chantOutput, b.Sections[0].Chapter.Content)
	require.Equal(t, chantContent, b.Sections[2].Chapter.Content)
}

func TestRunVersionMismatch(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)

	ctx := testContext(t, "")
	ctx.MdbookVersion = "0.5.0"

	_, err := New(zap.New(core)).Run(ctx, testBook())

	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("mdbook version mismatch").Len())
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	require.Equal(t, []chant.Fence{chant.Gabc}, cfg.Fences)

	cfg, err = LoadConfig(testContext(t, `{"fence": [{"label": "abc"}], "command": "mdbook-gabc"}`))
	require.NoError(t, err)
	require.Equal(t, []chant.Fence{{Label: "abc", Class: "chant-container"}}, cfg.Fences)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"no label": `{"fence": [{"class": "x"}]}`,
		"bad glob": `{"exclude": ["[a-"]}`,
		"bad type": `{"exclude": "drafts"}`,
	}

	for name, cfg := range tests {
		cfg := cfg

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(testContext(t, cfg))

			require.Error(t, err)
		})
	}
}
