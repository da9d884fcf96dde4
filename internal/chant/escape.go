package chant

import "strings"

var htmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"&", "&amp;",
)

// EscapeHTML replaces <, >, " and & with their named entities. Every other
// character is kept as is.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
