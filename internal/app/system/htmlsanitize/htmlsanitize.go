// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy   = newRichPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// newRichPolicy is the UGC policy plus the table and formatting markup the
// admin editors produce.
func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowTables()
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tfoot", "tr", "td", "th", "pre", "code")
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td", "th")
	return p
}

// Sanitize removes scripts, event handlers, unsafe URLs and any markup
// outside the rich-text allowlist.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return richPolicy.Sanitize(s)
}

// StripTags returns the text content of s with all markup removed,
// entities decoded and whitespace collapsed.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	text := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns the first n characters of the text content of s, with
// "..." appended when the text was cut.
func Excerpt(s string, n int) string {
	text := StripTags(s)
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:n])) + "..."
}
