package note

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var linkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// renderInline converts [label](url) spans in text to anchor elements and
// HTML-escapes everything else.
//
// Links are lifted out into placeholder tokens first, the remaining text is
// escaped as a whole, and the fully rendered anchors are substituted back
// in afterwards. Escaping before substitution is the only safe order: it
// keeps the generated anchor markup itself from being re-escaped, and it
// keeps label/url content that resembles link syntax from being processed
// twice. The tokens are delimited with NUL bytes, which are removed from
// the input up front, so they cannot collide with document content.
func renderInline(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")

	var anchors []string
	tokenized := linkRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := linkRe.FindStringSubmatch(m)
		anchors = append(anchors, fmt.Sprintf(`<a href="%s">%s</a>`,
			html.EscapeString(sub[2]), html.EscapeString(sub[1])))
		return fmt.Sprintf("\x00%d\x00", len(anchors)-1)
	})

	escaped := html.EscapeString(tokenized)
	for i, a := range anchors {
		escaped = strings.Replace(escaped, fmt.Sprintf("\x00%d\x00", i), a, 1)
	}
	return escaped
}
