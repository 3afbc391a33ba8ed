package note

import (
	"regexp"
	"strings"
)

var (
	codeSpanRe    = regexp.MustCompile("`([^`]+)`")
	emphasisRe    = regexp.MustCompile(`[*_~]`)
	quoteMarkRe   = regexp.MustCompile(`(?m)^>\s?`)
	headingMarkRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	bulletMarkRe  = regexp.MustCompile(`(?m)^[-*+]\s+`)
	ruleLineRe    = regexp.MustCompile(`(?m)^\s*(?:(?:-\s*){3,}|(?:\*\s*){3,}|(?:_\s*){3,})$`)
	blankRunRe    = regexp.MustCompile(`\n\s*\n`)
	spaceRunRe    = regexp.MustCompile(`\s+`)
)

// Summarize derives a single-line plain-text teaser from the first real
// paragraph of body, truncated to limit runes with an ellipsis. Callers
// only invoke it when metadata supplied no explicit summary.
func Summarize(body string, limit int) string {
	var kept []string
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, ">") || strings.HasPrefix(t, "#") {
			kept = append(kept, "")
			continue
		}
		kept = append(kept, line)
	}

	source := strings.Join(kept, "\n")
	for _, p := range blankRunRe.Split(source, -1) {
		if p = strings.TrimSpace(p); p != "" {
			source = p
			break
		}
	}

	plain := stripMarkdown(source)
	plain = strings.TrimSpace(spaceRunRe.ReplaceAllString(plain, " "))
	return truncate(plain, limit)
}

// stripMarkdown removes inline and block punctuation, keeping the text
// inside code spans.
func stripMarkdown(text string) string {
	text = codeSpanRe.ReplaceAllString(text, "$1")
	text = emphasisRe.ReplaceAllString(text, "")
	text = quoteMarkRe.ReplaceAllString(text, "")
	text = headingMarkRe.ReplaceAllString(text, "")
	text = bulletMarkRe.ReplaceAllString(text, "")
	text = ruleLineRe.ReplaceAllString(text, "")
	return text
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
