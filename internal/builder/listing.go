package builder

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"plume/internal/note"
)

// Placeholder comments delimiting the generated region of a section page.
// Everything outside them is author-owned and left untouched.
const (
	markerStart = "<!-- BEGIN:ARTICLE_LIST -->"
	markerEnd   = "<!-- END:ARTICLE_LIST -->"
)

const emptyState = `<p class="empty-state">No notes here yet — check back soon.</p>`

var cardTmpl = template.Must(template.New("card").Parse(`<article class="article-card" id="{{.Slug}}">
  <header class="article-card__header">
    <h3>{{.Title}}</h3>
    {{- if .MetaLine}}
    <p class="article-card__meta">{{.MetaLine}}</p>
    {{- end}}
  </header>
  <p class="article-card__summary">{{.Summary}}</p>
  <div class="article-card__actions">
    <a class="article-card__link" href="notes/{{.Slug}}.html">Read note</a>
  </div>
</article>`))

type cardData struct {
	Slug     string
	Title    string
	MetaLine string
	Summary  string
}

// renderCards produces the listing markup for one section, newest first
// (the caller passes notes already sorted).
func renderCards(notes []note.Note) (string, error) {
	if len(notes) == 0 {
		return indent(emptyState, 8), nil
	}

	cards := make([]string, 0, len(notes))
	for _, n := range notes {
		meta := n.DateDisplay
		if len(n.Tags) > 0 {
			if meta != "" {
				meta += " · "
			}
			meta += strings.Join(n.Tags, ", ")
		}
		var b strings.Builder
		err := cardTmpl.Execute(&b, cardData{
			Slug:     n.Slug,
			Title:    n.Title,
			MetaLine: meta,
			Summary:  n.Summary,
		})
		if err != nil {
			return "", fmt.Errorf("failed to render card for %s: %w", n.Slug, err)
		}
		cards = append(cards, indent(b.String(), 8))
	}
	return strings.Join(cards, "\n"), nil
}

// updateListing splices the section's cards into its page file between
// the placeholder markers, preserving everything around them.
func updateListing(path string, notes []note.Note) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	page := string(raw)
	start := strings.Index(page, markerStart)
	end := strings.Index(page, markerEnd)
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("%s: placeholder markers not found", path)
	}

	cards, err := renderCards(notes)
	if err != nil {
		return err
	}

	updated := page[:start+len(markerStart)] + "\n" + cards + "\n" + page[end:]
	return os.WriteFile(path, []byte(updated), 0644)
}

func indent(text string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}
