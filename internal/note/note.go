// Package note is the document engine: it extracts metadata from raw
// Markdown text, derives slugs and summaries, and renders bodies to HTML
// fragments. It knows nothing about files, templates, or page assembly;
// the builder feeds it one document at a time and consumes a Note back.
package note

import (
	"sort"
	"time"
)

// DefaultSummaryLimit is the teaser budget in runes.
const DefaultSummaryLimit = 140

// Options tunes document processing. The zero value is usable.
type Options struct {
	// DefaultCategory is assigned when a document declares none.
	DefaultCategory string
	// SummaryLimit caps derived teasers; 0 means DefaultSummaryLimit.
	SummaryLimit int
}

// Note is the metadata record plus rendered body for one document.
type Note struct {
	Title       string
	DateDisplay string // raw date string as authored, unvalidated
	Summary     string
	Tags        []string // never nil
	Category    string
	Slug        string
	HTML        string

	sortTime time.Time
}

// PublishedAt returns the parsed date, or the zero time for undated or
// unparseable dates.
func (n Note) PublishedAt() time.Time { return n.sortTime }

// FromDocument processes one raw document. stem is the filename stem,
// used as the title and slug fallback; seq is the document's position in
// the scan, used only by the slug fallback chain. The returned error can
// only come from a full-featured renderer; the built-in engine is total.
//
// The sort key is computed here, once: DateDisplay parsed as YYYY-MM-DD,
// or the zero time, which orders undated notes after every dated one in a
// reverse-chronological listing.
func FromDocument(raw []byte, stem string, seq int, r Renderer, opts Options) (Note, error) {
	meta, body := ExtractMeta(string(raw), stem)

	n := Note{
		Title:       meta.Title(),
		DateDisplay: meta.Date(),
		Summary:     meta.Summary(),
		Tags:        meta.Tags(),
		Category:    meta.Category(opts.DefaultCategory),
		Slug:        Slugify(meta.Title(), stem, seq),
	}
	if t, err := time.Parse(time.DateOnly, n.DateDisplay); err == nil {
		n.sortTime = t
	}

	if n.Summary == "" {
		limit := opts.SummaryLimit
		if limit == 0 {
			limit = DefaultSummaryLimit
		}
		n.Summary = Summarize(body, limit)
	}

	html, err := r.Render(StripMetaLines(body))
	if err != nil {
		return Note{}, err
	}
	n.HTML = html
	return n, nil
}

// SortNotes orders notes newest first. Undated notes keep their relative
// order after every dated one.
func SortNotes(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].sortTime.After(notes[j].sortTime)
	})
}
