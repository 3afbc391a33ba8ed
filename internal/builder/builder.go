// Package builder assembles the site: it scans the content directory,
// feeds each document through the note engine, splices listing cards into
// the section pages, and writes one detail page per note.
package builder

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"plume/internal/config"
	"plume/internal/note"
)

// BuildSite runs a full build rooted at root. Section listing pages are
// rewritten in place between their placeholder markers; detail pages are
// regenerated under notes/ and stale ones pruned.
func BuildSite(root string, site config.Site, tmpl *template.Template, opts Options) (Result, error) {
	files, err := contentFiles(filepath.Join(root, "content"))
	if err != nil {
		return Result{}, err
	}

	notes, err := renderNotes(root, files, site, opts)
	if err != nil {
		return Result{}, err
	}
	note.SortNotes(notes)

	bySection := make(map[string][]note.Note)
	for _, n := range notes {
		key := site.SectionFor(n.Category).Key
		bySection[key] = append(bySection[key], n)
	}

	result := Result{Notes: len(notes), PerSection: make(map[string]int, len(site.Sections))}
	for _, section := range site.Sections {
		result.PerSection[section.Key] = len(bySection[section.Key])
		if err := updateListing(filepath.Join(root, section.Page), bySection[section.Key]); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				slog.Warn("section page missing, skipping", "page", section.Page)
				continue
			}
			return Result{}, fmt.Errorf("section %s: %w", section.Key, err)
		}
	}

	if err := writeDetailPages(root, site, tmpl, notes); err != nil {
		return Result{}, err
	}

	slog.Info("site built", "notes", len(notes), "sections", len(site.Sections))
	return result, nil
}

// contentFiles lists the markdown documents to build, *.md first and
// *.markdown after, each group sorted by name. The scan order fixes the
// sequence numbers the slug fallback chain uses, so it must stay stable.
func contentFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read content directory %s: %w", dir, err)
	}

	var md, markdown []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".md":
			md = append(md, e.Name())
		case ".markdown":
			markdown = append(markdown, e.Name())
		}
	}
	sort.Strings(md)
	sort.Strings(markdown)
	return append(md, markdown...), nil
}

// renderNotes processes every document through the engine. Documents are
// independent, so they render in parallel; results keep scan order.
func renderNotes(root string, files []string, site config.Site, opts Options) ([]note.Note, error) {
	renderer := note.Select(site.Renderer, opts.Unsafe)
	noteOpts := note.Options{
		DefaultCategory: site.DefaultSection,
		SummaryLimit:    site.SummaryLength,
	}

	notes := make([]note.Note, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			raw, err := os.ReadFile(filepath.Join(root, "content", name))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			n, err := note.FromDocument(raw, stem, i+1, renderer, noteOpts)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", name, err)
			}
			notes[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return notes, nil
}

// writeDetailPages generates notes/<slug>.html for every note and removes
// pages whose slug no longer exists.
func writeDetailPages(root string, site config.Site, tmpl *template.Template, notes []note.Note) error {
	dir := filepath.Join(root, "notes")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	current := make(map[string]bool, len(notes))
	for _, n := range notes {
		current[n.Slug] = true
		data := PageData{
			Site:        site,
			Section:     site.SectionFor(n.Category),
			Title:       n.Title,
			DateDisplay: n.DateDisplay,
			Tags:        n.Tags,
			Summary:     n.Summary,
			Content:     template.HTML(n.HTML),
			BaseHref:    relRoot(filepath.Join("notes", n.Slug+".html")),
		}
		if err := renderPage(tmpl, filepath.Join(dir, n.Slug+".html"), data); err != nil {
			return fmt.Errorf("failed to render page for %s: %w", n.Slug, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".html" {
			continue
		}
		if slug := strings.TrimSuffix(name, ".html"); !current[slug] {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				return err
			}
			slog.Info("pruned stale page", "page", name)
		}
	}
	return nil
}

// renderPage executes the layout template and writes the output to a file.
func renderPage(tmpl *template.Template, outPath string, data PageData) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	// "main" is the template name defined by the layout file.
	return tmpl.ExecuteTemplate(out, "main", data)
}

// LoadTemplates parses the layout and partials for the named theme.
func LoadTemplates(root, name string) (*template.Template, error) {
	dir := filepath.Join(root, "templates", name)
	return template.ParseFiles(
		filepath.Join(dir, "layout.html"),
		filepath.Join(dir, "header.html"),
		filepath.Join(dir, "footer.html"),
	)
}

// relRoot returns the relative path from a page back to the site root, so
// stylesheet links work at any depth.
func relRoot(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return ""
	}
	depth := strings.Count(dir, string(os.PathSeparator)) + 1
	return strings.Repeat("../", depth)
}
