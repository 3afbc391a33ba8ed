// Package scaffold creates new site skeletons and new note files.
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"plume/internal/config"
	"plume/internal/note"
)

// CreateSite writes a working site skeleton into dir.
func CreateSite(dir string) error {
	mkdir := func(path string) error { return os.MkdirAll(filepath.Join(dir, path), 0755) }
	write := func(path, content string) error {
		return os.WriteFile(filepath.Join(dir, path), []byte(content), 0644)
	}

	dirs := []string{"content", "notes", "static/css", "templates/simple", "archetypes"}
	for _, d := range dirs {
		if err := mkdir(d); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	files := map[string]string{
		"site.yaml":                    siteYamlContent,
		"basics.html":                  sectionPageContent,
		"static/css/style.css":         styleCSSContent,
		"templates/simple/layout.html": layoutContent,
		"templates/simple/header.html": headerContent,
		"templates/simple/footer.html": footerContent,
		"archetypes/default.md":        archetypeContent,
		"content/welcome.md":           welcomeNoteContent,
	}
	for path, content := range files {
		if err := write(path, content); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	fmt.Println("Site scaffolded. You can now:")
	fmt.Println("  cd", dir)
	fmt.Println("  plume build")
	fmt.Println("  plume serve")
	return nil
}

// CreateNote writes a new note for the given section from the archetype.
func CreateNote(root, section, title string, site config.Site) error {
	raw, err := os.ReadFile(filepath.Join(root, "archetypes", "default.md"))
	if err != nil {
		return fmt.Errorf("could not read archetype: %w", err)
	}
	tmpl, err := template.New("archetype").Parse(string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse archetype: %w", err)
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, struct {
		Title    string
		Author   string
		Category string
	}{Title: title, Author: site.Author, Category: section})
	if err != nil {
		return fmt.Errorf("failed to execute archetype template: %w", err)
	}

	slug := note.Slugify(title, section, 1)
	path := filepath.Join(root, "content", slug+".md")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return err
	}
	fmt.Println("Created:", path)
	return nil
}

const siteYamlContent = `title: My Notes
author: Your Name
baseurl: /
description: A quiet corner for long-form notes.
template: simple
renderer: simple
default_section: basics
sections:
  - key: basics
    page: basics.html
    title: Basics
`

const sectionPageContent = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Basics</title>
  <link rel="stylesheet" href="static/css/style.css">
</head>
<body>
  <header class="site-header">
    <h1>Basics</h1>
  </header>
  <main class="content">
    <section class="section">
<!-- BEGIN:ARTICLE_LIST -->
<!-- END:ARTICLE_LIST -->
    </section>
  </main>
</body>
</html>
`

const layoutContent = `{{ define "main" }}
<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{ .Title }} | {{ .Site.Title }}</title>
  <link rel="stylesheet" href="{{ .BaseHref }}static/css/style.css">
{{ if .Summary }}
  <meta name="description" content="{{ .Summary }}">
{{ else }}
  <meta name="description" content="{{ .Site.Description }}">
{{ end }}
</head>
<body>
  {{ template "header" . }}
  <main>
    <article class="note">
{{ .Content }}
    </article>
  </main>
  {{ template "footer" . }}
</body>
</html>
{{ end }}
`

const headerContent = `{{ define "header" }}
<header>
  <div class="header-line">
    <div class="site-name">{{ .Site.Title }}</div>
    <h1 class="note-title">{{ .Title }}</h1>
    {{ if .DateDisplay }}<div class="note-meta">{{ .DateDisplay }}</div>{{ end }}
    {{ if .Tags }}<div class="note-tags">{{ range .Tags }}<span class="tag">{{ . }}</span>{{ end }}</div>{{ end }}
  </div>
  <nav>
    <a href="{{ .BaseHref }}{{ .Section.Page }}">← {{ if .Section.Title }}{{ .Section.Title }}{{ else }}Back{{ end }}</a>
  </nav>
</header>
{{ end }}
`

const footerContent = `{{ define "footer" }}
<footer>
  <div class="copyright">
    &copy; {{ if .Site.Author }}{{ .Site.Author }}{{ else }}{{ .Site.Title }}{{ end }}
  </div>
</footer>
{{ end }}
`

const archetypeContent = `---
title: {{.Title}}
date:
category: {{.Category}}
tags: []
---

Write something meaningful here.
`

const welcomeNoteContent = `---
title: Welcome
date: 2024-01-01
tags: [meta]
---

# Welcome

This note was scaffolded for you. Edit it, add more files to the
content directory, then run the build.

- Front matter between ` + "`---`" + ` lines carries metadata.
- A first-level heading becomes the title when front matter has none.
- [Links](https://example.com) work inside paragraphs and list items.
`

const styleCSSContent = `body {
  font-family: sans-serif;
  max-width: 700px;
  margin: 2em auto;
  padding: 0 1em;
  line-height: 1.6;
  color: #222;
  background: #fdfdfd;
}
.header-line {
  display: flex;
  flex-direction: column;
  gap: 0.25em;
  margin-bottom: 2em;
}
.site-name { font-size: 0.9em; color: #777; font-style: italic; }
.note-title { margin: 0; }
.note-meta { color: #777; font-size: 0.9em; }
.note-tags .tag { background: #eee; border-radius: 3px; padding: 0 0.4em; margin-right: 0.4em; font-size: 0.85em; }
.article-card { border-bottom: 1px solid #eee; padding: 1em 0; }
.article-card__meta { color: #777; font-size: 0.9em; }
.empty-state { color: #777; font-style: italic; }
blockquote { border-left: 3px solid #ddd; margin-left: 0; padding-left: 1em; color: #555; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 0.3em 0.6em; }
`
