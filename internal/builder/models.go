package builder

import (
	"html/template"

	"plume/internal/config"
)

// Options controls a build run.
type Options struct {
	// Unsafe disables HTML sanitization of goldmark output. The built-in
	// engine escapes everything itself and ignores this flag.
	Unsafe bool
}

// Result summarizes one build run.
type Result struct {
	Notes      int
	PerSection map[string]int
}

// PageData is the data passed to the detail page templates.
type PageData struct {
	Site        config.Site
	Section     config.Section
	Title       string
	DateDisplay string
	Tags        []string
	Summary     string
	Content     template.HTML
	BaseHref    string
}
