// Package config loads and validates the site.yaml configuration.
package config

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Section is one listing page of the site. Notes whose category matches
// Key are spliced into the page named by Page.
type Section struct {
	Key   string `yaml:"key"`
	Page  string `yaml:"page"`
	Title string `yaml:"title"`
}

// Site holds the configuration from site.yaml.
type Site struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	BaseURL     string `yaml:"baseurl"`
	Description string `yaml:"description"`
	Template    string `yaml:"template"`

	// Renderer selects the body rendering strategy once at startup:
	// "simple" (the built-in engine, default) or "goldmark".
	Renderer string `yaml:"renderer"`

	// DefaultSection receives notes with no category and notes whose
	// category matches no section. Defaults to the first section's key.
	DefaultSection string    `yaml:"default_section"`
	SummaryLength  int       `yaml:"summary_length"`
	Sections       []Section `yaml:"sections"`
}

// Load reads, parses, and validates a site configuration file.
func Load(path string) (Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	cfg := Site{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Site{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Site{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Site) applyDefaults() {
	if c.Template == "" {
		c.Template = "simple"
	}
	if c.Renderer == "" {
		c.Renderer = "simple"
	}
	if c.SummaryLength == 0 {
		c.SummaryLength = 140
	}
	if c.DefaultSection == "" && len(c.Sections) > 0 {
		c.DefaultSection = c.Sections[0].Key
	}
}

// Validate checks the configuration after defaults are applied.
func (c Site) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Renderer, validation.In("simple", "goldmark")),
		validation.Field(&c.Sections, validation.Required),
		validation.Field(&c.SummaryLength, validation.Min(1)),
	); err != nil {
		return err
	}

	keys := make(map[string]bool, len(c.Sections))
	for _, s := range c.Sections {
		if err := validation.ValidateStruct(&s,
			validation.Field(&s.Key, validation.Required),
			validation.Field(&s.Page, validation.Required),
		); err != nil {
			return fmt.Errorf("section %q: %w", s.Key, err)
		}
		if keys[s.Key] {
			return fmt.Errorf("section %q: duplicate key", s.Key)
		}
		keys[s.Key] = true
	}
	if !keys[c.DefaultSection] {
		return fmt.Errorf("default_section %q does not match any section", c.DefaultSection)
	}
	return nil
}

// SectionFor returns the section a note category belongs to; unknown
// categories land in the default section.
func (c Site) SectionFor(category string) Section {
	var def Section
	for _, s := range c.Sections {
		if s.Key == category {
			return s
		}
		if s.Key == c.DefaultSection {
			def = s
		}
	}
	return def
}
