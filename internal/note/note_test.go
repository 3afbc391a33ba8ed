package note

import (
	"strings"
	"testing"
	"time"
)

const sampleDoc = `---
title: Inflammation Basics
date: 2024-05-01
tags: [immunity, aging]
---

> 日期：2020-01-01（旧行，front matter 优先）

Chronic inflammation builds slowly.

- [overview](overview.md)
`

func TestFromDocument(t *testing.T) {
	n, err := FromDocument([]byte(sampleDoc), "2024-05-01-basics", 3, SimpleRenderer{}, Options{DefaultCategory: "basics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n.Title != "Inflammation Basics" {
		t.Errorf("title = %q", n.Title)
	}
	if n.Slug != "inflammation-basics" {
		t.Errorf("slug = %q", n.Slug)
	}
	if n.DateDisplay != "2024-05-01" {
		t.Errorf("date = %q", n.DateDisplay)
	}
	if want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC); !n.PublishedAt().Equal(want) {
		t.Errorf("published = %v, want %v", n.PublishedAt(), want)
	}
	if len(n.Tags) != 2 || n.Tags[0] != "immunity" {
		t.Errorf("tags = %v", n.Tags)
	}
	if n.Category != "basics" {
		t.Errorf("category = %q", n.Category)
	}
	if n.Summary != "Chronic inflammation builds slowly." {
		t.Errorf("summary = %q", n.Summary)
	}
	if !strings.Contains(n.HTML, "<p>Chronic inflammation builds slowly.</p>") {
		t.Errorf("body paragraph missing: %q", n.HTML)
	}
	if !strings.Contains(n.HTML, `<a href="overview.md">overview</a>`) {
		t.Errorf("list link missing: %q", n.HTML)
	}
	if strings.Contains(n.HTML, "日期") {
		t.Errorf("metadata blockquote leaked into body: %q", n.HTML)
	}
}

func TestFromDocument_ExplicitSummaryWins(t *testing.T) {
	doc := "---\nsummary: the explicit one\n---\nDerived paragraph.\n"
	n, err := FromDocument([]byte(doc), "stem", 1, SimpleRenderer{}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Summary != "the explicit one" {
		t.Errorf("summary = %q", n.Summary)
	}
}

func TestFromDocument_BadDateSortsOldest(t *testing.T) {
	doc := "---\ndate: sometime in spring\n---\nbody\n"
	n, err := FromDocument([]byte(doc), "stem", 1, SimpleRenderer{}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.DateDisplay != "sometime in spring" {
		t.Errorf("display string not preserved: %q", n.DateDisplay)
	}
	if !n.PublishedAt().IsZero() {
		t.Errorf("unparseable date should map to the zero time, got %v", n.PublishedAt())
	}
}

func TestFromDocument_SlugFallsBackToStem(t *testing.T) {
	n, err := FromDocument([]byte("# 标题只有中文\n"), "2024-01-01-notes", 1, SimpleRenderer{}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Slug != "2024-01-01-notes" {
		t.Errorf("slug = %q", n.Slug)
	}
}

func TestSortNotes(t *testing.T) {
	mk := func(date, title string) Note {
		n, err := FromDocument([]byte("---\ntitle: "+title+"\ndate: "+date+"\n---\nx\n"), title, 1, SimpleRenderer{}, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return n
	}
	notes := []Note{mk("2023-01-01", "old"), mk("undated", "a"), mk("2025-06-30", "new"), mk("undated", "b")}
	SortNotes(notes)

	got := []string{notes[0].Title, notes[1].Title, notes[2].Title, notes[3].Title}
	want := []string{"new", "old", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
