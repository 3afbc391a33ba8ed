package note

import (
	"reflect"
	"testing"
)

func TestExtractMeta_DelimitedBlock(t *testing.T) {
	text := "---\ntitle: Hello\ndate: 2024-03-05\ncustom-key: kept verbatim\n---\nBody text.\n"
	meta, body := ExtractMeta(text, "stem")

	if meta.Title() != "Hello" {
		t.Errorf("title = %q, want %q", meta.Title(), "Hello")
	}
	if meta.Date() != "2024-03-05" {
		t.Errorf("date = %q", meta.Date())
	}
	if meta.Fields["custom-key"] != "kept verbatim" {
		t.Errorf("unknown key dropped: %v", meta.Fields)
	}
	if body != "Body text.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestExtractMeta_TagsBothForms(t *testing.T) {
	want := []string{"a", "b"}
	for _, value := range []string{"[a, b]", "a,b", `["a","b"]`, "a，b", "a、b"} {
		meta, _ := ExtractMeta("---\ntags: "+value+"\n---\n", "stem")
		if got := meta.Tags(); !reflect.DeepEqual(got, want) {
			t.Errorf("tags: %s = %v, want %v", value, got, want)
		}
	}
}

func TestExtractMeta_TagsDefaultEmpty(t *testing.T) {
	meta, _ := ExtractMeta("just a body", "stem")
	if got := meta.Tags(); got == nil || len(got) != 0 {
		t.Errorf("tags = %#v, want empty non-nil slice", got)
	}
}

func TestExtractMeta_BlockquoteMetadata(t *testing.T) {
	text := "# 标题\n\n> 日期：2024-01-02\n> 标签：通路、代谢\n> 摘要：一句话总结\n\n正文。\n"
	meta, _ := ExtractMeta(text, "stem")

	if meta.Date() != "2024-01-02" {
		t.Errorf("date = %q", meta.Date())
	}
	if got := meta.Tags(); !reflect.DeepEqual(got, []string{"通路", "代谢"}) {
		t.Errorf("tags = %v", got)
	}
	if meta.Summary() != "一句话总结" {
		t.Errorf("summary = %q", meta.Summary())
	}
}

func TestExtractMeta_BlockquoteEnglishLabels(t *testing.T) {
	text := "> Date: 2023-12-31\n> Tags: go, parsing\n> Summary: a teaser\n"
	meta, _ := ExtractMeta(text, "stem")

	if meta.Date() != "2023-12-31" {
		t.Errorf("date = %q", meta.Date())
	}
	if got := meta.Tags(); !reflect.DeepEqual(got, []string{"go", "parsing"}) {
		t.Errorf("tags = %v", got)
	}
	if meta.Summary() != "a teaser" {
		t.Errorf("summary = %q", meta.Summary())
	}
}

func TestExtractMeta_FrontMatterWinsOverBlockquote(t *testing.T) {
	text := "---\ndate: 2020-01-01\n---\n> 日期：2024-01-02\n"
	meta, _ := ExtractMeta(text, "stem")
	if meta.Date() != "2020-01-01" {
		t.Errorf("date = %q, want front-matter value", meta.Date())
	}
}

func TestExtractMeta_FirstBlockquoteMatchWins(t *testing.T) {
	text := "> date: 2021-05-05\n> date: 2022-06-06\n"
	meta, _ := ExtractMeta(text, "stem")
	if meta.Date() != "2021-05-05" {
		t.Errorf("date = %q, want first match", meta.Date())
	}
}

func TestExtractMeta_TitlePrecedence(t *testing.T) {
	// Explicit front matter wins.
	meta, _ := ExtractMeta("---\ntitle: Explicit\n---\n# Heading\n", "stem")
	if meta.Title() != "Explicit" {
		t.Errorf("title = %q, want Explicit", meta.Title())
	}
	// Then the first H1.
	meta, _ = ExtractMeta("intro\n# Heading\n", "stem")
	if meta.Title() != "Heading" {
		t.Errorf("title = %q, want Heading", meta.Title())
	}
	// Then the filename stem.
	meta, _ = ExtractMeta("no headings here\n", "stem")
	if meta.Title() != "stem" {
		t.Errorf("title = %q, want stem", meta.Title())
	}
}

func TestExtractMeta_UnclosedFrontMatter(t *testing.T) {
	// No closing delimiter: everything after the opener is front matter
	// and the body is empty.
	meta, body := ExtractMeta("---\ntitle: T\nkey: v\n", "stem")
	if meta.Title() != "T" {
		t.Errorf("title = %q", meta.Title())
	}
	if body != "" {
		t.Errorf("body = %q, want empty", body)
	}
}

func TestStripMetaLines(t *testing.T) {
	body := "# Kept\n\n> 日期：2024-01-02\n> 标签：x\n> A real quote.\n\ntext"
	got := StripMetaLines(body)
	want := "# Kept\n\n> A real quote.\n\ntext"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
