package builder

import (
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plume/internal/config"
)

const sectionPage = `<!DOCTYPE html>
<html><body>
<section>
<!-- BEGIN:ARTICLE_LIST -->
<!-- END:ARTICLE_LIST -->
</section>
</body></html>
`

var testTmpl = template.Must(template.New("layout").Parse(`{{ define "main" }}<!DOCTYPE html>
<html><head><title>{{ .Title }} | {{ .Site.Title }}</title></head>
<body>{{ .Content }}</body></html>
{{ end }}`))

func testConfig() config.Site {
	return config.Site{
		Title:          "Test Notes",
		Renderer:       "simple",
		Template:       "simple",
		DefaultSection: "basics",
		SummaryLength:  140,
		Sections: []config.Section{
			{Key: "basics", Page: "basics.html", Title: "Basics"},
			{Key: "papers", Page: "papers.html", Title: "Papers"},
		},
	}
}

func newTestSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "content"), 0755); err != nil {
		t.Fatal(err)
	}
	write := func(rel, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("basics.html", sectionPage)
	write("papers.html", sectionPage)
	write("content/first.md", "---\ntitle: First Note\ndate: 2024-01-01\ntags: [a, b]\n---\nThe first body.\n")
	write("content/second.md", "---\ntitle: Second Note\ndate: 2025-02-02\ncategory: papers\n---\nThe second body.\n")
	return root
}

func TestBuildSite(t *testing.T) {
	root := newTestSite(t)
	res, err := BuildSite(root, testConfig(), testTmpl, Options{})
	if err != nil {
		t.Fatalf("BuildSite: %v", err)
	}
	if res.Notes != 2 {
		t.Errorf("notes = %d, want 2", res.Notes)
	}
	if res.PerSection["basics"] != 1 || res.PerSection["papers"] != 1 {
		t.Errorf("per-section counts = %v", res.PerSection)
	}

	basics, err := os.ReadFile(filepath.Join(root, "basics.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(basics), `id="first-note"`) {
		t.Errorf("basics listing missing card: %s", basics)
	}
	if strings.Contains(string(basics), "second-note") {
		t.Errorf("papers note leaked into basics listing")
	}
	if !strings.Contains(string(basics), markerStart) || !strings.Contains(string(basics), markerEnd) {
		t.Errorf("markers lost after splice")
	}

	detail, err := os.ReadFile(filepath.Join(root, "notes", "first-note.html"))
	if err != nil {
		t.Fatalf("detail page not written: %v", err)
	}
	if !strings.Contains(string(detail), "<p>The first body.</p>") {
		t.Errorf("detail content wrong: %s", detail)
	}
}

func TestBuildSite_SpliceIsIdempotent(t *testing.T) {
	root := newTestSite(t)
	cfg := testConfig()
	for i := 0; i < 2; i++ {
		if _, err := BuildSite(root, cfg, testTmpl, Options{}); err != nil {
			t.Fatalf("build %d: %v", i, err)
		}
	}
	basics, _ := os.ReadFile(filepath.Join(root, "basics.html"))
	if got := strings.Count(string(basics), `id="first-note"`); got != 1 {
		t.Errorf("card appears %d times after rebuild, want 1", got)
	}
}

func TestBuildSite_PrunesStalePages(t *testing.T) {
	root := newTestSite(t)
	stale := filepath.Join(root, "notes", "gone.html")
	if err := os.MkdirAll(filepath.Dir(stale), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := BuildSite(root, testConfig(), testTmpl, Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale page not pruned: %v", err)
	}
}

func TestBuildSite_MissingSectionPageSkipped(t *testing.T) {
	root := newTestSite(t)
	if err := os.Remove(filepath.Join(root, "papers.html")); err != nil {
		t.Fatal(err)
	}
	if _, err := BuildSite(root, testConfig(), testTmpl, Options{}); err != nil {
		t.Fatalf("missing section page must not fail the build: %v", err)
	}
}

func TestBuildSite_MissingContentDir(t *testing.T) {
	root := t.TempDir()
	if _, err := BuildSite(root, testConfig(), testTmpl, Options{}); err == nil {
		t.Fatal("expected error for missing content directory")
	}
}

func TestUpdateListing_MissingMarkers(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "page.html")
	if err := os.WriteFile(path, []byte("<html><body>no markers</body></html>"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := updateListing(path, nil); err == nil {
		t.Fatal("expected error for missing placeholder markers")
	}
}

func TestRenderCards_EmptySection(t *testing.T) {
	out, err := renderCards(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "empty-state") {
		t.Errorf("empty section should render the empty state, got %q", out)
	}
}
