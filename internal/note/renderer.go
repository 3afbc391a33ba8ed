package note

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Renderer turns a markdown body into an HTML fragment. The fragment is
// safe to embed verbatim; callers must not escape it again.
type Renderer interface {
	Render(body string) (string, error)
}

// SimpleRenderer is the built-in line-oriented engine and the default
// rendering strategy. It supports a fixed subset: headings, blockquotes,
// single-level lists, horizontal rules, pipe tables, paragraphs, and
// inline links. Its Render never fails.
type SimpleRenderer struct {
	// LinkedBlockquotes also runs blockquote lines through the link
	// inliner. Off by default: the established output escapes blockquote
	// content without inlining links, and existing pages depend on that.
	LinkedBlockquotes bool
}

func (r SimpleRenderer) Render(body string) (string, error) {
	return renderBlocks(body, r.LinkedBlockquotes), nil
}

// GoldmarkRenderer is the full-featured strategy, selected once at startup
// when the site config asks for it. Output is sanitized unless the build
// runs with --unsafe.
type GoldmarkRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewGoldmarkRenderer(unsafe bool) *GoldmarkRenderer {
	r := &GoldmarkRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(
				gmparser.WithAutoHeadingID(),
				gmparser.WithASTTransformers(
					util.Prioritized(noteLinkTransformer{}, 100),
				),
			),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
	if !unsafe {
		r.policy = bluemonday.UGCPolicy()
	}
	return r
}

func (r *GoldmarkRenderer) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("goldmark render: %w", err)
	}
	if r.policy != nil {
		return string(r.policy.SanitizeBytes(buf.Bytes())), nil
	}
	return buf.String(), nil
}

// Select picks the rendering strategy named in the site config. Anything
// other than "goldmark" means the built-in engine.
func Select(name string, unsafe bool) Renderer {
	if name == "goldmark" {
		return NewGoldmarkRenderer(unsafe)
	}
	return SimpleRenderer{}
}
