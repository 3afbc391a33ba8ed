package note

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// noteLinkTransformer rewrites cross-note links in the goldmark AST so
// that [other](other.md) points at the generated other.html page.
type noteLinkTransformer struct{}

func (noteLinkTransformer) Transform(doc *ast.Document, reader text.Reader, pc gmparser.Context) {
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if bytes.HasSuffix(link.Destination, []byte(".md")) {
			link.Destination = append(bytes.TrimSuffix(link.Destination, []byte(".md")), ".html"...)
		}
		return ast.WalkContinue, nil
	})
}
