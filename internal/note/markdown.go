package note

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	quoteRe    = regexp.MustCompile(`^>\s?(.*)$`)
	hruleRe    = regexp.MustCompile(`^\s*(?:(?:-\s*){3,}|(?:\*\s*){3,}|(?:_\s*){3,})$`)
	listItemRe = regexp.MustCompile(`^\s*([*+-]|\d+[.)])\s+`)
	// A table row whose cells hold nothing but divider punctuation is the
	// header/body separator and is consumed without being rendered.
	tableDividerRe = regexp.MustCompile(`^[\s|:-]+$`)
)

// parser is the line-oriented block state machine. A blockquote can stay
// open while paragraphs, lists, or rules accumulate inside it, so it is
// tracked separately from the single exclusive block buffer.
type parser struct {
	out []string

	para      []string
	listTag   string // "ul" or "ol"; "" when no list is open
	quoteOpen bool
	inTable   bool
	tableRows [][]string

	linkQuotes bool
}

// renderBlocks converts the supported markdown subset to an HTML fragment.
// Total: any input yields a fragment, never an error.
func renderBlocks(text string, linkQuotes bool) string {
	p := &parser{linkQuotes: linkQuotes}
	for _, raw := range strings.Split(text, "\n") {
		p.feed(strings.TrimRight(raw, " \t\r"))
	}
	// End-of-input flush order matters: a document ending mid-table or
	// mid-paragraph must still render completely.
	p.flushTable()
	p.flushParagraph()
	p.flushList()
	p.closeQuote()
	return strings.Join(p.out, "\n")
}

func (p *parser) feed(line string) {
	trimmed := strings.TrimSpace(line)

	if cells, ok := tableRow(trimmed); ok {
		if !p.inTable {
			p.flushParagraph()
			p.flushList()
			p.closeQuote()
			p.inTable = true
		}
		if cells != nil {
			p.tableRows = append(p.tableRows, cells)
		}
		return
	}
	p.flushTable()

	if trimmed == "" {
		p.flushParagraph()
		p.flushList()
		p.closeQuote()
		return
	}

	if hruleRe.MatchString(line) {
		p.flushParagraph()
		p.flushList()
		p.closeQuote()
		p.out = append(p.out, "<hr>")
		return
	}

	if m := headingRe.FindStringSubmatch(line); m != nil {
		p.flushParagraph()
		p.flushList()
		p.closeQuote()
		level := len(m[1])
		p.out = append(p.out, fmt.Sprintf("<h%d>%s</h%d>",
			level, html.EscapeString(strings.TrimSpace(m[2])), level))
		return
	}

	if m := quoteRe.FindStringSubmatch(line); m != nil {
		p.flushParagraph()
		p.flushList()
		if !p.quoteOpen {
			p.out = append(p.out, "<blockquote>")
			p.quoteOpen = true
		}
		inner := strings.TrimSpace(m[1])
		if p.linkQuotes {
			inner = renderInline(inner)
		} else {
			inner = html.EscapeString(inner)
		}
		p.out = append(p.out, "  <p>"+inner+"</p>")
		return
	}

	if m := listItemRe.FindStringSubmatch(line); m != nil {
		p.flushParagraph()
		tag := "ul"
		if m[1][0] >= '0' && m[1][0] <= '9' {
			tag = "ol"
		}
		// A marker-type change closes the current list and opens a new
		// one; ordered and unordered items never merge.
		if p.listTag != tag {
			p.flushList()
			p.out = append(p.out, "<"+tag+">")
			p.listTag = tag
		}
		item := strings.TrimSpace(line[listItemRe.FindStringIndex(line)[1]:])
		p.out = append(p.out, "  <li>"+renderInline(item)+"</li>")
		return
	}

	p.para = append(p.para, trimmed)
}

// tableRow reports whether trimmed is a pipe-wrapped table row. It returns
// the row's cells, or nil cells for the divider row.
func tableRow(trimmed string) ([]string, bool) {
	if len(trimmed) < 2 || trimmed[0] != '|' || trimmed[len(trimmed)-1] != '|' {
		return nil, false
	}
	if tableDividerRe.MatchString(trimmed) {
		return nil, true
	}
	parts := strings.Split(trimmed[1:len(trimmed)-1], "|")
	cells := make([]string, len(parts))
	for i, c := range parts {
		cells[i] = strings.TrimSpace(c)
	}
	return cells, true
}

func (p *parser) flushParagraph() {
	if len(p.para) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(p.para, " "))
	if text != "" {
		p.out = append(p.out, "<p>"+renderInline(text)+"</p>")
	}
	p.para = p.para[:0]
}

func (p *parser) flushList() {
	if p.listTag == "" {
		return
	}
	p.out = append(p.out, "</"+p.listTag+">")
	p.listTag = ""
}

func (p *parser) closeQuote() {
	if !p.quoteOpen {
		return
	}
	p.out = append(p.out, "</blockquote>")
	p.quoteOpen = false
}

// flushTable serializes the accumulated rows. The first row is always the
// header; everything after it is body.
func (p *parser) flushTable() {
	if !p.inTable {
		return
	}
	p.inTable = false
	rows := p.tableRows
	p.tableRows = nil
	if len(rows) == 0 {
		return
	}

	p.out = append(p.out, "<table>", "  <thead>", "    <tr>"+renderCells(rows[0], "th")+"</tr>", "  </thead>")
	if len(rows) > 1 {
		p.out = append(p.out, "  <tbody>")
		for _, row := range rows[1:] {
			p.out = append(p.out, "    <tr>"+renderCells(row, "td")+"</tr>")
		}
		p.out = append(p.out, "  </tbody>")
	}
	p.out = append(p.out, "</table>")
}

func renderCells(cells []string, tag string) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString("<" + tag + ">")
		b.WriteString(renderInline(c))
		b.WriteString("</" + tag + ">")
	}
	return b.String()
}
