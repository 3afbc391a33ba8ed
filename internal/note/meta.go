package note

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	frontLineRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_-]*):\s*(.+)$`)
	dateRe      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	// Author input mixes ASCII commas with the fullwidth and ideographic
	// forms; all three split list values.
	listSepRe = regexp.MustCompile(`[,，、]`)
)

// Labels recognized in blockquote metadata lines, in both the English and
// the CJK spellings the content uses.
var (
	dateLabels    = []string{"date", "日期"}
	tagLabels     = []string{"tags", "标签"}
	summaryLabels = []string{"summary", "摘要"}
)

// Meta is the metadata extracted from one document. Scalar fields keep
// their lowercase keys, unknown keys included; list-valued fields live in
// Lists. Tags is always present in Lists, possibly empty.
type Meta struct {
	Fields map[string]string
	Lists  map[string][]string
}

func (m Meta) Title() string   { return m.Fields["title"] }
func (m Meta) Date() string    { return m.Fields["date"] }
func (m Meta) Summary() string { return m.Fields["summary"] }

// Category returns the document's category, or def when none was set.
func (m Meta) Category(def string) string {
	if c := m.Fields["category"]; c != "" {
		return c
	}
	return def
}

// Tags never returns nil.
func (m Meta) Tags() []string {
	if t := m.Lists["tags"]; t != nil {
		return t
	}
	return []string{}
}

// ExtractMeta splits raw document text into metadata and body. stem is the
// source filename stem, used as the last-resort title. Total: any input
// yields a usable Meta.
//
// Metadata comes from two independent passes: a leading ----delimited
// key: value block, and blockquote lines in the body carrying recognized
// labels. The delimited block always wins; blockquote lines only fill keys
// not already set, first matching line per key.
func ExtractMeta(text, stem string) (Meta, string) {
	meta := Meta{
		Fields: make(map[string]string),
		Lists:  map[string][]string{"tags": {}},
	}
	tagsSet := false

	lines := strings.Split(text, "\n")
	body := lines
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		end := 1
		for end < len(lines) && strings.TrimSpace(lines[end]) != "---" {
			end++
		}
		for _, l := range lines[1:end] {
			parseFrontLine(l, &meta, &tagsSet)
		}
		if end < len(lines) {
			end++ // skip the closing delimiter
		}
		body = lines[end:]
	}

	if meta.Fields["title"] == "" {
		meta.Fields["title"] = bodyTitle(body, stem)
	}

	for _, line := range body {
		t := strings.TrimSpace(line)
		if !strings.HasPrefix(t, ">") {
			continue
		}
		clean := strings.TrimLeft(t, "> ")
		if meta.Fields["date"] == "" && hasLabel(clean, dateLabels) {
			if d := dateRe.FindString(clean); d != "" {
				meta.Fields["date"] = d
			}
		}
		if !tagsSet && hasLabel(clean, tagLabels) {
			meta.Lists["tags"] = splitList(afterColon(clean))
			tagsSet = true
		}
		if meta.Fields["summary"] == "" && hasLabel(clean, summaryLabels) {
			meta.Fields["summary"] = strings.TrimSpace(afterColon(clean))
		}
	}

	return meta, strings.Join(body, "\n")
}

// parseFrontLine handles one key: value line of the delimited block.
// A bracketed value is tried as a JSON array first; malformed-but-common
// input like [a, b] falls back to the comma split. That fallback is part
// of the accepted syntax and must stay.
func parseFrontLine(line string, meta *Meta, tagsSet *bool) {
	m := frontLineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return
	}
	key := strings.ToLower(m[1])
	value := strings.TrimSpace(m[2])

	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		var items []string
		if err := json.Unmarshal([]byte(value), &items); err != nil {
			items = splitList(strings.Trim(value, "[]"))
		} else {
			items = trimNonEmpty(items)
		}
		meta.Lists[key] = items
		if key == "tags" {
			*tagsSet = true
		}
		return
	}

	meta.Fields[key] = value
	if key == "tags" {
		meta.Lists["tags"] = splitList(value)
		*tagsSet = true
	}
}

// bodyTitle returns the first level-1 heading, or stem when there is none.
func bodyTitle(body []string, stem string) string {
	for _, line := range body {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return stem
}

// StripMetaLines removes blockquote lines that carry recognized metadata
// labels; their content already surfaces in the page header, so they are
// dropped from the rendered body.
func StripMetaLines(body string) string {
	var kept []string
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, ">") {
			clean := strings.TrimLeft(t, "> ")
			if hasLabel(clean, dateLabels) || hasLabel(clean, tagLabels) || hasLabel(clean, summaryLabels) {
				continue
			}
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func hasLabel(s string, labels []string) bool {
	lower := strings.ToLower(s)
	for _, l := range labels {
		if strings.Contains(lower, l) {
			return true
		}
	}
	return false
}

// afterColon returns the text after the first ASCII or fullwidth colon,
// or the whole string when neither occurs.
func afterColon(s string) string {
	if i := strings.IndexAny(s, ":："); i >= 0 {
		_, size := decodeColon(s[i:])
		return s[i+size:]
	}
	return s
}

func decodeColon(s string) (rune, int) {
	if strings.HasPrefix(s, "：") {
		return '：', len("：")
	}
	return ':', 1
}

func splitList(s string) []string {
	return trimNonEmpty(listSepRe.Split(s, -1))
}

func trimNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
