package note

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns   = regexp.MustCompile(`-+`)

	// NFKD-decompose, then drop anything that didn't fold down to ASCII.
	asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
)

// normalize lowers a seed string into the slug alphabet. It returns ""
// when nothing of the seed survives (all-symbol or all-non-ASCII input).
func normalize(seed string) string {
	folded, _, err := transform.String(asciiFold, seed)
	if err != nil {
		folded = seed
	}
	folded = strings.ToLower(folded)
	folded = nonSlugChars.ReplaceAllString(folded, "-")
	folded = hyphenRuns.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-")
}

// Slugify derives a URL-safe identifier from primary, falling back to
// fallback, then to a hex fingerprint of fallback's bytes, then to a
// sequence-numbered identifier. It never returns an empty string.
//
// The fallback order is load-bearing: slugs become permanent URLs, so a
// reordering here changes published links.
func Slugify(primary, fallback string, seq int) string {
	if s := normalize(primary); s != "" {
		return s
	}
	if s := normalize(fallback); s != "" {
		return s
	}
	if h := hex.EncodeToString([]byte(fallback)); h != "" {
		if len(h) > 8 {
			h = h[:8]
		}
		return "note-" + h
	}
	return fmt.Sprintf("note-%03d", seq)
}
