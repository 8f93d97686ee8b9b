package content

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonSlugRuns matches runs of characters that cannot appear in a slug.
var nonSlugRuns = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL-safe identifier for a content item from its title.
// The derivation is deterministic: lowercase, diacritics stripped via NFD
// decomposition, every run of non-alphanumeric characters collapsed to a
// single hyphen, and no leading or trailing hyphen.
func Slugify(title string) string {
	// Decompose accented characters and drop the combining marks.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ := transform.String(t, title)

	s = strings.ToLower(s)
	s = nonSlugRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
