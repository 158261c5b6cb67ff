// Package textnorm canonicalises minutes text so that substring search is
// reliable across full-width/half-width and compatibility variants.
// Scraped documents mix character widths freely (ＡＢＣ vs ABC, １ vs 1),
// so every component that searches text works on the NFKC form.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the NFKC form of s with leading/trailing whitespace
// trimmed and internal whitespace runs collapsed to a single space.
// It is total and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.TrimSpace(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName canonicalises a personal name for matching. On top of
// Normalize it strips at most one trailing honorific from the given list
// and removes the internal spaces that minutes insert between family and
// given names (山田 太郎 → 山田太郎).
func NormalizeName(name string, honorifics []string) string {
	name = Normalize(name)
	for _, h := range honorifics {
		h = Normalize(h)
		if h == "" || name == h {
			continue
		}
		if strings.HasSuffix(name, h) {
			name = strings.TrimSpace(strings.TrimSuffix(name, h))
			break
		}
	}
	return strings.ReplaceAll(name, " ", "")
}
