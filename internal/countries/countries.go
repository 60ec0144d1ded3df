// Package countries resolves the logistics country picked for an organization.
package countries

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxDistance is how many edits Match tolerates after folding.
const maxDistance = 2

// Fold lowercases s and strips diacritics, so "México" and "mexico" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Match returns the entry of list that input refers to. An exact folded match
// wins; otherwise the closest entry within maxDistance edits, if it is unique.
func Match(input string, list []string) (string, bool) {
	q := Fold(input)
	if q == "" {
		return "", false
	}
	best, bestDist, tie := "", maxDistance+1, false
	for _, c := range list {
		f := Fold(c)
		if f == q {
			return c, true
		}
		d := levenshtein.ComputeDistance(q, f)
		switch {
		case d < bestDist:
			best, bestDist, tie = c, d, false
		case d == bestDist:
			tie = true
		}
	}
	if best == "" || tie {
		return "", false
	}
	return best, true
}

// Filter keeps the entries whose folded form contains the folded query.
func Filter(query string, list []string) []string {
	q := Fold(query)
	out := make([]string, 0, len(list))
	for _, c := range list {
		if q == "" || strings.Contains(Fold(c), q) {
			out = append(out, c)
		}
	}
	return out
}
