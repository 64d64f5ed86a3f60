// Package textnorm provides the text canonicalization and fuzzy matching
// primitives used whenever free-form candidate input is compared against
// known values (position names, levels, answer keywords).
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// RemoveDiacritics strips combining marks from the input, turning
// "Kỹ sư" into "Ky su". Vietnamese input is the common case.
func RemoveDiacritics(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// Canonicalize lowercases the input, strips diacritics and collapses
// whitespace runs to a single space. It is idempotent and returns the
// empty string for blank input.
func Canonicalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	out := RemoveDiacritics(s)
	out = whitespaceRun.ReplaceAllString(strings.TrimSpace(out), " ")
	return strings.ToLower(out)
}
