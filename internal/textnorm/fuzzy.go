package textnorm

import (
	"math"
	"strings"
	"unicode/utf8"
)

// BestMatch finds the candidate closest to the input after canonicalization.
// Containment between the canonicalized strings wins immediately since a
// partial typing like "engine" inside "ai engineer" is a stronger signal
// than any edit distance. Otherwise the minimum Levenshtein distance wins,
// accepted only within a threshold proportional to the input length. The
// empty string is returned when nothing is close enough. Ties keep the
// first candidate in the given order, so callers control priority.
func BestMatch(input string, candidates []string) string {
	canonIn := Canonicalize(input)
	if canonIn == "" {
		return ""
	}

	best := ""
	bestDist := math.MaxInt
	for _, c := range candidates {
		canonC := Canonicalize(c)
		if canonC == "" {
			continue
		}

		if strings.Contains(canonC, canonIn) || strings.Contains(canonIn, canonC) {
			return strings.TrimSpace(c)
		}

		if d := Levenshtein(canonIn, canonC); d < bestDist {
			bestDist = d
			best = strings.TrimSpace(c)
		}
	}

	// Roughly 30% of the input length in runes, never more than 3 edits.
	// Byte length would inflate the budget for multibyte letters like đ.
	threshold := min(3, max(1, int(math.Round(float64(utf8.RuneCountInString(canonIn))*0.3))))
	if bestDist <= threshold {
		return best
	}
	return ""
}

// Levenshtein computes the edit distance between two strings, compared
// rune by rune.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
