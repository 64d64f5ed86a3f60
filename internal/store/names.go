package store

import (
	"strings"

	"github.com/tttiuem2k3/Agent-Interview/internal/textnorm"
)

// dedupeNames trims the names and drops duplicates, comparing the
// canonicalized form so "AI Engineer" and "ai  engineer" collapse into
// one entry. First occurrence wins and order is preserved.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := textnorm.Canonicalize(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}
