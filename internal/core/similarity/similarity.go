// Package similarity scores how close two strings are.
package similarity

import (
	"strings"

	"github.com/agenthands/concord/internal/core/textnorm"
)

// Distance is the Levenshtein edit distance with unit costs, computed over
// runes with two rolling rows of the (len(b)+1) x (len(a)+1) table.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(ra)+1)
	row := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		row[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[i] = min(row[i-1]+1, prev[i]+1, prev[i-1]+cost)
		}
		prev, row = row, prev
	}
	return prev[len(ra)]
}

// Score maps the edit distance into [0,1]. Two empty strings are fully
// similar; exactly one empty string is fully dissimilar.
func Score(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	switch {
	case la == 0 && lb == 0:
		return 1.0
	case la == 0 || lb == 0:
		return 0.0
	}
	longest := max(la, lb)
	return float64(longest-Distance(a, b)) / float64(longest)
}

// WordOverlap is the Jaccard index of the normalized word sets of a and b.
// It is 0 when either side has no words.
func WordOverlap(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(textnorm.NormalizeString(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
