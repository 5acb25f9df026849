package grouping

import (
	"sort"

	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/core/textnorm"
)

// Pair indexes two records of a bucket, I < J.
type Pair struct {
	I, J int
}

func newPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{I: a, J: b}
}

// AllPairs lists every unordered pair of n items in (i, j) order.
func AllPairs(n int) []Pair {
	if n < 2 {
		return nil
	}
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j})
		}
	}
	return pairs
}

// Pairs returns every pair for buckets up to maxBucket records and candidate
// pairs above that. blocked reports which of the two happened. A maxBucket of
// zero or less never blocks.
func Pairs(records []model.Record, maxBucket, window int) (pairs []Pair, blocked bool) {
	if maxBucket <= 0 || len(records) <= maxBucket {
		return AllPairs(len(records)), false
	}
	return CandidatePairs(records, window), true
}

// CandidatePairs keeps the pairs worth comparing in a large bucket: records
// at most window positions apart when sorted by normalized name, plus
// any records sharing a phone number or a website.
func CandidatePairs(records []model.Record, window int) []Pair {
	seen := make(map[Pair]bool)
	add := func(a, b int) {
		if a != b {
			seen[newPair(a, b)] = true
		}
	}

	names := make([]string, len(records))
	order := make([]int, len(records))
	for i, r := range records {
		names[i] = textnorm.NormalizeString(r.Name)
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return names[order[x]] < names[order[y]]
	})
	for p := range order {
		for q := p + 1; q < len(order) && q <= p+window; q++ {
			add(order[p], order[q])
		}
	}

	for _, members := range sharedKeys(records, func(r model.Record) string {
		return textnorm.NormalizePhone(r.Phone)
	}) {
		for x := range members {
			for y := x + 1; y < len(members); y++ {
				add(members[x], members[y])
			}
		}
	}
	for _, members := range sharedKeys(records, func(r model.Record) string {
		return textnorm.NormalizeURL(r.Website)
	}) {
		for x := range members {
			for y := x + 1; y < len(members); y++ {
				add(members[x], members[y])
			}
		}
	}

	pairs := make([]Pair, 0, len(seen))
	for p := range seen {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(x, y int) bool {
		if pairs[x].I != pairs[y].I {
			return pairs[x].I < pairs[y].I
		}
		return pairs[x].J < pairs[y].J
	})
	return pairs
}

// sharedKeys groups record indexes by a non-empty key, keeping only keys that
// occur more than once.
func sharedKeys(records []model.Record, key func(model.Record) string) [][]int {
	index := make(map[string]int)
	var groups [][]int
	for i, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		g, ok := index[k]
		if !ok {
			g = len(groups)
			index[k] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	out := groups[:0]
	for _, g := range groups {
		if len(g) > 1 {
			out = append(out, g)
		}
	}
	return out
}
