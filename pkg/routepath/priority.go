package routepath

import (
	"sort"
	"strings"
)

// Segment priority tiers. Static literals outrank named parameters,
// which outrank wildcard parameters.
const (
	tierWildcard = 0
	tierNamed    = 1
	tierStatic   = 2
)

// segmentTier classifies a single pattern segment.
func segmentTier(seg string) int {
	if !strings.HasPrefix(seg, ":") {
		return tierStatic
	}
	if strings.HasSuffix(seg, "*") {
		return tierWildcard
	}
	return tierNamed
}

// Compare orders two URL patterns by match priority. It returns -1 when
// a should be tried before b, 1 when b should be tried first, and 0
// when the patterns tie (callers must use a stable sort so ties keep
// their manifest order).
//
// Both patterns are split into segments ("/" has none) and walked left
// to right. A pattern that runs out of segments sorts first. Equal
// segments continue to the next index. Differing segments are decided
// by tier (static > named > wildcard); differing segments of the same
// tier keep walking.
func Compare(a, b string) int {
	segsA := splitPath(a)
	segsB := splitPath(b)

	n := len(segsA)
	if len(segsB) > n {
		n = len(segsB)
	}

	for i := 0; i < n; i++ {
		if i >= len(segsA) {
			return -1
		}
		if i >= len(segsB) {
			return 1
		}
		if segsA[i] == segsB[i] {
			continue
		}
		tierA, tierB := segmentTier(segsA[i]), segmentTier(segsB[i])
		if tierA > tierB {
			return -1
		}
		if tierA < tierB {
			return 1
		}
	}

	return 0
}

// SortByPriority stable-sorts entries by the priority of the pattern
// returned by pathname. Relative order of tied entries is preserved.
func SortByPriority[T any](entries []T, pathname func(T) string) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Compare(pathname(entries[i]), pathname(entries[j])) < 0
	})
}
