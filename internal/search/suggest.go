package search

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest picks the known key closest to an unknown one, for "did you mean"
// hints. Subsequence matches ("mexco" in "mexico") win; otherwise the key
// within a small edit distance is used.
func Suggest(key string, known []string) (string, bool) {
	if key == "" || len(known) == 0 {
		return "", false
	}

	if ranks := fuzzy.RankFindNormalizedFold(key, known); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target, true
	}

	best, bestDist := "", len(key)/2+1
	for _, k := range known {
		if d := fuzzy.LevenshteinDistance(key, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best, best != ""
}
