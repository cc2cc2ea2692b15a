package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/zapper/internal/domain"
)

// Match is one channel that survived a filter query
type Match struct {
	Index          int   // Index in the unfiltered channel slice
	MatchedIndexes []int // Rune positions in the name that matched (for highlighting)
}

// channelIndex implements fuzzy.Source over pre-lowered channel names
type channelIndex []string

func (c channelIndex) String(i int) string { return c[i] }
func (c channelIndex) Len() int            { return len(c) }

// FilterChannels fuzzy-matches query against channel names.
// An empty query keeps every channel in its original order; otherwise
// matches are ranked best first.
func FilterChannels(query string, channels []domain.Channel) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		all := make([]Match, len(channels))
		for i := range channels {
			all[i] = Match{Index: i}
		}
		return all
	}

	names := make(channelIndex, len(channels))
	for i, ch := range channels {
		names[i] = strings.ToLower(ch.Name)
	}

	found := fuzzy.FindFrom(strings.ToLower(query), names)
	matches := make([]Match, len(found))
	for i, m := range found {
		matches[i] = Match{Index: m.Index, MatchedIndexes: m.MatchedIndexes}
	}
	return matches
}

// Select returns the channels referenced by matches, in match order
func Select(channels []domain.Channel, matches []Match) []domain.Channel {
	out := make([]domain.Channel, 0, len(matches))
	for _, m := range matches {
		out = append(out, channels[m.Index])
	}
	return out
}
