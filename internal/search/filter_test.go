package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/zapper/internal/domain"
)

func channels(names ...string) []domain.Channel {
	out := make([]domain.Channel, len(names))
	for i, n := range names {
		out[i] = domain.Channel{Name: n, URL: "http://x/" + n}
	}
	return out
}

func TestFilterChannels_EmptyQueryKeepsOrder(t *testing.T) {
	chs := channels("Canal 5", "Azteca 7", "Imagen")
	matches := FilterChannels("  ", chs)
	require.Len(t, matches, 3)
	for i, m := range matches {
		assert.Equal(t, i, m.Index)
		assert.Empty(t, m.MatchedIndexes)
	}
}

func TestFilterChannels_CaseInsensitive(t *testing.T) {
	chs := channels("Canal 5", "Azteca 7", "Azteca Uno", "Imagen")
	matches := FilterChannels("AZTECA", chs)

	got := Select(chs, matches)
	require.Len(t, got, 2)
	for _, ch := range got {
		assert.Contains(t, ch.Name, "Azteca")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, matches[0].MatchedIndexes)
}

func TestFilterChannels_NoMatch(t *testing.T) {
	assert.Empty(t, FilterChannels("zzz", channels("Canal 5")))
}

func TestSuggest(t *testing.T) {
	known := []string{"mexico", "chile", "argentina", "deportes"}

	tests := []struct {
		name string
		key  string
		want string
		ok   bool
	}{
		{"subsequence", "mexco", "mexico", true},
		{"typo", "chiel", "chile", true},
		{"case", "ARGENT", "argentina", true},
		{"nothing close", "qqqqqqq", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.key, known)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
