package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/zapper/internal/domain"
)

func newTestStore(t *testing.T) *PrefStore {
	t.Helper()
	s, err := NewPrefStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// setRaw writes an arbitrary value, bypassing encoding
func (s *PrefStore) setRaw(key string, data []byte) error {
	return s.set(key, data)
}

func TestIndexRoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.LoadIndex()
	assert.False(t, ok, "fresh store has no index")

	for _, i := range []int{0, 1, 7, 38} {
		require.NoError(t, s.SaveIndex(i))
		got, ok := s.LoadIndex()
		require.True(t, ok)
		assert.Equal(t, i, got)
	}

	require.NoError(t, s.Clear())
	_, ok = s.LoadIndex()
	assert.False(t, ok, "cleared store has no index")
}

func TestIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewPrefStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveIndex(12))
	require.NoError(t, s.Close())

	s, err = NewPrefStore(dir)
	require.NoError(t, err)
	defer s.Close()

	got, ok := s.LoadIndex()
	require.True(t, ok)
	assert.Equal(t, 12, got)
}

func TestIndexCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.setRaw(keyLastIndex, []byte("NaN")))

	_, ok := s.LoadIndex()
	assert.False(t, ok)
}

func TestFavoritesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.LoadFavorites())

	favs := []domain.Favorite{
		{Name: "Canal 5", URL: "http://x/5", Country: "mexico"},
		{Name: "TVE", URL: "http://x/tve", Country: "espana"},
	}
	require.NoError(t, s.SaveFavorites(favs))
	assert.Equal(t, favs, s.LoadFavorites())

	require.NoError(t, s.SaveFavorites(nil))
	got := s.LoadFavorites()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFavoritesCorrupt(t *testing.T) {
	s := newTestStore(t)

	for _, raw := range []string{"{not json", "null", `{"name":"x"}`} {
		require.NoError(t, s.setRaw(keyFavorites, []byte(raw)))
		got := s.LoadFavorites()
		assert.NotNil(t, got, "raw=%q", raw)
		assert.Empty(t, got, "raw=%q", raw)
	}
}

func TestMemoryOnly(t *testing.T) {
	s, err := NewPrefStore("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveIndex(3))
	got, ok := s.LoadIndex()
	require.True(t, ok)
	assert.Equal(t, 3, got)

	require.NoError(t, s.Clear())
	_, ok = s.LoadIndex()
	assert.False(t, ok)
}

var _ domain.PreferenceStore = (*PrefStore)(nil)
