package nav

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/zapper/internal/domain"
)

type memIndexStore struct {
	idx     int
	has     bool
	saves   int
	failErr error
}

func (m *memIndexStore) SaveIndex(i int) error {
	m.saves++
	if m.failErr != nil {
		return m.failErr
	}
	m.idx, m.has = i, true
	return nil
}

func (m *memIndexStore) LoadIndex() (int, bool) {
	return m.idx, m.has
}

func sources(n int) []domain.Source {
	out := make([]domain.Source, n)
	for i := range out {
		out[i] = domain.Source{Key: string(rune('a' + i)), Name: string(rune('A' + i))}
	}
	return out
}

func TestGallery_RestoreClamps(t *testing.T) {
	tests := []struct {
		name   string
		stored int
		has    bool
		want   int
	}{
		{"absent", 0, false, 0},
		{"in range", 7, true, 7},
		{"past end", 12, true, 0},
		{"negative", -3, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &memIndexStore{idx: tc.stored, has: tc.has}
			g := NewGallery(sources(12), 5, store, nil)
			assert.Equal(t, tc.want, g.Restore())
			assert.Equal(t, tc.want, g.State().Selected)
		})
	}
}

func TestGallery_MovePersists(t *testing.T) {
	store := &memIndexStore{}
	g := NewGallery(sources(12), 5, store, nil)
	g.Restore()

	assert.True(t, g.Move(Down))
	assert.Equal(t, 5, store.idx)

	assert.True(t, g.Move(Down))
	assert.True(t, g.Move(Right))
	assert.Equal(t, 11, g.State().Selected)

	saves := store.saves
	assert.False(t, g.Move(Right))
	assert.Equal(t, saves, store.saves, "blocked move must not persist")

	src, ok := g.Selected()
	assert.True(t, ok)
	assert.Equal(t, "l", src.Key)
}

func TestGallery_SelectFromPointer(t *testing.T) {
	store := &memIndexStore{}
	g := NewGallery(sources(6), 5, store, nil)

	assert.True(t, g.Select(4))
	assert.Equal(t, 4, store.idx)
	assert.False(t, g.Select(6))
	assert.Equal(t, 4, g.State().Selected)
}

func TestGallery_SaveErrorKeepsSelection(t *testing.T) {
	store := &memIndexStore{failErr: errors.New("disk full")}
	g := NewGallery(sources(6), 5, store, nil)

	assert.True(t, g.Select(3))
	assert.Equal(t, 3, g.State().Selected)
}

func TestGallery_Empty(t *testing.T) {
	g := NewGallery(nil, 5, &memIndexStore{idx: 2, has: true}, nil)
	assert.Equal(t, None, g.Restore())
	assert.False(t, g.Move(Right))
	_, ok := g.Selected()
	assert.False(t, ok)
}
