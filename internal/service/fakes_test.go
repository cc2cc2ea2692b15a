package service

import (
	"context"
	"errors"
	"sync"

	"github.com/mmcdole/zapper/internal/domain"
)

// memStore is an in-memory preference store
type memStore struct {
	mu      sync.Mutex
	favs    []domain.Favorite
	saveErr error
	cleared bool
}

func (m *memStore) SaveFavorites(favs []domain.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.favs = append([]domain.Favorite(nil), favs...)
	return nil
}

func (m *memStore) LoadFavorites() []domain.Favorite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Favorite{}, m.favs...)
}

func (m *memStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favs = nil
	m.cleared = true
	return nil
}

// fakeFetcher serves canned playlists by URL
type fakeFetcher struct {
	bodies map[string]string
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	body, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return []byte(body), nil
}

// fakeSession records what happened to it
type fakeSession struct {
	name       string
	events     *[]string
	fullscreen error
	done       chan struct{}
}

func (s *fakeSession) Fullscreen() error {
	*s.events = append(*s.events, "fullscreen "+s.name)
	return s.fullscreen
}

func (s *fakeSession) Close() error {
	*s.events = append(*s.events, "close "+s.name)
	return nil
}

func (s *fakeSession) Done() <-chan struct{} { return s.done }

// fakePlayer starts fakeSessions and logs every call in order
type fakePlayer struct {
	supported bool
	startErr  error
	events    []string
}

func (p *fakePlayer) Supported() bool { return p.supported }

func (p *fakePlayer) Start(_ context.Context, url, title string) (domain.PlaybackSession, error) {
	if p.startErr != nil {
		return nil, p.startErr
	}
	p.events = append(p.events, "start "+title)
	return &fakeSession{name: title, events: &p.events, done: make(chan struct{})}, nil
}
