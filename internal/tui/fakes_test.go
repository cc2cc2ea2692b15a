package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/zapper/internal/domain"
)

// memPrefs is an in-memory preference store
type memPrefs struct {
	mu     sync.Mutex
	index  int
	hasIdx bool
	favs   []domain.Favorite
}

func (p *memPrefs) SaveIndex(i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index, p.hasIdx = i, true
	return nil
}

func (p *memPrefs) LoadIndex() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index, p.hasIdx
}

func (p *memPrefs) SaveFavorites(favs []domain.Favorite) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.favs = append([]domain.Favorite(nil), favs...)
	return nil
}

func (p *memPrefs) LoadFavorites() []domain.Favorite {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Favorite{}, p.favs...)
}

// stubFetcher serves canned playlists by URL
type stubFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return []byte(body), nil
}

// recorder collects player events across goroutines
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type stubSession struct {
	name string
	rec  *recorder
	done chan struct{}
	once sync.Once
}

func (s *stubSession) Fullscreen() error {
	s.rec.add("fullscreen " + s.name)
	return nil
}

func (s *stubSession) Close() error {
	s.rec.add("close " + s.name)
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *stubSession) Done() <-chan struct{} { return s.done }

type stubPlayer struct {
	supported bool
	rec       recorder
	sessions  []*stubSession
	mu        sync.Mutex
}

func (p *stubPlayer) Supported() bool { return p.supported }

func (p *stubPlayer) Start(_ context.Context, _, title string) (domain.PlaybackSession, error) {
	p.rec.add("start " + title)
	s := &stubSession{name: title, rec: &p.rec, done: make(chan struct{})}
	p.mu.Lock()
	p.sessions = append(p.sessions, s)
	p.mu.Unlock()
	return s, nil
}

// run executes cmd and returns the messages it produced. Batches are
// expanded; commands that block (player exit waits) are abandoned.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, run(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// find returns the first message of type T
func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}
