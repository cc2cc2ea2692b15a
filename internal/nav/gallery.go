package nav

import (
	"log/slog"

	"github.com/mmcdole/zapper/internal/domain"
)

// indexStore persists the last gallery selection (consumer-defined interface)
type indexStore interface {
	SaveIndex(i int) error
	LoadIndex() (int, bool)
}

// Gallery drives selection over the source grid
type Gallery struct {
	state   NavigationState
	grid    Grid
	sources []domain.Source
	store   indexStore
	logger  *slog.Logger
}

// NewGallery creates a gallery over sources laid out in the given column count
func NewGallery(sources []domain.Source, columns int, store indexStore, logger *slog.Logger) *Gallery {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gallery{
		state:   NewNavigationState(),
		grid:    NewGrid(columns),
		sources: sources,
		store:   store,
		logger:  logger,
	}
	g.state.Reset(len(sources))
	return g
}

// Restore selects the persisted index. Absent or out of range values fall back to 0.
func (g *Gallery) Restore() int {
	if g.state.Length == 0 || g.store == nil {
		return g.state.Selected
	}
	idx, ok := g.store.LoadIndex()
	if !ok || !g.state.Valid(idx) {
		if ok {
			g.logger.Debug("discarding out of range gallery index", "index", idx, "length", g.state.Length)
		}
		idx = 0
	}
	g.state.SetSelected(idx)
	return idx
}

// Move applies a grid step; blocked moves are no-ops
func (g *Gallery) Move(dir Direction) bool {
	next, ok := g.grid.Move(g.state.Selected, g.state.Length, dir)
	if !ok {
		return false
	}
	return g.Select(next)
}

// Select is the single entry point for keyboard, mouse and programmatic selection
func (g *Gallery) Select(i int) bool {
	if !g.state.SetSelected(i) {
		return false
	}
	if g.store != nil {
		if err := g.store.SaveIndex(i); err != nil {
			g.logger.Warn("failed to persist gallery index", "index", i, "error", err)
		}
	}
	return true
}

// Selected returns the source under the cursor
func (g *Gallery) Selected() (domain.Source, bool) {
	if !g.state.Valid(g.state.Selected) {
		return domain.Source{}, false
	}
	return g.sources[g.state.Selected], true
}

// State returns a copy of the selection state
func (g *Gallery) State() NavigationState {
	return g.state
}

// Grid returns the grid geometry
func (g *Gallery) Grid() Grid {
	return g.grid
}

// Sources returns the collection
func (g *Gallery) Sources() []domain.Source {
	return g.sources
}
