package service

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/zapper/internal/domain"
)

// favoritesStore is the part of the preference store favorites need
type favoritesStore interface {
	SaveFavorites(favs []domain.Favorite) error
	LoadFavorites() []domain.Favorite
}

// FavoritesService maintains the favorites set. Every change rewrites the
// whole persisted set.
type FavoritesService struct {
	store  favoritesStore
	logger *slog.Logger

	mu sync.Mutex
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(store favoritesStore, logger *slog.Logger) *FavoritesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FavoritesService{
		store:  store,
		logger: logger,
	}
}

// Toggle removes the channel from favorites if present, otherwise appends it.
// Reports whether the channel is a favorite afterwards.
func (s *FavoritesService) Toggle(ch domain.Channel) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs := s.store.LoadFavorites()
	key := ch.Key()

	kept := make([]domain.Favorite, 0, len(favs)+1)
	removed := false
	for _, f := range favs {
		if f.Key() == key {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	if !removed {
		kept = append(kept, domain.Favorite{Name: ch.Name, URL: ch.URL, Country: ch.Country})
	}

	if err := s.store.SaveFavorites(kept); err != nil {
		s.logger.Error("failed to save favorites", "error", err)
		return removed, err
	}

	s.logger.Info("favorite toggled", "name", ch.Name, "added", !removed, "count", len(kept))
	return !removed, nil
}

// List returns the favorites in insertion order
func (s *FavoritesService) List() []domain.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadFavorites()
}

// Channels returns the favorites as playable channels
func (s *FavoritesService) Channels() []domain.Channel {
	favs := s.List()
	out := make([]domain.Channel, len(favs))
	for i, f := range favs {
		out[i] = f.Channel()
	}
	return out
}

// Keys returns the identity set used to decorate labels
func (s *FavoritesService) Keys() map[domain.ChannelKey]bool {
	favs := s.List()
	keys := make(map[domain.ChannelKey]bool, len(favs))
	for _, f := range favs {
		keys[f.Key()] = true
	}
	return keys
}

// IsFavorite reports whether a channel is in the set
func (s *FavoritesService) IsFavorite(ch domain.Channel) bool {
	return s.Keys()[ch.Key()]
}
