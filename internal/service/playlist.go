package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/zapper/internal/domain"
	"github.com/mmcdole/zapper/internal/m3u"
	"github.com/mmcdole/zapper/internal/search"
)

// SourceNotFoundError reports an unknown source key with the closest known one
type SourceNotFoundError struct {
	Key        string
	Suggestion string // empty when nothing is close
}

func (e *SourceNotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("source %q not found (did you mean %q?)", e.Key, e.Suggestion)
	}
	return fmt.Sprintf("source %q not found", e.Key)
}

func (e *SourceNotFoundError) Unwrap() error { return domain.ErrSourceNotFound }

// PlaylistService resolves sources and loads their channels
type PlaylistService struct {
	sources []domain.Source
	fetcher domain.PlaylistFetcher
	logger  *slog.Logger
}

// NewPlaylistService creates a new playlist service over a source registry
func NewPlaylistService(sources []domain.Source, fetcher domain.PlaylistFetcher, logger *slog.Logger) *PlaylistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaylistService{
		sources: sources,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Sources returns the registry in display order
func (s *PlaylistService) Sources() []domain.Source {
	return s.sources
}

// Resolve looks up a source by key (case-insensitive)
func (s *PlaylistService) Resolve(key string) (domain.Source, error) {
	key = domain.NormalizeSourceKey(key)
	keys := make([]string, len(s.sources))
	for i, src := range s.sources {
		if src.Key == key {
			return src, nil
		}
		keys[i] = src.Key
	}

	suggestion, _ := search.Suggest(key, keys)
	return domain.Source{}, &SourceNotFoundError{Key: key, Suggestion: suggestion}
}

// Load resolves key and fetches its channels
func (s *PlaylistService) Load(ctx context.Context, key string) (domain.Source, []domain.Channel, error) {
	src, err := s.Resolve(key)
	if err != nil {
		s.logger.Warn("unknown source", "key", key, "error", err)
		return domain.Source{}, nil, err
	}
	channels, err := s.LoadSource(ctx, src)
	return src, channels, err
}

// LoadSource fetches and parses one source's playlist
func (s *PlaylistService) LoadSource(ctx context.Context, src domain.Source) ([]domain.Channel, error) {
	data, err := s.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		s.logger.Error("failed to fetch playlist", "source", src.Key, "error", err)
		if !errors.Is(err, domain.ErrFetchFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
		}
		return nil, err
	}

	channels, err := m3u.Parse(data, src.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse playlist %s: %w", src.Key, err)
	}

	s.logger.Info("playlist loaded", "source", src.Key, "channels", len(channels))
	return channels, nil
}
