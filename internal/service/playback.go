package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/zapper/internal/domain"
)

// PlaybackService owns the single active player session
type PlaybackService struct {
	player domain.Player
	logger *slog.Logger

	mu      sync.Mutex
	session domain.PlaybackSession
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(player domain.Player, logger *slog.Logger) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		player: player,
		logger: logger,
	}
}

// Supported reports whether any player can open streams here
func (s *PlaybackService) Supported() bool {
	return s.player.Supported()
}

// Play stops the current session and starts ch in a new one
func (s *PlaybackService) Play(ctx context.Context, ch domain.Channel) (domain.PlaybackSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		if err := s.session.Close(); err != nil {
			s.logger.Warn("failed to stop previous player", "error", err)
		}
		s.session = nil
	}

	if !s.player.Supported() {
		return nil, domain.ErrPlaybackUnsupported
	}

	s.logger.Info("launching playback", "channel", ch.Name, "source", ch.Country)

	session, err := s.player.Start(ctx, ch.URL, ch.Name)
	if err != nil {
		s.logger.Error("failed to start playback", "channel", ch.Name, "error", err)
		return nil, fmt.Errorf("failed to play %s: %w", ch.Name, err)
	}
	s.session = session
	return session, nil
}

// Fullscreen asks the active session to go fullscreen
func (s *PlaybackService) Fullscreen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.ErrFullscreenUnsupported
	}
	return s.session.Fullscreen()
}

// Ended forgets session if it is still the active one. Called when the
// player process exits on its own.
func (s *PlaybackService) Ended(session domain.PlaybackSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session != session {
		return false
	}
	s.session = nil
	return true
}

// Stop closes the active session, if any
func (s *PlaybackService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	return err
}
