package service

import "log/slog"

// preferenceClearer is the part of the preference store a reset needs
type preferenceClearer interface {
	Clear() error
}

// SessionService manages user session operations
type SessionService struct {
	store  preferenceClearer
	logger *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(store preferenceClearer, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{store: store, logger: logger}
}

// Reset forgets the remembered gallery position and every favorite
func (s *SessionService) Reset() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.logger.Info("preferences cleared")
	return nil
}
