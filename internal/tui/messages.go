package tui

import (
	"github.com/mmcdole/zapper/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PlaylistLoadedMsg carries the outcome of a playlist load. Seq is the
// request token; only the latest request may apply.
type PlaylistLoadedMsg struct {
	Seq      int
	Source   domain.Source
	Channels []domain.Channel
	Err      error
}

// PlaybackStartedMsg signals that a player is running for Channel. Seq is
// the request token.
type PlaybackStartedMsg struct {
	Seq     int
	Channel domain.Channel
	Session domain.PlaybackSession
}

// PlaybackFailedMsg signals that the player could not be started
type PlaybackFailedMsg struct {
	Seq     int
	Channel domain.Channel
	Err     error
}

// PlaybackEndedMsg signals that a player process exited
type PlaybackEndedMsg struct {
	Key     domain.ChannelKey
	Session domain.PlaybackSession
}

// FullscreenMsg reports the outcome of a fullscreen request
type FullscreenMsg struct {
	Err error
}

// ScrollSettleMsg ends a scroll cooldown
type ScrollSettleMsg struct {
	Screen Screen
	Gen    int
}

// StatusClearMsg clears a transient status line set for request Seq
type StatusClearMsg struct {
	Seq int
}
