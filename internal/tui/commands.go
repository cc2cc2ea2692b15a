package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/zapper/internal/domain"
	"github.com/mmcdole/zapper/internal/service"
)

// Command factories for async operations

// LoadPlaylistCmd fetches and parses a source's playlist
func LoadPlaylistCmd(svc *service.PlaylistService, src domain.Source, seq int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		channels, err := svc.LoadSource(ctx, src)
		return PlaylistLoadedMsg{Seq: seq, Source: src, Channels: channels, Err: err}
	}
}

// PlayCmd replaces the running player with one for ch. Seq is echoed back
// so the model can drop results of superseded requests.
func PlayCmd(svc *service.PlaybackService, ch domain.Channel, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		session, err := svc.Play(ctx, ch)
		if err != nil {
			return PlaybackFailedMsg{Seq: seq, Channel: ch, Err: err}
		}
		return PlaybackStartedMsg{Seq: seq, Channel: ch, Session: session}
	}
}

// DiscardSessionCmd stops a session whose request was superseded
func DiscardSessionCmd(svc *service.PlaybackService, session domain.PlaybackSession) tea.Cmd {
	if session == nil {
		return nil
	}
	return func() tea.Msg {
		svc.Ended(session)
		_ = session.Close()
		return nil
	}
}

// FullscreenCmd asks the running player to go fullscreen
func FullscreenCmd(svc *service.PlaybackService) tea.Cmd {
	return func() tea.Msg {
		return FullscreenMsg{Err: svc.Fullscreen()}
	}
}

// WaitPlaybackCmd reports when session's player exits. Sessions that cannot
// report an exit produce no command.
func WaitPlaybackCmd(session domain.PlaybackSession, key domain.ChannelKey) tea.Cmd {
	done := session.Done()
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		<-done
		return PlaybackEndedMsg{Key: key, Session: session}
	}
}

// ScrollSettleCmd fires when a scroll cooldown lapses
func ScrollSettleCmd(screen Screen, gen int, cooldown time.Duration) tea.Cmd {
	return tea.Tick(cooldown, func(time.Time) tea.Msg {
		return ScrollSettleMsg{Screen: screen, Gen: gen}
	})
}

// StatusClearCmd clears the welcome status after delay
func StatusClearCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return StatusClearMsg{Seq: seq}
	})
}
