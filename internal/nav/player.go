package nav

import "github.com/mmcdole/zapper/internal/domain"

// Action is what activating a channel asks the playback layer to do
type Action int

const (
	ActionNone Action = iota
	ActionPlay
	ActionFullscreen
)

// Activation describes the outcome of Player.Activate
type Activation struct {
	Action   Action
	Channel  domain.Channel
	Index    int
	Previous int // Previously playing index, None if nothing was playing
}

// Player drives selection and the playing marker over a channel list
type Player struct {
	state    NavigationState
	channels []domain.Channel

	// playing is tracked by identity so it survives collection rebuilds
	playing    domain.ChannelKey
	hasPlaying bool
}

// NewPlayer creates an empty player controller
func NewPlayer() *Player {
	return &Player{state: NewNavigationState()}
}

// Replace swaps the whole collection. Selection resets to the first channel;
// the playing marker is re-derived from the channel that is still streaming.
func (p *Player) Replace(channels []domain.Channel) {
	p.channels = channels
	p.state.Reset(len(channels))
	if !p.hasPlaying {
		return
	}
	for i, ch := range channels {
		if ch.Key() == p.playing {
			p.state.SetPlaying(i)
			return
		}
	}
}

// Move applies a list step; blocked moves are no-ops
func (p *Player) Move(dir Direction) bool {
	next, ok := Linear(p.state.Selected, p.state.Length, dir)
	if !ok {
		return false
	}
	return p.state.SetSelected(next)
}

// Jump moves by delta, clamped to the list bounds
func (p *Player) Jump(delta int) bool {
	next, ok := Jump(p.state.Selected, p.state.Length, delta)
	if !ok {
		return false
	}
	return p.state.SetSelected(next)
}

// Select moves the selection to i
func (p *Player) Select(i int) bool {
	return p.state.SetSelected(i)
}

// Activate selects i and decides between starting playback and going
// fullscreen on the stream that is already playing.
func (p *Player) Activate(i int) (Activation, bool) {
	if !p.state.SetSelected(i) {
		return Activation{Action: ActionNone, Index: i, Previous: p.state.Playing}, false
	}

	ch := p.channels[i]
	if p.state.IsPlaying(i) {
		return Activation{Action: ActionFullscreen, Channel: ch, Index: i, Previous: i}, true
	}

	prev := p.state.Playing
	p.state.SetPlaying(i)
	p.playing = ch.Key()
	p.hasPlaying = true
	return Activation{Action: ActionPlay, Channel: ch, Index: i, Previous: prev}, true
}

// Stopped clears the playing marker if key is still the playing channel
func (p *Player) Stopped(key domain.ChannelKey) bool {
	if !p.hasPlaying || p.playing != key {
		return false
	}
	p.hasPlaying = false
	p.playing = domain.ChannelKey{}
	p.state.SetPlaying(None)
	return true
}

// PlayingKey returns the identity of the streaming channel
func (p *Player) PlayingKey() (domain.ChannelKey, bool) {
	return p.playing, p.hasPlaying
}

// Selected returns the channel under the cursor
func (p *Player) Selected() (domain.Channel, bool) {
	if !p.state.Valid(p.state.Selected) {
		return domain.Channel{}, false
	}
	return p.channels[p.state.Selected], true
}

// Channels returns the current collection
func (p *Player) Channels() []domain.Channel {
	return p.channels
}

// State returns a copy of the selection state
func (p *Player) State() NavigationState {
	return p.state
}
