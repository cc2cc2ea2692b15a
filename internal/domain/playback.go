package domain

import "context"

// PlaybackSession is one running stream in an external player.
type PlaybackSession interface {
	// Fullscreen asks the player to switch the running stream to fullscreen
	Fullscreen() error
	// Close stops the stream and releases the player process
	Close() error
	// Done is closed when the player exits on its own or after Close
	Done() <-chan struct{}
}

// Player starts playback sessions.
type Player interface {
	Supported() bool
	Start(ctx context.Context, url, title string) (PlaybackSession, error)
}
