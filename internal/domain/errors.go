package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrSourceNotFound indicates the requested country/category key is unknown
	ErrSourceNotFound = errors.New("source not found")

	// ErrFetchFailed indicates the playlist could not be downloaded
	ErrFetchFailed = errors.New("failed to load playlist")

	// ErrPlaybackUnsupported indicates no usable player exists on this system
	ErrPlaybackUnsupported = errors.New("no player available for HLS playback")

	// ErrFullscreenUnsupported indicates the running player cannot be driven into fullscreen
	ErrFullscreenUnsupported = errors.New("player does not support fullscreen requests")
)
