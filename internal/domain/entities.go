package domain

import "strings"

// FavoriteMarker prefixes the display label of a favorited channel
const FavoriteMarker = "★ "

// SourceKind distinguishes country playlists from thematic ones
type SourceKind string

const (
	SourceKindCountry  SourceKind = "country"
	SourceKindCategory SourceKind = "category"
)

// Source is a named remote playlist (a country or a category)
type Source struct {
	Key  string     `mapstructure:"key" json:"key"`   // Lookup key, e.g. "mexico"
	Name string     `mapstructure:"name" json:"name"` // Display name, e.g. "México"
	URL  string     `mapstructure:"url" json:"url"`   // M3U location
	Kind SourceKind `mapstructure:"kind" json:"kind"`
}

// Channel is one playable entry of a playlist
type Channel struct {
	Name    string // Text after the last comma of the #EXTINF line
	URL     string // Stream URL
	Country string // Source key the channel was loaded from
}

// Key identifies a channel by value; two channels with the same name and URL are the same channel.
func (c Channel) Key() ChannelKey {
	return ChannelKey{Name: c.Name, URL: c.URL}
}

// ChannelKey is the (name, url) identity shared by channels and favorites
type ChannelKey struct {
	Name string
	URL  string
}

// Favorite is a persisted channel bookmark
type Favorite struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Country string `json:"country"`
}

// Key returns the favorite's (name, url) identity
func (f Favorite) Key() ChannelKey {
	return ChannelKey{Name: f.Name, URL: f.URL}
}

// Channel converts the favorite back into a playable channel
func (f Favorite) Channel() Channel {
	return Channel{Name: f.Name, URL: f.URL, Country: f.Country}
}

// DisplayLabel derives a list label; the favorite marker is never stored in the name.
func DisplayLabel(name string, favorite bool) string {
	if favorite {
		return FavoriteMarker + name
	}
	return name
}

// NormalizeSourceKey lowercases and trims a user supplied source key
func NormalizeSourceKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
