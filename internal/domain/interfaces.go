package domain

import "context"

// PlaylistFetcher downloads raw playlist text.
type PlaylistFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// PreferenceStore persists the last gallery selection and the favorites set.
// Implementations never surface decoding errors: corrupt values read as absent.
type PreferenceStore interface {
	SaveIndex(i int) error
	LoadIndex() (int, bool)

	SaveFavorites(favs []Favorite) error
	LoadFavorites() []Favorite

	Clear() error
	Close() error
}
