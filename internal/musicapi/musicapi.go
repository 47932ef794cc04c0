// Package musicapi talks to the external music catalog used by the discover
// endpoints. The client owns its own credential; nothing here is stored
// locally.
package musicapi

import (
	"context"
	"errors"
)

// ErrEmptyQuery rejects a search without a search term.
var ErrEmptyQuery = errors.New("search term must be at least 1 character long")

// Artist is a catalog artist.
type Artist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Genres      []string `json:"genres,omitempty"`
	Popularity  int      `json:"popularity,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ExternalURL string   `json:"externalUrl,omitempty"`
}

// Album is a catalog album.
type Album struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	ArtistID    string `json:"artistId,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	TrackCount  int    `json:"trackCount,omitempty"`
	CoverURL    string `json:"coverUrl,omitempty"`
	ExternalURL string `json:"externalUrl,omitempty"`
}

// Track is a catalog song.
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	ArtistID    string `json:"artistId,omitempty"`
	Album       string `json:"album,omitempty"`
	AlbumID     string `json:"albumId,omitempty"`
	DurationMS  int    `json:"durationMs"`
	TrackNumber int    `json:"trackNumber,omitempty"`
	PreviewURL  string `json:"previewUrl,omitempty"`
	ExternalURL string `json:"externalUrl,omitempty"`
}

// Client is the catalog interface consumed by the discover service.
type Client interface {
	Genres(ctx context.Context) ([]string, error)
	NewReleases(ctx context.Context) ([]Album, error)
	SearchArtists(ctx context.Context, term, genre string) ([]Artist, error)
	SearchAlbums(ctx context.Context, term string) ([]Album, error)
	SearchTracks(ctx context.Context, term string) ([]Track, error)
	Artist(ctx context.Context, id string) (*Artist, error)
	ArtistAlbums(ctx context.Context, id string) ([]Album, error)
	ArtistTopTracks(ctx context.Context, id string) ([]Track, error)
	Album(ctx context.Context, id string) (*Album, []Track, error)
	Tracks(ctx context.Context, ids []string) ([]Track, error)
}
