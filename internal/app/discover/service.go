package discover

import (
	"context"

	"songscout/internal/musicapi"
)

// Service exposes the catalog browse and search workflows.
type Service interface {
	Genres(ctx context.Context) ([]string, error)
	NewReleases(ctx context.Context) ([]musicapi.Album, error)
	SearchArtists(ctx context.Context, term, genre string) ([]musicapi.Artist, error)
	SearchAlbums(ctx context.Context, term string) ([]musicapi.Album, error)
	SearchTracks(ctx context.Context, term string) ([]musicapi.Track, error)
	Artist(ctx context.Context, id string) (*musicapi.Artist, error)
	ArtistAlbums(ctx context.Context, id string) ([]musicapi.Album, error)
	ArtistTopTracks(ctx context.Context, id string) ([]musicapi.Track, error)
	Album(ctx context.Context, id string) (*musicapi.Album, []musicapi.Track, error)
	Tracks(ctx context.Context, ids []string) ([]musicapi.Track, error)
}

type service struct {
	catalog musicapi.Client
}

// New wires a Service backed by the provided catalog client.
func New(catalog musicapi.Client) Service {
	return &service{catalog: catalog}
}

func (s *service) Genres(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.Genres(ctx)
}

func (s *service) NewReleases(ctx context.Context) ([]musicapi.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.NewReleases(ctx)
}

func (s *service) SearchArtists(ctx context.Context, term, genre string) ([]musicapi.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.SearchArtists(ctx, term, genre)
}

func (s *service) SearchAlbums(ctx context.Context, term string) ([]musicapi.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.SearchAlbums(ctx, term)
}

func (s *service) SearchTracks(ctx context.Context, term string) ([]musicapi.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.SearchTracks(ctx, term)
}

func (s *service) Artist(ctx context.Context, id string) (*musicapi.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.Artist(ctx, id)
}

func (s *service) ArtistAlbums(ctx context.Context, id string) ([]musicapi.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.ArtistAlbums(ctx, id)
}

func (s *service) ArtistTopTracks(ctx context.Context, id string) ([]musicapi.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.ArtistTopTracks(ctx, id)
}

func (s *service) Album(ctx context.Context, id string) (*musicapi.Album, []musicapi.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return s.catalog.Album(ctx, id)
}

func (s *service) Tracks(ctx context.Context, ids []string) ([]musicapi.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.Tracks(ctx, ids)
}
