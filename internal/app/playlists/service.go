package playlists

import (
	"context"

	"songscout/internal/store"
)

// Store describes the persistence operations required by the playlist service.
type Store interface {
	CreatePlaylist(ctx context.Context, name, imgURL, username string) (*store.Playlist, error)
	DeletePlaylist(ctx context.Context, id int64) (int64, error)
	GetPlaylist(ctx context.Context, id int64) (*store.Playlist, error)
	ListPlaylists(ctx context.Context, username string) ([]store.Playlist, error)
	AddSong(ctx context.Context, playlistID int64, songID string) (string, error)
	RemoveSong(ctx context.Context, playlistID int64, songID string) (string, error)
}

// Service coordinates playlist workflows.
type Service interface {
	Create(ctx context.Context, name, imgURL, username string) (*store.Playlist, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Get(ctx context.Context, id int64) (*store.Playlist, error)
	List(ctx context.Context, username string) ([]store.Playlist, error)
	AddSong(ctx context.Context, playlistID int64, songID string) (string, error)
	RemoveSong(ctx context.Context, playlistID int64, songID string) (string, error)
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, name, imgURL, username string) (*store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CreatePlaylist(ctx, name, imgURL, username)
}

func (s *service) Delete(ctx context.Context, id int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.DeletePlaylist(ctx, id)
}

func (s *service) Get(ctx context.Context, id int64) (*store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetPlaylist(ctx, id)
}

func (s *service) List(ctx context.Context, username string) ([]store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylists(ctx, username)
}

func (s *service) AddSong(ctx context.Context, playlistID int64, songID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.store.AddSong(ctx, playlistID, songID)
}

func (s *service) RemoveSong(ctx context.Context, playlistID int64, songID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.store.RemoveSong(ctx, playlistID, songID)
}
