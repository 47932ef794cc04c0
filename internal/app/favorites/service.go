package favorites

import "context"

// Store describes the persistence operations required by the favorites service.
type Store interface {
	AddFavorite(ctx context.Context, username, songID string) (string, error)
	RemoveFavorite(ctx context.Context, username, songID string) (string, error)
}

// Service coordinates favoriting workflows.
type Service interface {
	Add(ctx context.Context, username, songID string) (string, error)
	Remove(ctx context.Context, username, songID string) (string, error)
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Add(ctx context.Context, username, songID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.store.AddFavorite(ctx, username, songID)
}

func (s *service) Remove(ctx context.Context, username, songID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.store.RemoveFavorite(ctx, username, songID)
}
