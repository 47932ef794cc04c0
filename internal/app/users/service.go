package users

import (
	"context"

	"songscout/internal/store"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	Register(ctx context.Context, nu store.NewUser) (*store.Profile, error)
	Authenticate(ctx context.Context, username, password string) (*store.Profile, error)
	GetUser(ctx context.Context, username string) (*store.UserPage, error)
	UpdateUser(ctx context.Context, username string, upd store.UserUpdate) (*store.UserPage, error)
}

// Service exposes account workflows in an extensible manner.
type Service interface {
	Register(ctx context.Context, nu store.NewUser) (*store.Profile, error)
	Authenticate(ctx context.Context, username, password string) (*store.Profile, error)
	Get(ctx context.Context, username string) (*store.UserPage, error)
	Update(ctx context.Context, username string, upd store.UserUpdate) (*store.UserPage, error)
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Register(ctx context.Context, nu store.NewUser) (*store.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Register(ctx, nu)
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*store.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Authenticate(ctx, username, password)
}

func (s *service) Get(ctx context.Context, username string) (*store.UserPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, username)
}

func (s *service) Update(ctx context.Context, username string, upd store.UserUpdate) (*store.UserPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.UpdateUser(ctx, username, upd)
}
