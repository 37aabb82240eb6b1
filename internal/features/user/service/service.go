package service

import (
	"context"
	"errors"

	"youguo-backend/internal/features/user/models"
	"youguo-backend/internal/store"
)

var ErrUserNotFound = errors.New("user not found")

// Store is the subset of the persistent store the user service needs.
type Store interface {
	SyncUser(ctx context.Context, identity models.Identity) (*models.UserProfile, error)
	GetUser(ctx context.Context, userID string) (*models.UserProfile, error)
}

// UserService is the session/profile controller: it synchronizes decoded
// identities with the store and serves profile reads.
type UserService interface {
	Sync(ctx context.Context, identity models.Identity) (*models.UserProfile, error)
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
}

type userService struct {
	store Store
}

func NewUserService(s Store) UserService {
	return &userService{store: s}
}

func (s *userService) Sync(ctx context.Context, identity models.Identity) (*models.UserProfile, error) {
	return s.store.SyncUser(ctx, identity)
}

func (s *userService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
