package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// IdentityResolver maps user ids and email addresses to stored users.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID uint) (*model.User, error)
	ResolveEmail(ctx context.Context, email string) (*model.User, error)
}

type identityResolver struct {
	users repository.UserRepository
}

// NewIdentityResolver creates a resolver backed by the user repository.
func NewIdentityResolver(users repository.UserRepository) IdentityResolver {
	return &identityResolver{users: users}
}

// Resolve returns the user with the given id or ErrUserNotFound.
func (r *identityResolver) Resolve(ctx context.Context, userID uint) (*model.User, error) {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", userID, err)
	}
	return user, nil
}

// ResolveEmail returns the user registered with email or ErrUserNotFound.
func (r *identityResolver) ResolveEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}
