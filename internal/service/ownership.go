package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
)

// owned is a resource that belongs to exactly one user.
type owned interface {
	OwnerID() uint
}

// authorizeOwner decides whether userID may mutate a looked-up resource.
// Existence is checked first: a missing resource yields notFound even when
// the caller would not own it.
func authorizeOwner(resource owned, lookupErr error, userID uint, notFound error) error {
	if lookupErr != nil {
		if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return notFound
		}
		return fmt.Errorf("load resource: %w", lookupErr)
	}
	if resource.OwnerID() != userID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// withAuthor runs write and the lookup of the acting user concurrently and
// returns the user once both have finished.
func withAuthor(ctx context.Context, identities IdentityResolver, userID uint, write func(ctx context.Context) error) (*model.User, error) {
	var author *model.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return write(gctx)
	})
	g.Go(func() error {
		user, err := identities.Resolve(gctx, userID)
		if err != nil {
			return err
		}
		author = user
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return author, nil
}

// Page sizes for list operations.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return skip, limit
}
