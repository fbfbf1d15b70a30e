package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Signup(ctx context.Context, firstName, lastName, email, password string) (token string, err error)
	VerifyToken(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	users      repository.UserRepository
	identities IdentityResolver
	hasher     auth.Hasher
	jwtService *auth.JWTService
}

// Ensure authService can back the authorization middleware.
var _ auth.TokenVerifier = (*authService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	identities IdentityResolver,
	hasher auth.Hasher,
	jwtService *auth.JWTService,
) AuthService {
	return &authService{
		users:      users,
		identities: identities,
		hasher:     hasher,
		jwtService: jwtService,
	}
}

// Login checks the password of the user registered with email and returns a token.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.identities.ResolveEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if !s.hasher.Verify(user.Password, password) {
		return "", apperrors.ErrPasswordMismatch
	}

	token, err := s.jwtService.Issue(user.UserID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Signup creates a user with a hashed password and returns a token for it.
func (s *authService) Signup(ctx context.Context, firstName, lastName, email, password string) (string, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return "", apperrors.ErrUserAlreadyExists
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	user := &model.User{
		FirstName:    firstName,
		LastName:     lastName,
		EmailAddress: email,
		Password:     digest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race against a concurrent signup with the same address.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", apperrors.ErrUserAlreadyExists
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Issue(user.UserID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// VerifyToken returns the user a token was issued for. It fails with
// ErrTokenInvalid for a bad token and ErrUserNotFound when the user is gone.
func (s *authService) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.jwtService.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.identities.Resolve(ctx, userID)
}
