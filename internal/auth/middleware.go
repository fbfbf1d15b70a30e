package auth

import (
	"context"
	"fmt"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
)

// ContextKey is the echo context key holding the authenticated *model.User.
const ContextKey = "user"

type userIDKey struct{}

const bearerPrefix = "Bearer "

// TokenVerifier resolves a bearer token to an existing user.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*model.User, error)
}

// Middleware rejects requests without a valid "Authorization: Bearer <token>"
// header. A missing header is reported as authHeader-invalid; every other
// failure, including a token whose user no longer exists, as jwt-invalid.
func Middleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + bearerPrefix,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			// The lookup matches the scheme case-insensitively; only the exact
			// "Bearer " prefix is accepted.
			if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderAuthorization), bearerPrefix) {
				return nil, apperrors.ErrTokenInvalid
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return nil, apperrors.ErrTokenInvalid
			}
			user, err := verifier.VerifyToken(c.Request().Context(), token)
			if err != nil {
				return nil, err
			}
			return user, nil
		},
		SuccessHandler: func(c echo.Context) {
			if user, ok := CurrentUser(c); ok {
				req := c.Request()
				c.SetRequest(req.WithContext(context.WithValue(req.Context(), userIDKey{}, user.UserID)))
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			reason := apperrors.ErrTokenInvalid
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				reason = apperrors.ErrAuthHeaderMissing
			}
			// The cause may itself be an *echo.HTTPError, which echo would render
			// instead of the reason, so it is only kept as text.
			return echo.NewHTTPError(reason.Status, apperrors.ErrorResponse{Error: reason.Code}).
				SetInternal(fmt.Errorf("%w: %v", reason, err))
		},
	})
}

// CurrentUser returns the user bound by Middleware.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextKey).(*model.User)
	return user, ok && user != nil
}

// UserID returns the id of the authenticated user, or 0 outside Middleware.
func UserID(c echo.Context) uint {
	if user, ok := CurrentUser(c); ok {
		return user.UserID
	}
	return 0
}

// UserIDFromContext reads the authenticated user id from a request context.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok && id != 0
}
