package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	FirstName       string `json:"firstName" validate:"notblank" example:"Ada"`
	LastName        string `json:"lastName" example:"Lovelace"`
	EmailAddress    string `json:"emailAddress" validate:"emailaddr" example:"ada@example.com"`
	Password        string `json:"password" validate:"notblank" example:"secret"`
	ConfirmPassword string `json:"confirmPassword" validate:"notblank,eqfield=Password" example:"secret"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	EmailAddress string `json:"emailAddress" validate:"emailaddr" example:"ada@example.com"`
	Password     string `json:"password" validate:"notblank" example:"secret"`
}

// Signup godoc
// @Summary Register a new user
// @Description Creates a user and returns a bearer token for it. lastName is optional.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse "firstName-invalid, emailAddress-invalid, password-invalid, confirmPassword-invalid, passwords-mismatch"
// @Failure 409 {object} errors.ErrorResponse "user-already-exist"
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Signup(c.Request().Context(), req.FirstName, req.LastName, req.EmailAddress, req.Password)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, TokenResponse{Token: token})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse "emailAddress-invalid, password-invalid"
// @Failure 401 {object} errors.ErrorResponse "password-mismatch"
// @Failure 404 {object} errors.ErrorResponse "user-not-found"
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.EmailAddress, req.Password)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Me godoc
// @Summary Current user
// @Description Returns the user the bearer token resolves to.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse "authHeader-invalid, jwt-invalid"
// @Router /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return respondError(apperrors.ErrTokenInvalid)
	}
	return c.JSON(http.StatusOK, MeResponse{User: toUserResponse(user)})
}
