package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/handler"
	"blogapi/internal/logger"
)

const docsIndex = "/api-docs/index.html"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log zerolog.Logger,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	verifier auth.TokenVerifier,
) {
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = ErrorHandler(log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Swagger UI
	redirectToDocs := func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, docsIndex)
	}
	e.GET("/", redirectToDocs)
	e.GET("/api-docs", redirectToDocs)
	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	// Public routes
	authGroup := e.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)

	// Secured routes
	api := e.Group("/api", auth.Middleware(verifier))
	api.GET("/me", authHandler.Me)

	posts := api.Group("/posts")
	posts.POST("/create-post", postHandler.CreatePost)
	posts.GET("/get-posts", postHandler.GetPosts)
	posts.GET("/get-post/:postId", postHandler.GetPost)
	posts.PUT("/update-post/:postId", postHandler.UpdatePost)
	posts.DELETE("/delete-post/:postId", postHandler.DeletePost)

	comments := api.Group("/comments")
	comments.POST("/create-comment", commentHandler.CreateComment)
	comments.GET("/get-comments/:postId", commentHandler.GetComments)
	comments.PUT("/update-comment/:commentId", commentHandler.UpdateComment)
	comments.DELETE("/delete-comment/:commentId", commentHandler.DeleteComment)
}

// ErrorHandler renders every error as {"error": code}. Server side failures
// are logged with their cause and reported as internal-error.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := apperrors.ErrorResponse{Error: apperrors.CodeInternal}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch msg := he.Message.(type) {
			case apperrors.ErrorResponse:
				body = msg
			case string:
				body.Error = msg
			}
		} else {
			httpErr := apperrors.MapErrorToHTTP(err)
			status = httpErr.StatusCode
			body = httpErr.ToErrorResponse()
		}

		if status >= http.StatusInternalServerError {
			body.Error = apperrors.CodeInternal
			log.Error().
				Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}
