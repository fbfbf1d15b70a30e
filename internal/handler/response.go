package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
)

// AuthorResponse is the public name of a post author or commentor.
type AuthorResponse struct {
	FirstName string `json:"firstName" example:"Ada"`
	LastName  string `json:"lastName" example:"Lovelace"`
}

// PostResponse represents a post as returned by the API.
type PostResponse struct {
	PostID     uint           `json:"postId" example:"1"`
	UserID     uint           `json:"userId" example:"1"`
	Title      string         `json:"title" example:"Hello"`
	Content    string         `json:"content" example:"First post"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	PostedUser AuthorResponse `json:"postedUser"`
}

// CommentResponse represents a comment as returned by the API.
type CommentResponse struct {
	CommentID uint           `json:"commentId" example:"1"`
	PostID    uint           `json:"postId" example:"1"`
	UserID    uint           `json:"userId" example:"1"`
	Comment   string         `json:"comment" example:"Nice post"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Commentor AuthorResponse `json:"commentor"`
}

// UserResponse represents the authenticated user.
type UserResponse struct {
	UserID       uint      `json:"userId" example:"1"`
	FirstName    string    `json:"firstName" example:"Ada"`
	LastName     string    `json:"lastName" example:"Lovelace"`
	EmailAddress string    `json:"emailAddress" example:"ada@example.com"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TokenResponse carries a signed bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// PostEnvelope wraps a single post.
type PostEnvelope struct {
	Post PostResponse `json:"post"`
}

// PostsEnvelope wraps a page of posts.
type PostsEnvelope struct {
	Posts []PostResponse `json:"posts"`
}

// CommentEnvelope wraps a single comment.
type CommentEnvelope struct {
	Comment CommentResponse `json:"comment"`
}

// CommentsEnvelope wraps a page of comments.
type CommentsEnvelope struct {
	Comments []CommentResponse `json:"comments"`
}

// DeletedResponse confirms a deletion.
type DeletedResponse struct {
	IsDeleted bool `json:"isDeleted" example:"true"`
}

// MeResponse wraps the authenticated user.
type MeResponse struct {
	User UserResponse `json:"user"`
}

func toAuthor(u *model.User) AuthorResponse {
	if u == nil {
		return AuthorResponse{}
	}
	return AuthorResponse{FirstName: u.FirstName, LastName: u.LastName}
}

func toPostResponse(p *model.Post) PostResponse {
	return PostResponse{
		PostID:     p.PostID,
		UserID:     p.UserID,
		Title:      p.Title,
		Content:    p.Content,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		PostedUser: toAuthor(p.PostedUser),
	}
}

func toCommentResponse(c *model.Comment) CommentResponse {
	return CommentResponse{
		CommentID: c.CommentID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Comment:   c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Commentor: toAuthor(c.Commentor),
	}
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		UserID:       u.UserID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
		CreatedAt:    u.CreatedAt,
	}
}

// respondError converts err into the echo error rendered by the router.
func respondError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// pathID parses a numeric path parameter. Anything that is not a positive
// integer is reported as <name>-invalid.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		return 0, respondError(apperrors.Invalid(name))
	}
	return uint(id), nil
}

// pageParams reads skip and limit from the query string. Unparseable
// values become 0 and are normalized by the services.
func pageParams(c echo.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.QueryParam("skip"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	return skip, limit
}
