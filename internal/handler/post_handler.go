package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogapi/internal/auth"
	"blogapi/internal/model"
	"blogapi/internal/service"
)

// PostHandler handles post endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// PostRequest is the body of post create and update requests.
type PostRequest struct {
	Title   string `json:"title" validate:"notblank,max=500" example:"Hello"`
	Content string `json:"content" validate:"notblank" example:"First post"`
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PostRequest true "Post"
// @Success 201 {object} PostEnvelope
// @Failure 400 {object} errors.ErrorResponse "title-invalid, content-invalid"
// @Failure 401 {object} errors.ErrorResponse "authHeader-invalid, jwt-invalid"
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/posts/create-post [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.Request().Context(), auth.UserID(c), req.Title, req.Content)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, PostEnvelope{Post: toPostResponse(post)})
}

// GetPosts godoc
// @Summary List posts
// @Description Newest first. skip defaults to 0, limit to 10 (at most 50).
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Number of posts to skip"
// @Param limit query int false "Page size"
// @Success 200 {object} PostsEnvelope
// @Failure 401 {object} errors.ErrorResponse "authHeader-invalid, jwt-invalid"
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/posts/get-posts [get]
func (h *PostHandler) GetPosts(c echo.Context) error {
	skip, limit := pageParams(c)

	posts, err := h.postService.GetPosts(c.Request().Context(), skip, limit)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, PostsEnvelope{Posts: toPostResponses(posts)})
}

// GetPost godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} PostEnvelope
// @Failure 400 {object} errors.ErrorResponse "postId-invalid"
// @Failure 401 {object} errors.ErrorResponse "authHeader-invalid, jwt-invalid"
// @Failure 404 {object} errors.ErrorResponse "post-not-found"
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/posts/get-post/{postId} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}

	post, err := h.postService.GetPost(c.Request().Context(), postID)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, PostEnvelope{Post: toPostResponse(post)})
}

// UpdatePost godoc
// @Summary Update a post
// @Description Only the author of the post may update it.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body PostRequest true "Post"
// @Success 200 {object} PostEnvelope
// @Failure 400 {object} errors.ErrorResponse "postId-invalid, title-invalid, content-invalid"
// @Failure 401 {object} errors.ErrorResponse "authHeader-invalid, jwt-invalid"
// @Failure 403 {object} errors.ErrorResponse "permission-denied"
// @Failure 404 {object} errors.ErrorResponse "post-not-found"
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/posts/update-post/{postId} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}

	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), auth.UserID(c), postID, req.Title, req.Content)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, PostEnvelope{Post: toPostResponse(post)})
}

// DeletePost godoc
// @Summary Delete a post
// @Description Only the author of the post may delete it. Its comments are deleted too.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} DeletedResponse
// @Failure 400 {object} errors.ErrorResponse "postId-invalid"
// @Failure 401 {object} errors.ErrorResponse "authHeader-invalid, jwt-invalid"
// @Failure 403 {object} errors.ErrorResponse "permission-denied"
// @Failure 404 {object} errors.ErrorResponse "post-not-found"
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/posts/delete-post/{postId} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}

	if err := h.postService.DeletePost(c.Request().Context(), auth.UserID(c), postID); err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, DeletedResponse{IsDeleted: true})
}

func toPostResponses(posts []model.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	return out
}
