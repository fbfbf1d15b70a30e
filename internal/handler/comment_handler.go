package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogapi/internal/auth"
	"blogapi/internal/model"
	"blogapi/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest is the body of a comment create request.
type CreateCommentRequest struct {
	PostID  uint   `json:"postId" validate:"required" example:"1"`
	Comment string `json:"comment" validate:"notblank" example:"Nice post"`
}

// UpdateCommentRequest is the body of a comment update request.
type UpdateCommentRequest struct {
	Comment string `json:"comment" validate:"notblank" example:"Nice post"`
}

// CreateComment godoc
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} CommentEnvelope
// @Failure 400 {object} errors.ErrorResponse "postId-invalid, comment-invalid"
// @Failure 401 {object} errors.ErrorResponse "authHeader-invalid, jwt-invalid"
// @Failure 404 {object} errors.ErrorResponse "post-not-found"
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/comments/create-comment [post]
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.CreateComment(c.Request().Context(), auth.UserID(c), req.PostID, req.Comment)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, CommentEnvelope{Comment: toCommentResponse(comment)})
}

// GetComments godoc
// @Summary List the comments of a post
// @Description Newest first. skip defaults to 0, limit to 10 (at most 50).
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param skip query int false "Number of comments to skip"
// @Param limit query int false "Page size"
// @Success 200 {object} CommentsEnvelope
// @Failure 400 {object} errors.ErrorResponse "postId-invalid"
// @Failure 401 {object} errors.ErrorResponse "authHeader-invalid, jwt-invalid"
// @Failure 404 {object} errors.ErrorResponse "post-not-found"
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/comments/get-comments/{postId} [get]
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}
	skip, limit := pageParams(c)

	comments, err := h.commentService.GetComments(c.Request().Context(), postID, skip, limit)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, CommentsEnvelope{Comments: toCommentResponses(comments)})
}

// UpdateComment godoc
// @Summary Update a comment
// @Description Only the author of the comment may update it.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Param request body UpdateCommentRequest true "Comment"
// @Success 200 {object} CommentEnvelope
// @Failure 400 {object} errors.ErrorResponse "commentId-invalid, comment-invalid"
// @Failure 401 {object} errors.ErrorResponse "authHeader-invalid, jwt-invalid"
// @Failure 403 {object} errors.ErrorResponse "permission-denied"
// @Failure 404 {object} errors.ErrorResponse "comment-not-found"
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/comments/update-comment/{commentId} [put]
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return err
	}

	var req UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.UpdateComment(c.Request().Context(), auth.UserID(c), commentID, req.Comment)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, CommentEnvelope{Comment: toCommentResponse(comment)})
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Only the author of the comment may delete it.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} DeletedResponse
// @Failure 400 {object} errors.ErrorResponse "commentId-invalid"
// @Failure 401 {object} errors.ErrorResponse "authHeader-invalid, jwt-invalid"
// @Failure 403 {object} errors.ErrorResponse "permission-denied"
// @Failure 404 {object} errors.ErrorResponse "comment-not-found"
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/comments/delete-comment/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return err
	}

	if err := h.commentService.DeleteComment(c.Request().Context(), auth.UserID(c), commentID); err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, DeletedResponse{IsDeleted: true})
}

func toCommentResponses(comments []model.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	return out
}
