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

// CommentService handles comment operations.
type CommentService interface {
	CreateComment(ctx context.Context, userID, postID uint, text string) (*model.Comment, error)
	GetComments(ctx context.Context, postID uint, skip, limit int) ([]model.Comment, error)
	UpdateComment(ctx context.Context, userID, commentID uint, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID uint) error
}

type commentService struct {
	comments   repository.CommentRepository
	posts      repository.PostRepository
	identities IdentityResolver
}

// NewCommentService creates a new comment service.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	identities IdentityResolver,
) CommentService {
	return &commentService{
		comments:   comments,
		posts:      posts,
		identities: identities,
	}
}

func (s *commentService) requirePost(ctx context.Context, postID uint) error {
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("check post %d: %w", postID, err)
	}
	if !exists {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// CreateComment adds a comment by userID to an existing post.
func (s *commentService) CreateComment(ctx context.Context, userID, postID uint, text string) (*model.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	author, err := withAuthor(ctx, s.identities, userID, func(ctx context.Context) error {
		return s.comments.Create(ctx, comment)
	})
	if err != nil {
		// The post was deleted after the existence check.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	comment.Commentor = author
	return comment, nil
}

// GetComments returns a page of a post's comments, newest first.
func (s *commentService) GetComments(ctx context.Context, postID uint, skip, limit int) ([]model.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	skip, limit = normalizePage(skip, limit)
	comments, err := s.comments.ListByPost(ctx, postID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments of post %d: %w", postID, err)
	}
	return comments, nil
}

// UpdateComment replaces the text of a comment owned by userID.
func (s *commentService) UpdateComment(ctx context.Context, userID, commentID uint, text string) (*model.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err := authorizeOwner(comment, err, userID, apperrors.ErrCommentNotFound); err != nil {
		return nil, err
	}

	comment.Text = text
	author, err := withAuthor(ctx, s.identities, userID, func(ctx context.Context) error {
		return s.comments.UpdateText(ctx, comment)
	})
	if err != nil {
		return nil, fmt.Errorf("update comment %d: %w", commentID, err)
	}

	comment.Commentor = author
	return comment, nil
}

// DeleteComment removes a comment owned by userID.
func (s *commentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err := authorizeOwner(comment, err, userID, apperrors.ErrCommentNotFound); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}
	return nil
}
