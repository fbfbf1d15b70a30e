package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"blogapi/internal/cache"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

const postCacheTTL = 5 * time.Minute

// PostService handles post operations.
type PostService interface {
	CreatePost(ctx context.Context, userID uint, title, content string) (*model.Post, error)
	GetPosts(ctx context.Context, skip, limit int) ([]model.Post, error)
	GetPost(ctx context.Context, postID uint) (*model.Post, error)
	UpdatePost(ctx context.Context, userID, postID uint, title, content string) (*model.Post, error)
	DeletePost(ctx context.Context, userID, postID uint) error
}

type postService struct {
	posts      repository.PostRepository
	identities IdentityResolver
	cache      *cache.Client
}

// NewPostService creates a new post service. cache may be nil.
func NewPostService(posts repository.PostRepository, identities IdentityResolver, cache *cache.Client) PostService {
	return &postService{
		posts:      posts,
		identities: identities,
		cache:      cache,
	}
}

func (s *postService) cacheKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// cachedPost is the cache entry for one post. A deleted entry outlives any
// read that raced with the delete, since fills never overwrite.
type cachedPost struct {
	Deleted bool        `json:"deleted,omitempty"`
	Post    *model.Post `json:"post,omitempty"`
}

// CreatePost stores a new post owned by userID.
func (s *postService) CreatePost(ctx context.Context, userID uint, title, content string) (*model.Post, error) {
	post := &model.Post{
		UserID:  userID,
		Title:   title,
		Content: content,
	}

	author, err := withAuthor(ctx, s.identities, userID, func(ctx context.Context) error {
		return s.posts.Create(ctx, post)
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	post.PostedUser = author
	return post, nil
}

// GetPosts returns a page of posts, newest first.
func (s *postService) GetPosts(ctx context.Context, skip, limit int) ([]model.Post, error) {
	skip, limit = normalizePage(skip, limit)
	posts, err := s.posts.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost retrieves a post with its author, using the cache when available.
func (s *postService) GetPost(ctx context.Context, postID uint) (*model.Post, error) {
	var cached cachedPost
	if s.cache.GetJSON(ctx, s.cacheKey(postID), &cached) {
		if cached.Deleted {
			return nil, apperrors.ErrPostNotFound
		}
		if cached.Post != nil {
			return cached.Post, nil
		}
		_ = s.cache.Delete(ctx, s.cacheKey(postID))
	}

	post, err := s.posts.FindByIDWithAuthor(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post %d: %w", postID, err)
	}

	s.cache.SetJSONIfAbsent(ctx, s.cacheKey(postID), cachedPost{Post: post}, postCacheTTL)
	return post, nil
}

// UpdatePost replaces the title and content of a post owned by userID.
func (s *postService) UpdatePost(ctx context.Context, userID, postID uint, title, content string) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err := authorizeOwner(post, err, userID, apperrors.ErrPostNotFound); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content

	author, err := withAuthor(ctx, s.identities, userID, func(ctx context.Context) error {
		return s.posts.UpdateContent(ctx, post)
	})
	if err != nil {
		return nil, fmt.Errorf("update post %d: %w", postID, err)
	}
	post.PostedUser = author
	s.cache.SetJSON(ctx, s.cacheKey(postID), cachedPost{Post: post}, postCacheTTL)
	return post, nil
}

// DeletePost removes a post owned by userID and all of its comments.
func (s *postService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err := authorizeOwner(post, err, userID, apperrors.ErrPostNotFound); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("delete post %d: %w", postID, err)
	}
	s.cache.SetJSON(ctx, s.cacheKey(postID), cachedPost{Deleted: true}, postCacheTTL)
	return nil
}
