package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blogapi/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	FindByIDWithAuthor(ctx context.Context, id uint) (*model.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, offset, limit int) ([]model.Post, error)
	UpdateContent(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// authorColumns limits preloaded users to what responses show.
func authorColumns(tx *gorm.DB) *gorm.DB {
	return tx.Select("user_id", "first_name", "last_name")
}

// Create inserts a post. Associations are never written through it.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// FindByID finds a post by ID.
func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("post_id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindByIDWithAuthor finds a post by ID with its author's name loaded.
func (r *postRepository) FindByIDWithAuthor(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("PostedUser", authorColumns).
		Where("post_id = ?", id).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Exists reports whether a post with the ID is stored.
func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("post_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a page of posts, newest first.
func (r *postRepository) List(ctx context.Context, offset, limit int) ([]model.Post, error) {
	posts := make([]model.Post, 0, limit)
	if err := r.db.WithContext(ctx).
		Preload("PostedUser", authorColumns).
		Order("created_at DESC").
		Order("post_id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateContent writes the title and content of an existing post.
func (r *postRepository) UpdateContent(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Model(post).
		Omit(clause.Associations).
		Select("title", "content", "updated_at").
		Updates(post).Error
}

// Delete removes a post together with its comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("post_id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
