package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogapi/internal/cache"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
)

func newTestPostService(posts *MockPostRepository, users *MockUserRepository) PostService {
	return NewPostService(posts, NewIdentityResolver(users), nil)
}

func TestPostService_CreatePost(t *testing.T) {
	t.Run("attaches the author", func(t *testing.T) {
		posts := new(MockPostRepository)
		users := new(MockUserRepository)
		posts.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
			return p.UserID == 1 && p.Title == "Hello" && p.Content == "World"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Post).PostID = 11
		}).Return(nil)
		users.On("FindByID", mock.Anything, uint(1)).Return(&model.User{UserID: 1, FirstName: "Ada", LastName: "L"}, nil)

		post, err := newTestPostService(posts, users).CreatePost(context.Background(), 1, "Hello", "World")
		require.NoError(t, err)
		assert.Equal(t, uint(11), post.PostID)
		require.NotNil(t, post.PostedUser)
		assert.Equal(t, "Ada", post.PostedUser.FirstName)

		posts.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("insert failure", func(t *testing.T) {
		posts := new(MockPostRepository)
		users := new(MockUserRepository)
		dbErr := errors.New("disk full")
		posts.On("Create", mock.Anything, mock.Anything).Return(dbErr)
		users.On("FindByID", mock.Anything, uint(1)).Return(&model.User{UserID: 1}, nil).Maybe()

		post, err := newTestPostService(posts, users).CreatePost(context.Background(), 1, "Hello", "World")
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, post)
	})
}

func TestPostService_GetPosts(t *testing.T) {
	tests := []struct {
		name        string
		skip, limit int
		wantOffset  int
		wantLimit   int
	}{
		{name: "defaults", skip: 0, limit: 0, wantOffset: 0, wantLimit: DefaultPageSize},
		{name: "negative skip", skip: -4, limit: 5, wantOffset: 0, wantLimit: 5},
		{name: "limit is capped", skip: 20, limit: 500, wantOffset: 20, wantLimit: MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			posts.On("List", mock.Anything, tt.wantOffset, tt.wantLimit).Return([]model.Post{{PostID: 1}}, nil)

			result, err := newTestPostService(posts, new(MockUserRepository)).GetPosts(context.Background(), tt.skip, tt.limit)
			require.NoError(t, err)
			assert.Len(t, result, 1)
			posts.AssertExpectations(t)
		})
	}
}

func TestPostService_GetPost(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		posts := new(MockPostRepository)
		posts.On("FindByIDWithAuthor", mock.Anything, uint(4)).
			Return(&model.Post{PostID: 4, UserID: 1, PostedUser: &model.User{FirstName: "Ada"}}, nil)

		post, err := newTestPostService(posts, new(MockUserRepository)).GetPost(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, uint(4), post.PostID)
		assert.Equal(t, "Ada", post.PostedUser.FirstName)
	})

	t.Run("missing", func(t *testing.T) {
		posts := new(MockPostRepository)
		posts.On("FindByIDWithAuthor", mock.Anything, uint(4)).Return(nil, gorm.ErrRecordNotFound)

		_, err := newTestPostService(posts, new(MockUserRepository)).GetPost(context.Background(), 4)
		assert.Equal(t, apperrors.ErrPostNotFound, err)
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	tests := []struct {
		name          string
		userID        uint
		setupMock     func(p *MockPostRepository, u *MockUserRepository)
		expectedError error
	}{
		{
			name:   "owner updates",
			userID: 1,
			setupMock: func(p *MockPostRepository, u *MockUserRepository) {
				p.On("FindByID", mock.Anything, uint(8)).Return(&model.Post{PostID: 8, UserID: 1, Title: "old"}, nil)
				p.On("UpdateContent", mock.Anything, mock.MatchedBy(func(post *model.Post) bool {
					return post.Title == "new title" && post.Content == "new content"
				})).Return(nil)
				u.On("FindByID", mock.Anything, uint(1)).Return(&model.User{UserID: 1, FirstName: "Ada"}, nil)
			},
		},
		{
			name:   "other user is denied",
			userID: 2,
			setupMock: func(p *MockPostRepository, u *MockUserRepository) {
				p.On("FindByID", mock.Anything, uint(8)).Return(&model.Post{PostID: 8, UserID: 1}, nil)
			},
			expectedError: apperrors.ErrPermissionDenied,
		},
		{
			name:   "missing post reports not found before ownership",
			userID: 2,
			setupMock: func(p *MockPostRepository, u *MockUserRepository) {
				p.On("FindByID", mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrPostNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			users := new(MockUserRepository)
			tt.setupMock(posts, users)

			post, err := newTestPostService(posts, users).UpdatePost(context.Background(), tt.userID, 8, "new title", "new content")

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, post)
				posts.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "new title", post.Title)
				assert.Equal(t, "Ada", post.PostedUser.FirstName)
			}

			posts.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestPostService_DeletePost(t *testing.T) {
	tests := []struct {
		name          string
		userID        uint
		setupMock     func(p *MockPostRepository)
		expectedError error
	}{
		{
			name:   "owner deletes",
			userID: 1,
			setupMock: func(p *MockPostRepository) {
				p.On("FindByID", mock.Anything, uint(8)).Return(&model.Post{PostID: 8, UserID: 1}, nil)
				p.On("Delete", mock.Anything, uint(8)).Return(nil)
			},
		},
		{
			name:   "other user is denied",
			userID: 2,
			setupMock: func(p *MockPostRepository) {
				p.On("FindByID", mock.Anything, uint(8)).Return(&model.Post{PostID: 8, UserID: 1}, nil)
			},
			expectedError: apperrors.ErrPermissionDenied,
		},
		{
			name:   "missing post",
			userID: 1,
			setupMock: func(p *MockPostRepository) {
				p.On("FindByID", mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrPostNotFound,
		},
		{
			name:   "deleted concurrently",
			userID: 1,
			setupMock: func(p *MockPostRepository) {
				p.On("FindByID", mock.Anything, uint(8)).Return(&model.Post{PostID: 8, UserID: 1}, nil)
				p.On("Delete", mock.Anything, uint(8)).Return(gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrPostNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			tt.setupMock(posts)

			err := newTestPostService(posts, new(MockUserRepository)).DeletePost(context.Background(), tt.userID, 8)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}
			posts.AssertExpectations(t)
		})
	}
}

func newCachedPostService(t *testing.T, posts *MockPostRepository, users *MockUserRepository) PostService {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0, zerolog.Nop())
	t.Cleanup(func() { _ = c.Close() })
	return NewPostService(posts, NewIdentityResolver(users), c)
}

func TestPostService_Cache(t *testing.T) {
	ctx := context.Background()
	ada := &model.User{UserID: 1, FirstName: "Ada", LastName: "L"}
	posts := new(MockPostRepository)
	users := new(MockUserRepository)
	posts.On("FindByIDWithAuthor", mock.Anything, uint(4)).
		Return(&model.Post{PostID: 4, UserID: 1, Title: "t1", Content: "c1", PostedUser: ada}, nil)
	posts.On("FindByID", mock.Anything, uint(4)).
		Return(&model.Post{PostID: 4, UserID: 1, Title: "t1", Content: "c1"}, nil)
	posts.On("UpdateContent", mock.Anything, mock.Anything).Return(nil)
	posts.On("Delete", mock.Anything, uint(4)).Return(nil)
	users.On("FindByID", mock.Anything, uint(1)).Return(ada, nil)
	svc := newCachedPostService(t, posts, users)

	first, err := svc.GetPost(ctx, 4)
	require.NoError(t, err)
	second, err := svc.GetPost(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, first.Title, second.Title)
	require.NotNil(t, second.PostedUser)
	assert.Equal(t, "Ada", second.PostedUser.FirstName)
	posts.AssertNumberOfCalls(t, "FindByIDWithAuthor", 1)

	_, err = svc.UpdatePost(ctx, 1, 4, "t2", "c2")
	require.NoError(t, err)
	updated, err := svc.GetPost(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "t2", updated.Title)
	assert.Equal(t, "c2", updated.Content)
	assert.Equal(t, "Ada", updated.PostedUser.FirstName)
	posts.AssertNumberOfCalls(t, "FindByIDWithAuthor", 1)

	require.NoError(t, svc.DeletePost(ctx, 1, 4))
	_, err = svc.GetPost(ctx, 4)
	assert.Equal(t, apperrors.ErrPostNotFound, err)
	posts.AssertNumberOfCalls(t, "FindByIDWithAuthor", 1)
}

func TestPostService_CacheFillLosesToDelete(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostRepository)
	users := new(MockUserRepository)
	svc := newCachedPostService(t, posts, users)

	posts.On("FindByID", mock.Anything, uint(9)).Return(&model.Post{PostID: 9, UserID: 1}, nil)
	posts.On("Delete", mock.Anything, uint(9)).Return(nil)
	// The post is deleted after the read loaded it but before the read
	// fills the cache.
	posts.On("FindByIDWithAuthor", mock.Anything, uint(9)).
		Run(func(mock.Arguments) {
			require.NoError(t, svc.DeletePost(ctx, 1, 9))
		}).
		Return(&model.Post{PostID: 9, UserID: 1, Title: "stale"}, nil).Once()

	stale, err := svc.GetPost(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "stale", stale.Title)

	_, err = svc.GetPost(ctx, 9)
	assert.Equal(t, apperrors.ErrPostNotFound, err)
	posts.AssertExpectations(t)
}
