package db

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogapi/internal/model"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "blog.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLiteDSN("blog.db"))
	assert.Equal(t, "blog.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLiteDSN("blog.db?mode=rwc"))
	assert.Equal(t, "blog.db?_pragma=journal_mode(WAL)", SQLiteDSN("blog.db?_pragma=journal_mode(WAL)"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "dsn", zerolog.Nop())
	assert.Error(t, err)
}

func TestMigrateAndReset(t *testing.T) {
	gormDB, err := Open("sqlite", filepath.Join(t.TempDir(), "blog.db"), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, Migrate(gormDB))
	for _, m := range model.All() {
		assert.True(t, gormDB.Migrator().HasTable(m))
	}

	// Migrating twice is a no-op.
	require.NoError(t, Migrate(gormDB))

	require.NoError(t, Reset(gormDB))
	for _, m := range model.All() {
		assert.False(t, gormDB.Migrator().HasTable(m))
	}
}

type foreignKey struct {
	Table    string `gorm:"column:table"`
	From     string `gorm:"column:from"`
	To       string `gorm:"column:to"`
	OnDelete string `gorm:"column:on_delete"`
}

func foreignKeys(t *testing.T, gormDB *gorm.DB, table string) []foreignKey {
	t.Helper()
	var fks []foreignKey
	require.NoError(t, gormDB.Raw("SELECT * FROM pragma_foreign_key_list(?)", table).Scan(&fks).Error)
	return fks
}

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := Open("sqlite", filepath.Join(t.TempDir(), "blog.db"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))
	return gormDB
}

func TestMigrate_ForeignKeysPointAtParents(t *testing.T) {
	gormDB := openMigrated(t)

	assert.Empty(t, foreignKeys(t, gormDB, "users"))
	assert.ElementsMatch(t, []foreignKey{
		{Table: "users", From: "user_id", To: "user_id", OnDelete: "CASCADE"},
	}, foreignKeys(t, gormDB, "posts"))
	assert.ElementsMatch(t, []foreignKey{
		{Table: "posts", From: "post_id", To: "post_id", OnDelete: "CASCADE"},
		{Table: "users", From: "user_id", To: "user_id", OnDelete: "CASCADE"},
	}, foreignKeys(t, gormDB, "comments"))
}

func TestOpen_SQLiteEnforcesForeignKeys(t *testing.T) {
	gormDB := openMigrated(t)

	orphan := &model.Comment{PostID: 42, UserID: 7, Text: "dangling"}
	err := gormDB.Create(orphan).Error
	assert.True(t, errors.Is(err, gorm.ErrForeignKeyViolated), "got %v", err)

	user := &model.User{FirstName: "Ada", EmailAddress: "ada@example.com", Password: "digest"}
	require.NoError(t, gormDB.Create(user).Error)
	post := &model.Post{UserID: user.UserID, Title: "T", Content: "C"}
	require.NoError(t, gormDB.Create(post).Error)
	comment := &model.Comment{PostID: post.PostID, UserID: user.UserID, Text: "first"}
	require.NoError(t, gormDB.Create(comment).Error)

	// Deleting the post outside the repository still removes its comments.
	require.NoError(t, gormDB.Exec("DELETE FROM posts WHERE post_id = ?", post.PostID).Error)
	var remaining int64
	require.NoError(t, gormDB.Model(&model.Comment{}).Where("post_id = ?", post.PostID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
