package services

import (
	"io"
	"log/slog"
	"testing"

	"threadline/internal/models"
	"threadline/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory SQLite database and migrates the full
// schema. The pool is pinned to one connection so every query sees the same
// in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Repost{},
		&models.Notification{},
	))
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       xid.New().String(),
		Email:    username + "@example.com",
		Username: username,
		Name:     username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User, text string, parentID *string) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:       xid.New().String(),
		AuthorID: author.ID,
		Text:     &text,
		ParentID: parentID,
	}
	require.NoError(t, db.Create(post).Error)
	if parentID != nil {
		require.NoError(t, db.Model(&models.Post{}).Where("id = ?", *parentID).
			UpdateColumn("reply_count", gorm.Expr("reply_count + 1")).Error)
	}
	return post
}

func reloadPost(t *testing.T, db *gorm.DB, id string) *models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, db.Where("id = ?", id).First(&post).Error)
	return &post
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	user, err := repositories.NewPostgresUserRepository(db).GetUserByID(id)
	require.NoError(t, err)
	return user
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&count).Error)
	return count
}
