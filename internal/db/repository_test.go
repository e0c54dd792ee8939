package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/covernet/covernet/internal/models"
)

// newTestRepository opens an in-memory database with the full schema. Error
// translation is enabled exactly as in New.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.Repost{},
		&models.Notification{},
		&models.Task{},
		&models.Group{},
		&models.Organization{},
		&models.ViolentTactic{},
		&models.NonviolentTactic{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	return NewRepository(gdb)
}

func testCtx() context.Context {
	return context.Background()
}

// seedUser creates a user through the repository so the self-follow row is
// present, as in production.
func seedUser(t *testing.T, repo *Repository, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
	}
	if err := NewUserRepository(repo).Create(testCtx(), user); err != nil {
		t.Fatalf("Failed to create user %q: %v", username, err)
	}
	return user
}

func seedPost(t *testing.T, repo *Repository, userID int64, body string) *models.Post {
	t.Helper()

	post := &models.Post{Body: body, Language: "en", UserID: userID}
	if err := NewPostRepository(repo).Create(testCtx(), post); err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	return post
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"translated sentinel", gorm.ErrDuplicatedKey, true},
		{"wrapped sentinel", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"raw unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"not found", gorm.ErrRecordNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateKey(tt.err); got != tt.want {
				t.Errorf("isDuplicateKey(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// A second insert hitting the composite primary key must come back as a
// duplicate, not an opaque driver error. This is the path taken when two
// concurrent requests pass the pre-checks for the same pair.
func TestDuplicateKeyTranslated(t *testing.T) {
	repo := newTestRepository(t)

	if err := repo.db.Create(&models.Follow{FollowerID: 7, FollowedID: 8}).Error; err != nil {
		t.Fatalf("Failed to create follow: %v", err)
	}

	err := repo.db.Create(&models.Follow{FollowerID: 7, FollowedID: 8}).Error
	if err == nil {
		t.Fatal("Expected error on duplicate composite key")
	}
	if !isDuplicateKey(err) {
		t.Errorf("Expected duplicate-key classification, got: %v", err)
	}
}
