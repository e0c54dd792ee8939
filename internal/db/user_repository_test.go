package db

import (
	"errors"
	"testing"

	"github.com/covernet/covernet/internal/models"
)

func TestUserCreateSelfFollow(t *testing.T) {
	repo := newTestRepository(t)
	alice := seedUser(t, repo, "alice")

	follow, err := NewFollowRepository(repo).Get(testCtx(), alice.ID, alice.ID)
	if err != nil {
		t.Fatalf("Failed to load self-follow: %v", err)
	}
	if follow == nil {
		t.Error("Expected self-follow row from the moment the user exists")
	}
}

func TestUserCreateDuplicate(t *testing.T) {
	repo := newTestRepository(t)
	seedUser(t, repo, "alice")

	err := NewUserRepository(repo).Create(testCtx(), &models.User{
		Username: "alice",
		Email:    "other@example.com",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate for taken username, got: %v", err)
	}
}

func TestUserDeleteCascade(t *testing.T) {
	repo := newTestRepository(t)
	users := NewUserRepository(repo)

	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bob")

	post := seedPost(t, repo, alice.ID, "soon gone")
	bobPost := seedPost(t, repo, bob.ID, "stays")
	reply := seedPost(t, repo, bob.ID, "reply to alice")

	ctx := testCtx()
	if err := NewLikeRepository(repo).Create(ctx, &models.Like{UserID: bob.ID, PostID: post.ID}); err != nil {
		t.Fatalf("Failed to create like: %v", err)
	}
	if err := NewFollowRepository(repo).Create(ctx, &models.Follow{FollowerID: bob.ID, FollowedID: alice.ID}); err != nil {
		t.Fatalf("Failed to create follow: %v", err)
	}
	if err := NewCommentRepository(repo).Create(ctx, &models.Comment{ParentID: post.ID, CommentID: reply.ID}); err != nil {
		t.Fatalf("Failed to create comment link: %v", err)
	}
	if err := NewNotificationRepository(repo).Replace(ctx, &models.Notification{
		Name: models.NotifyLikeCount, UserID: alice.ID, Timestamp: 1, Payload: "1",
	}); err != nil {
		t.Fatalf("Failed to create notification: %v", err)
	}
	if err := NewTaskRepository(repo).Create(ctx, &models.Task{
		ID: "job-1", Name: models.TaskExportPosts, UserID: alice.ID,
	}); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	if err := users.Delete(ctx, alice); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	counts := []struct {
		name  string
		model interface{}
		where string
		args  []interface{}
	}{
		{"posts", &models.Post{}, "user_id = ?", []interface{}{alice.ID}},
		{"likes on owned posts", &models.Like{}, "post_id = ?", []interface{}{post.ID}},
		{"comment links on owned posts", &models.Comment{}, "parent_id = ?", []interface{}{post.ID}},
		{"follows", &models.Follow{}, "follower_id = ? OR followed_id = ?", []interface{}{alice.ID, alice.ID}},
		{"notifications", &models.Notification{}, "user_id = ?", []interface{}{alice.ID}},
		{"tasks", &models.Task{}, "user_id = ?", []interface{}{alice.ID}},
	}
	for _, tc := range counts {
		var count int64
		if err := repo.db.Model(tc.model).Where(tc.where, tc.args...).Count(&count).Error; err != nil {
			t.Fatalf("Failed to count %s: %v", tc.name, err)
		}
		if count != 0 {
			t.Errorf("Expected no %s after cascade delete, got %d", tc.name, count)
		}
	}

	survivor, err := users.GetByID(ctx, bob.ID)
	if err != nil || survivor == nil {
		t.Fatalf("Expected bob to survive, got user=%v err=%v", survivor, err)
	}
	remaining, err := NewPostRepository(repo).GetByID(ctx, bobPost.ID)
	if err != nil || remaining == nil {
		t.Fatalf("Expected bob's post to survive, got post=%v err=%v", remaining, err)
	}
	selfFollow, err := NewFollowRepository(repo).Get(ctx, bob.ID, bob.ID)
	if err != nil || selfFollow == nil {
		t.Fatalf("Expected bob's self-follow to survive, got follow=%v err=%v", selfFollow, err)
	}
}
