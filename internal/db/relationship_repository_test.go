package db

import (
	"errors"
	"testing"

	"github.com/covernet/covernet/internal/models"
)

func TestFollowCreate(t *testing.T) {
	repo := newTestRepository(t)
	follows := NewFollowRepository(repo)

	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bob")

	if err := follows.Create(testCtx(), &models.Follow{FollowerID: alice.ID, FollowedID: bob.ID}); err != nil {
		t.Fatalf("Failed to create follow: %v", err)
	}

	err := follows.Create(testCtx(), &models.Follow{FollowerID: alice.ID, FollowedID: bob.ID})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate on second follow, got: %v", err)
	}

	var count int64
	if err := repo.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", alice.ID, bob.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("Failed to count follows: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one follow row, got %d", count)
	}

	err = follows.Create(testCtx(), &models.Follow{FollowerID: alice.ID, FollowedID: 9999})
	if !errors.Is(err, ErrMissingTarget) {
		t.Errorf("Expected ErrMissingTarget for unknown user, got: %v", err)
	}
}

func TestLikeCreate(t *testing.T) {
	repo := newTestRepository(t)
	likes := NewLikeRepository(repo)

	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bob")
	post := seedPost(t, repo, alice.ID, "hello")

	err := likes.Create(testCtx(), &models.Like{UserID: alice.ID, PostID: post.ID})
	if !errors.Is(err, ErrSelfLike) {
		t.Errorf("Expected ErrSelfLike for author liking own post, got: %v", err)
	}

	var count int64
	if err := repo.db.Model(&models.Like{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count likes: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no like rows after rejected self-like, got %d", count)
	}

	err = likes.Create(testCtx(), &models.Like{UserID: bob.ID, PostID: 9999})
	if !errors.Is(err, ErrMissingTarget) {
		t.Errorf("Expected ErrMissingTarget for unknown post, got: %v", err)
	}

	if err := likes.Create(testCtx(), &models.Like{UserID: bob.ID, PostID: post.ID}); err != nil {
		t.Fatalf("Failed to create like: %v", err)
	}
	err = likes.Create(testCtx(), &models.Like{UserID: bob.ID, PostID: post.ID})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate on second like, got: %v", err)
	}
}

func TestCommentCreateFlipsFlag(t *testing.T) {
	repo := newTestRepository(t)
	comments := NewCommentRepository(repo)

	alice := seedUser(t, repo, "alice")
	parent := seedPost(t, repo, alice.ID, "parent")
	child := seedPost(t, repo, alice.ID, "reply")

	if err := comments.Create(testCtx(), &models.Comment{ParentID: parent.ID, CommentID: child.ID}); err != nil {
		t.Fatalf("Failed to create comment link: %v", err)
	}

	var got models.Post
	if err := repo.db.First(&got, child.ID).Error; err != nil {
		t.Fatalf("Failed to reload child post: %v", err)
	}
	if !got.IsComment {
		t.Error("Expected is_comment flag on the child post after linking")
	}

	var gotParent models.Post
	if err := repo.db.First(&gotParent, parent.ID).Error; err != nil {
		t.Fatalf("Failed to reload parent post: %v", err)
	}
	if gotParent.IsComment {
		t.Error("Parent post must not be marked as a comment")
	}

	err := comments.Create(testCtx(), &models.Comment{ParentID: parent.ID, CommentID: 9999})
	if !errors.Is(err, ErrMissingTarget) {
		t.Errorf("Expected ErrMissingTarget for unknown child post, got: %v", err)
	}
}
