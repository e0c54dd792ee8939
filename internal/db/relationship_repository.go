package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/covernet/covernet/internal/models"
)

// FollowRepository provides follow-related database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Get retrieves a follow by its composite key
func (r *FollowRepository) Get(ctx context.Context, followerID, followedID int64) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &follow, nil
}

// Create inserts a follow after checking the target user exists and the pair
// is not already present. The composite primary key backs the duplicate check
// against concurrent requests.
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", follow.FollowedID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrMissingTarget
	}

	existing, err := r.Get(ctx, follow.FollowerID, follow.FollowedID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicate
	}

	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Touch refreshes the follow's modification timestamp. Identity fields of a
// link row never change.
func (r *FollowRepository) Touch(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Save(follow).Error
}

// Delete removes a follow
func (r *FollowRepository) Delete(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).
		Delete(&models.Follow{}).Error
}

// Query returns the base query for follow collections
func (r *FollowRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Follow{}).
		Order("follower_id ASC, followed_id ASC")
}

// LikeRepository provides like-related database operations
type LikeRepository struct {
	*Repository
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(repo *Repository) *LikeRepository {
	return &LikeRepository{Repository: repo}
}

// Get retrieves a like by its composite key
func (r *LikeRepository) Get(ctx context.Context, userID, postID int64) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

// Create inserts a like after checking the post exists, the liker is not its
// author, and the pair is not already present.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, like.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMissingTarget
		}
		return err
	}
	if post.UserID == like.UserID {
		return ErrSelfLike
	}

	existing, err := r.Get(ctx, like.UserID, like.PostID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicate
	}

	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Touch refreshes the like's modification timestamp
func (r *LikeRepository) Touch(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Save(like).Error
}

// Delete removes a like
func (r *LikeRepository) Delete(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", like.UserID, like.PostID).
		Delete(&models.Like{}).Error
}

// Query returns the base query for like collections
func (r *LikeRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Like{}).
		Order("created_at DESC")
}

// ForPostQuery returns likes on the given post
func (r *LikeRepository) ForPostQuery(ctx context.Context, postID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Order("created_at DESC")
}

// CommentRepository provides comment-link database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// Get retrieves a comment link by its composite key
func (r *CommentRepository) Get(ctx context.Context, parentID, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).
		Where("parent_id = ? AND comment_id = ?", parentID, commentID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create inserts a comment link and flips the comment post's is_comment flag
// in the same transaction. Both referenced posts must already exist.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id IN ?", []int64{comment.ParentID, comment.CommentID}).
		Count(&count).Error; err != nil {
		return err
	}
	if count != 2 {
		return ErrMissingTarget
	}

	existing, err := r.Get(ctx, comment.ParentID, comment.CommentID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicate
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicate
			}
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.CommentID).
			Update("is_comment", true).Error
	})
}

// Touch refreshes the comment link's modification timestamp
func (r *CommentRepository) Touch(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// Delete removes a comment link. The is_comment flag on the child post is
// left as-is even when no other link remains.
func (r *CommentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).
		Where("parent_id = ? AND comment_id = ?", comment.ParentID, comment.CommentID).
		Delete(&models.Comment{}).Error
}

// Query returns the base query for comment-link collections
func (r *CommentRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Comment{}).
		Order("created_at DESC")
}

// RepostRepository provides repost-link database operations
type RepostRepository struct {
	*Repository
}

// NewRepostRepository creates a new repost repository
func NewRepostRepository(repo *Repository) *RepostRepository {
	return &RepostRepository{Repository: repo}
}

// Get retrieves a repost link by its composite key
func (r *RepostRepository) Get(ctx context.Context, rootID, repostID int64) (*models.Repost, error) {
	var repost models.Repost
	if err := r.db.WithContext(ctx).
		Where("root_id = ? AND repost_id = ?", rootID, repostID).
		First(&repost).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &repost, nil
}

// Create inserts a repost link and flips the repost post's is_repost flag in
// the same transaction. Both referenced posts must already exist.
func (r *RepostRepository) Create(ctx context.Context, repost *models.Repost) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id IN ?", []int64{repost.RootID, repost.RepostID}).
		Count(&count).Error; err != nil {
		return err
	}
	if count != 2 {
		return ErrMissingTarget
	}

	existing, err := r.Get(ctx, repost.RootID, repost.RepostID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicate
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(repost).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicate
			}
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", repost.RepostID).
			Update("is_repost", true).Error
	})
}

// Touch refreshes the repost link's modification timestamp
func (r *RepostRepository) Touch(ctx context.Context, repost *models.Repost) error {
	return r.db.WithContext(ctx).Save(repost).Error
}

// Delete removes a repost link. The is_repost flag on the child post is left
// as-is even when no other link remains.
func (r *RepostRepository) Delete(ctx context.Context, repost *models.Repost) error {
	return r.db.WithContext(ctx).
		Where("root_id = ? AND repost_id = ?", repost.RootID, repost.RepostID).
		Delete(&models.Repost{}).Error
}

// Query returns the base query for repost-link collections
func (r *RepostRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Repost{}).
		Order("created_at DESC")
}
