package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/covernet/covernet/internal/models"
)

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Update updates a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete removes a post and the link rows that reference it
func (r *PostRepository) Delete(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id = ? OR comment_id = ?", post.ID, post.ID).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("root_id = ? OR repost_id = ?", post.ID, post.ID).
			Delete(&models.Repost{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}

// Query returns the base query for post collections, newest first
func (r *PostRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Post{}).Order("created_at DESC")
}

// ByUserQuery returns posts authored by the given user, newest first
func (r *PostRepository) ByUserQuery(ctx context.Context, userID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
}

// ByIDsQuery returns posts whose ids appear in the given set
func (r *PostRepository) ByIDsQuery(ctx context.Context, ids []int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id IN ?", ids).
		Order("created_at DESC")
}

// CommentsQuery returns the comment posts attached to a parent post
func (r *PostRepository) CommentsQuery(ctx context.Context, parentID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN comments ON comments.comment_id = posts.id").
		Where("comments.parent_id = ?", parentID).
		Order("posts.created_at DESC")
}

// RepostsQuery returns the repost posts attached to a root post
func (r *PostRepository) RepostsQuery(ctx context.Context, rootID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN reposts ON reposts.repost_id = posts.id").
		Where("reposts.root_id = ?", rootID).
		Order("posts.created_at DESC")
}

// ListByUserOldestFirst returns every post by the user, oldest first. Used by
// the export task, which streams the full history in creation order.
func (r *PostRepository) ListByUserOldestFirst(ctx context.Context, userID int64) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountLikes counts likes on a post
func (r *PostRepository) CountLikes(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
