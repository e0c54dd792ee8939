package db

import (
	"context"
	"time"

	"github.com/covernet/covernet/internal/models"
)

// FeedRepository pulls the raw event streams merged into the activity feed.
// Each query is scoped to events newer than the user's last read time.
type FeedRepository struct {
	*Repository
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(repo *Repository) *FeedRepository {
	return &FeedRepository{Repository: repo}
}

// NewFollows returns follows of the user since the given time, excluding the
// self-follow row.
func (r *FeedRepository) NewFollows(ctx context.Context, userID int64, since time.Time) ([]*models.Follow, error) {
	var follows []*models.Follow
	if err := r.db.WithContext(ctx).
		Where("followed_id = ? AND follower_id <> ? AND modified_at > ?", userID, userID, since).
		Find(&follows).Error; err != nil {
		return nil, err
	}
	return follows, nil
}

// NewLikes returns likes on the user's posts since the given time, excluding
// the user's own likes.
func (r *FeedRepository) NewLikes(ctx context.Context, userID int64, since time.Time) ([]*models.Like, error) {
	var likes []*models.Like
	if err := r.db.WithContext(ctx).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.user_id = ? AND likes.user_id <> ? AND likes.modified_at > ?", userID, userID, since).
		Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

// NewComments returns comment links on the user's posts since the given time
func (r *FeedRepository) NewComments(ctx context.Context, userID int64, since time.Time) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Joins("JOIN posts ON posts.id = comments.parent_id").
		Where("posts.user_id = ? AND comments.modified_at > ?", userID, since).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// NewReposts returns repost links on the user's posts since the given time
func (r *FeedRepository) NewReposts(ctx context.Context, userID int64, since time.Time) ([]*models.Repost, error) {
	var reposts []*models.Repost
	if err := r.db.WithContext(ctx).
		Joins("JOIN posts ON posts.id = reposts.root_id").
		Where("posts.user_id = ? AND reposts.modified_at > ?", userID, since).
		Find(&reposts).Error; err != nil {
		return nil, err
	}
	return reposts, nil
}
