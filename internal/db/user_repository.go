package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/covernet/covernet/internal/models"
)

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByToken retrieves a user by bearer token
func (r *UserRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create persists a new user together with its self-follow row. The
// self-follow invariant must hold for every user from the moment it exists.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicate
			}
			return err
		}
		selfFollow := &models.Follow{FollowerID: user.ID, FollowedID: user.ID}
		return tx.Create(selfFollow).Error
	})
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes a user and everything hanging off it: likes and follows on
// either side, notifications, tasks, link rows touching owned posts, and the
// owned posts themselves.
func (r *UserRepository) Delete(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownedPosts := tx.Model(&models.Post{}).Select("id").Where("user_id = ?", user.ID)

		if err := tx.Where("user_id = ? OR post_id IN (?)", user.ID, ownedPosts).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id IN (?) OR comment_id IN (?)", ownedPosts, ownedPosts).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("root_id IN (?) OR repost_id IN (?)", ownedPosts, ownedPosts).
			Delete(&models.Repost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", user.ID, user.ID).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}

// Query returns the base query for user collections
func (r *UserRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.User{}).Order("id ASC")
}

// FollowersQuery returns users following the given user, excluding itself
func (r *UserRepository) FollowersQuery(ctx context.Context, userID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ? AND follows.follower_id <> ?", userID, userID).
		Order("users.id ASC")
}

// FollowedQuery returns users the given user follows, excluding itself
func (r *UserRepository) FollowedQuery(ctx context.Context, userID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ? AND follows.followed_id <> ?", userID, userID).
		Order("users.id ASC")
}
