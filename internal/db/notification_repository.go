package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/covernet/covernet/internal/models"
)

// NotificationRepository provides notification-related database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// Replace writes the latest value for a named per-user counter. Any existing
// row with the same (user, name) is removed first, in the same transaction.
func (r *NotificationRepository) Replace(ctx context.Context, notif *models.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND name = ?", notif.UserID, notif.Name).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Create(notif).Error
	})
}

// ListSince returns a user's notifications newer than the given epoch
// timestamp, oldest first.
func (r *NotificationRepository) ListSince(ctx context.Context, userID int64, since float64) ([]*models.Notification, error) {
	var notifs []*models.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp > ?", userID, since).
		Order("timestamp ASC").
		Find(&notifs).Error; err != nil {
		return nil, err
	}
	return notifs, nil
}

// GetByName returns the current value of a named counter, or nil
func (r *NotificationRepository) GetByName(ctx context.Context, userID int64, name string) (*models.Notification, error) {
	var notif models.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&notif).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notif, nil
}

// TaskRepository provides task-handle database operations
type TaskRepository struct {
	*Repository
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(repo *Repository) *TaskRepository {
	return &TaskRepository{Repository: repo}
}

// GetByID retrieves a task by its job id
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// GetInProgress returns the user's running task with the given name, or nil
func (r *TaskRepository) GetInProgress(ctx context.Context, userID int64, name string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ? AND complete = ?", userID, name, false).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// ListByUser returns all tasks for a user
func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	var tasks []*models.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create creates a new task handle
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update updates a task handle
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}
