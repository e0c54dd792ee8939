package models

// Notification is the latest value for a named per-user counter, not a log.
// Writing a notification replaces any existing row with the same (user, name).
type Notification struct {
	ID        int64   `gorm:"primaryKey;autoIncrement;column:id"`
	Name      string  `gorm:"type:varchar(128);not null;index;column:name"`
	UserID    int64   `gorm:"not null;index;column:user_id"`
	Timestamp float64 `gorm:"not null;index;column:timestamp"`
	Payload   string  `gorm:"type:text;not null;column:payload"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// Notification counter names
const (
	NotifyFollowCount  = "unread_follow_count"
	NotifyLikeCount    = "unread_like_count"
	NotifyCommentCount = "unread_comment_count"
	NotifyRepostCount  = "unread_repost_count"
	NotifyTaskProgress = "task_progress"
)
