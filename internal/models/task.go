package models

// Task is a handle into the external job queue. The ID is the queue's job id,
// not a database sequence; completion is mirrored here for progress reporting.
type Task struct {
	ID          string `gorm:"primaryKey;type:varchar(36);column:id"`
	Name        string `gorm:"type:varchar(128);not null;index;column:name"`
	Description string `gorm:"type:varchar(128);column:description"`
	UserID      int64  `gorm:"not null;index;column:user_id"`
	Complete    bool   `gorm:"not null;default:false;column:complete"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// Task names
const (
	TaskExportPosts = "export_posts"
)
