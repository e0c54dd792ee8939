package models

import (
	"database/sql"
)

// Post represents a user post. Comments and reposts are also posts; the
// is_comment/is_repost flags are flipped when the corresponding link row
// is created.
type Post struct {
	ID         int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Body       string         `gorm:"type:varchar(512);not null;column:body"`
	MediaURL   sql.NullString `gorm:"type:varchar(1024);column:media_url"`
	MediaClass sql.NullString `gorm:"type:varchar(64);column:media_class"`
	MediaType  sql.NullString `gorm:"type:varchar(64);column:media_type"`
	Language   string         `gorm:"type:varchar(5);not null;default:'en';column:language"`
	IsComment  bool           `gorm:"not null;default:false;column:is_comment"`
	IsRepost   bool           `gorm:"not null;default:false;column:is_repost"`
	UserID     int64          `gorm:"not null;index;column:user_id"`
	Audit

	Author *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
