package models

// Like represents a user liking a post. A user cannot like their own post.
type Like struct {
	UserID int64 `gorm:"primaryKey;column:user_id"`
	PostID int64 `gorm:"primaryKey;column:post_id"`
	Audit

	User *User `gorm:"foreignKey:UserID;references:ID"`
	Post *Post `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "likes"
}
