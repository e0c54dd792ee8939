package models

// Comment links a comment post to its parent post. Creating the link flips
// the comment post's is_comment flag inside the same transaction.
type Comment struct {
	ParentID  int64 `gorm:"primaryKey;column:parent_id"`
	CommentID int64 `gorm:"primaryKey;column:comment_id"`
	Audit

	Parent      *Post `gorm:"foreignKey:ParentID;references:ID"`
	CommentPost *Post `gorm:"foreignKey:CommentID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
