package models

// Repost links a repost post to the root post it shares. Creating the link
// flips the repost post's is_repost flag inside the same transaction.
type Repost struct {
	RootID   int64 `gorm:"primaryKey;column:root_id"`
	RepostID int64 `gorm:"primaryKey;column:repost_id"`
	Audit

	Root       *Post `gorm:"foreignKey:RootID;references:ID"`
	RepostPost *Post `gorm:"foreignKey:RepostID;references:ID"`
}

// TableName specifies the table name for Repost
func (Repost) TableName() string {
	return "reposts"
}
