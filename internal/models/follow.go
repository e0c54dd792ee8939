package models

// Follow represents a follow relationship. Every user also follows itself;
// the self-follow row simplifies feed queries and is created with the user.
type Follow struct {
	FollowerID int64 `gorm:"primaryKey;column:follower_id"`
	FollowedID int64 `gorm:"primaryKey;column:followed_id"`
	Audit

	Follower *User `gorm:"foreignKey:FollowerID;references:ID"`
	Followed *User `gorm:"foreignKey:FollowedID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
