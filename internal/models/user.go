package models

import (
	"database/sql"
	"time"
)

// User represents a platform account
type User struct {
	ID                  int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Username            string         `gorm:"type:varchar(64);not null;uniqueIndex:users_username_ux;column:username"`
	Email               string         `gorm:"type:varchar(120);not null;uniqueIndex:users_email_ux;column:email"`
	Name                string         `gorm:"type:varchar(120);index;column:name"`
	PasswordHash        string         `gorm:"type:varchar(128);column:password_hash"`
	Token               sql.NullString `gorm:"type:varchar(64);uniqueIndex:users_token_ux;column:token"`
	TokenExpiration     sql.NullTime   `gorm:"column:token_expiration"`
	IsAdmin             bool           `gorm:"not null;default:false;column:is_admin"`
	LastUpdatesReadTime time.Time      `gorm:"not null;default:'1970-01-01 00:00:00';column:last_updates_read_time"`
	Audit
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// TokenValidAfter reports whether the user's token is still live after t.
func (u *User) TokenValidAfter(t time.Time) bool {
	return u.Token.Valid && u.TokenExpiration.Valid && u.TokenExpiration.Time.After(t)
}
