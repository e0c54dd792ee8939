package models

import (
	"database/sql"
)

// Group represents an ethnolinguistic group. kgcId is the natural identifier
// supplied by the research dataset, not a generated sequence.
type Group struct {
	KgcID     int64         `gorm:"primaryKey;column:kgc_id"`
	GroupName string        `gorm:"type:varchar(255);not null;index;column:group_name"`
	Country   string        `gorm:"type:varchar(255);not null;column:country"`
	StartYear sql.NullInt64 `gorm:"column:start_year"`
	EndYear   sql.NullInt64 `gorm:"column:end_year"`
	Audit
}

// TableName specifies the table name for Group
func (Group) TableName() string {
	return "groups"
}
