package models

import (
	"database/sql"
)

// Organization represents an organization within an ethnolinguistic group.
// facId is the dataset's natural identifier.
type Organization struct {
	FacID     int64         `gorm:"primaryKey;column:fac_id"`
	KgcID     int64         `gorm:"not null;index;column:kgc_id"`
	FacName   string        `gorm:"type:varchar(767);not null;column:fac_name"`
	StartYear sql.NullInt64 `gorm:"column:start_year"`
	EndYear   sql.NullInt64 `gorm:"column:end_year"`
	Audit

	Group *Group `gorm:"foreignKey:KgcID;references:KgcID"`
}

// TableName specifies the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}
