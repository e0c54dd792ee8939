package models

import (
	"time"
)

// Audit carries creation and modification timestamps. Embedded into every
// table instead of inherited; gorm fills both via autoCreateTime/autoUpdateTime.
type Audit struct {
	CreatedAt  time.Time `gorm:"not null;index;autoCreateTime;column:created_at"`
	ModifiedAt time.Time `gorm:"not null;index;autoUpdateTime;column:modified_at"`
}
