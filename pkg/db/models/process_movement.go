package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessMovement is one procedural step in a process timeline. Rows are
// fully replaced whenever the parent record refreshes.
type ProcessMovement struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProcessID    uuid.UUID  `gorm:"column:process_id;type:uuid;not null;index"`
	OccurredAt   *time.Time `gorm:"column:occurred_at"`
	Description  string     `gorm:"column:description;not null"`
	MovementType *string    `gorm:"column:movement_type"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
