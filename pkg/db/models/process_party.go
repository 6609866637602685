package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

// ProcessParty is one litigant attached to a process snapshot. Rows are fully
// replaced whenever the parent record refreshes.
type ProcessParty struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProcessID uuid.UUID       `gorm:"column:process_id;type:uuid;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Role      enums.PartyRole `gorm:"column:role;not null;default:'outros'"`
	Document  *string         `gorm:"column:document"`
	Counsel   *string         `gorm:"column:counsel"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
