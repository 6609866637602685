package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcessRecord is the locally persisted snapshot of a judicial process.
// RawPayload keeps the upstream document verbatim and is overwritten on every
// refresh; the flattened columns exist for querying and display.
type ProcessRecord struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProcessNumber    string           `gorm:"column:process_number;not null;uniqueIndex"`
	ExternalID       *string          `gorm:"column:external_id"`
	CourtCode        string           `gorm:"column:court_code;not null"`
	CourtName        *string          `gorm:"column:court_name"`
	CaseClass        *string          `gorm:"column:case_class"`
	Subject          *string          `gorm:"column:subject"`
	Value            *decimal.Decimal `gorm:"column:value;type:numeric(14,2)"`
	DistributionDate *time.Time       `gorm:"column:distribution_date;type:date"`
	Status           *string          `gorm:"column:status"`
	RawPayload       json.RawMessage  `gorm:"column:raw_payload;type:jsonb"`
	LastSyncAt       *time.Time       `gorm:"column:last_sync_at"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	Parties   []ProcessParty    `gorm:"foreignKey:ProcessID;constraint:OnDelete:CASCADE"`
	Movements []ProcessMovement `gorm:"foreignKey:ProcessID;constraint:OnDelete:CASCADE"`
}
