package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

// SearchAttempt is the append-only log of judicial-records lookups a user
// has issued. Success and ErrorMessage are finalized once, at the end of the
// originating request.
type SearchAttempt struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Query        string           `gorm:"column:query;not null"`
	Kind         enums.SearchKind `gorm:"column:kind;not null"`
	Success      bool             `gorm:"column:success;not null;default:false"`
	ErrorMessage *string          `gorm:"column:error_message"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
}
