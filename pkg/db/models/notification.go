package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

// Notification is a user-facing alert, usually raised when a watched process
// gains movements or changes status.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	ProcessID *uuid.UUID             `gorm:"column:process_id;type:uuid;index"`
	Type      enums.NotificationType `gorm:"column:type;not null;default:'general'"`
	Title     string                 `gorm:"column:title;not null"`
	Message   string                 `gorm:"column:message;not null"`
	IsRead    bool                   `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
