package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatConversation groups assistant messages, optionally anchored to a process.
type ChatConversation struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	ProcessID *uuid.UUID `gorm:"column:process_id;type:uuid;index"`
	Title     string     `gorm:"column:title;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Messages []ChatMessage `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}
