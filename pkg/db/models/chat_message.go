package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

// ChatMessage is one turn inside a conversation.
type ChatMessage struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ConversationID uuid.UUID      `gorm:"column:conversation_id;type:uuid;not null;index"`
	Role           enums.ChatRole `gorm:"column:role;not null"`
	Content        string         `gorm:"column:content;not null"`
	TokensUsed     int            `gorm:"column:tokens_used;not null;default:0"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
}
