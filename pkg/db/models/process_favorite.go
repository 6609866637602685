package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessFavorite pins a process to a user's watch list.
type ProcessFavorite struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_favorite_user_process"`
	ProcessID uuid.UUID `gorm:"column:process_id;type:uuid;not null;uniqueIndex:idx_favorite_user_process"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Process *ProcessRecord `gorm:"foreignKey:ProcessID"`
}
