package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/pagination"
)

// Repository exposes persistence helpers for assistant conversations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateConversation(ctx context.Context, conversation *models.ChatConversation) error
	FindConversationByID(ctx context.Context, id uuid.UUID) (*models.ChatConversation, error)
	ListConversationsByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ChatConversation, *pagination.Cursor, error)
	DeleteConversation(ctx context.Context, id uuid.UUID) error
	TouchConversation(ctx context.Context, id uuid.UUID) error
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a chat repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateConversation(ctx context.Context, conversation *models.ChatConversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *repositoryImpl) FindConversationByID(ctx context.Context, id uuid.UUID) (*models.ChatConversation, error) {
	var conversation models.ChatConversation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&conversation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *repositoryImpl) ListConversationsByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ChatConversation, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).
		Model(&models.ChatConversation{}).
		Where("user_id = ?", userID)
	if cursor != nil {
		query = query.Where("(updated_at < ?) OR (updated_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var conversations []models.ChatConversation
	if err := query.Order("updated_at DESC, id DESC").Limit(buffered).Find(&conversations).Error; err != nil {
		return nil, nil, err
	}

	if len(conversations) > normalized {
		next := conversations[normalized]
		conversations = conversations[:normalized]
		return conversations, &pagination.Cursor{CreatedAt: next.UpdatedAt, ID: next.ID}, nil
	}
	return conversations, nil, nil
}

func (r *repositoryImpl) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", id).
		Delete(&models.ChatMessage{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ChatConversation{}).Error
}

func (r *repositoryImpl) TouchConversation(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ChatConversation{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *repositoryImpl) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repositoryImpl) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
