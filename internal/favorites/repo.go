package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/pagination"
)

// Repository encapsulates favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a favorite entry and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID, processID uuid.UUID) error {
	if userID == uuid.Nil || processID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO process_favorites (id, user_id, process_id) VALUES (?, ?, ?) ON CONFLICT (user_id, process_id) DO NOTHING`,
			uuid.New(), userID, processID).
		Error
}

// Remove deletes the user-process pin if it exists and reports whether a row
// was removed.
func (r *Repository) Remove(ctx context.Context, userID, processID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND process_id = ?", userID, processID).
		Delete(&models.ProcessFavorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsFavorite reports whether the user has pinned the process.
func (r *Repository) IsFavorite(ctx context.Context, userID, processID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProcessFavorite{}).
		Where("user_id = ? AND process_id = ?", userID, processID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns one page of the user's favorites, newest first, with the
// pinned process preloaded.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ProcessFavorite, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).
		Model(&models.ProcessFavorite{}).
		Preload("Process").
		Where("user_id = ?", userID)
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var favorites []models.ProcessFavorite
	if err := query.Order("created_at DESC, id DESC").Limit(buffered).Find(&favorites).Error; err != nil {
		return nil, nil, err
	}

	if len(favorites) > normalized {
		favorites = favorites[:normalized]
		last := favorites[len(favorites)-1]
		return favorites, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return favorites, nil, nil
}

// FavoritedProcessIDs returns the distinct set of processes pinned by any
// user. The refresh job uses it to bound its DataJud fan-out.
func (r *Repository) FavoritedProcessIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ProcessFavorite{}).
		Distinct("process_id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ids []uuid.UUID
	if err := query.Pluck("process_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UserIDsForProcess lists the users watching one process, for notification
// fan-out after a refresh detects changes.
func (r *Repository) UserIDsForProcess(ctx context.Context, processID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ProcessFavorite{}).
		Where("process_id = ?", processID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
