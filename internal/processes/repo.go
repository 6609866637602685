package processes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
)

// Repository handles process snapshot persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByNumber(ctx context.Context, processNumber string) (*models.ProcessRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProcessRecord, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProcessRecord, error)
	Create(ctx context.Context, record *models.ProcessRecord) error
	Update(ctx context.Context, record *models.ProcessRecord) error
	ReplaceParties(ctx context.Context, processID uuid.UUID, parties []models.ProcessParty) error
	ReplaceMovements(ctx context.Context, processID uuid.UUID, movements []models.ProcessMovement) error
	CountMovements(ctx context.Context, processID uuid.UUID) (int64, error)
	CreateSearchAttempt(ctx context.Context, attempt *models.SearchAttempt) error
	UpdateSearchAttempt(ctx context.Context, attempt *models.SearchAttempt) error
	ListSearchAttemptsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SearchAttempt, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a process repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByNumber(ctx context.Context, processNumber string) (*models.ProcessRecord, error) {
	var record models.ProcessRecord
	if err := r.db.WithContext(ctx).
		Preload("Parties").
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at DESC NULLS LAST")
		}).
		Where("process_number = ?", processNumber).
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProcessRecord, error) {
	var record models.ProcessRecord
	if err := r.db.WithContext(ctx).
		Preload("Parties").
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at DESC NULLS LAST")
		}).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProcessRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []models.ProcessRecord
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", ids).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Create(ctx context.Context, record *models.ProcessRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

// Update persists the record row only; children are managed through the
// Replace methods.
func (r *repository) Update(ctx context.Context, record *models.ProcessRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

func (r *repository) ReplaceParties(ctx context.Context, processID uuid.UUID, parties []models.ProcessParty) error {
	if err := r.db.WithContext(ctx).
		Where("process_id = ?", processID).
		Delete(&models.ProcessParty{}).Error; err != nil {
		return err
	}
	if len(parties) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&parties).Error
}

func (r *repository) ReplaceMovements(ctx context.Context, processID uuid.UUID, movements []models.ProcessMovement) error {
	if err := r.db.WithContext(ctx).
		Where("process_id = ?", processID).
		Delete(&models.ProcessMovement{}).Error; err != nil {
		return err
	}
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&movements).Error
}

func (r *repository) CountMovements(ctx context.Context, processID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProcessMovement{}).
		Where("process_id = ?", processID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CreateSearchAttempt(ctx context.Context, attempt *models.SearchAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *repository) UpdateSearchAttempt(ctx context.Context, attempt *models.SearchAttempt) error {
	return r.db.WithContext(ctx).Save(attempt).Error
}

func (r *repository) ListSearchAttemptsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SearchAttempt, error) {
	if limit <= 0 {
		limit = 50
	}
	var attempts []models.SearchAttempt
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
