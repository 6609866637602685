package favorites

import (
	"context"

	"github.com/google/uuid"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
	"github.com/rafaeldtavares/juristrack-backend/pkg/pagination"
)

type processReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProcessRecord, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	FavoritesRepo *Repository
	ProcessRepo   processReader
}

// Service exposes business rules for the user's watch list.
type Service interface {
	Add(ctx context.Context, userID, processID uuid.UUID) error
	Remove(ctx context.Context, userID, processID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*ListResult, error)
	IsFavorite(ctx context.Context, userID, processID uuid.UUID) (bool, error)
}

// ListResult wraps one favorites page and the cursor for the next one.
type ListResult struct {
	Items  []models.ProcessFavorite `json:"items"`
	Cursor string                   `json:"cursor"`
}

type service struct {
	favoritesRepo *Repository
	processRepo   processReader
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoritesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
	}
	if params.ProcessRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "process repo is required")
	}
	return &service{
		favoritesRepo: params.FavoritesRepo,
		processRepo:   params.ProcessRepo,
	}, nil
}

// Add pins the process for the user. Re-adding an existing favorite is a
// no-op, not an error.
func (s *service) Add(ctx context.Context, userID, processID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if processID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "process id is required")
	}

	record, err := s.processRepo.FindByID(ctx, processID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load process")
	}
	if record == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "process not found")
	}

	return s.favoritesRepo.Add(ctx, userID, processID)
}

// Remove drops the pin regardless of prior state and reports whether it
// existed.
func (s *service) Remove(ctx context.Context, userID, processID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if processID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "process id is required")
	}
	return s.favoritesRepo.Remove(ctx, userID, processID)
}

// List returns the paginated watch list for the user.
func (s *service) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var decoded *pagination.Cursor
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		decoded = parsed
	}

	items, next, err := s.favoritesRepo.List(ctx, userID, decoded, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}

	nextCursor := ""
	if next != nil {
		nextCursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

// IsFavorite reports whether the user currently watches the process.
func (s *service) IsFavorite(ctx context.Context, userID, processID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || processID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id and process id are required")
	}
	return s.favoritesRepo.IsFavorite(ctx, userID, processID)
}
