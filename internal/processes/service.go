package processes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafaeldtavares/juristrack-backend/internal/datajud"
	"github.com/rafaeldtavares/juristrack-backend/pkg/db"
	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
)

// staleAfter bounds how long a stored snapshot is served without re-fetching.
const staleAfter = time.Hour

const searchHistoryLimit = 50

// Searcher is the slice of the DataJud client the service depends on.
type Searcher interface {
	SearchByNumber(ctx context.Context, rawNumber string) (*datajud.SearchResult, error)
	SearchByCourt(ctx context.Context, court string, limit int) ([]datajud.Document, error)
	SearchByParty(ctx context.Context, name, partyType string) ([]datajud.Document, error)
	ProcessDetails(ctx context.Context, processID string) (datajud.Document, error)
	Courts(ctx context.Context) ([]datajud.Court, error)
}

// ServiceParams groups dependencies for the process service.
type ServiceParams struct {
	Repo     Repository
	DB       *db.Client
	Searcher Searcher
	Logger   *logger.Logger
}

// Service coordinates DataJud lookups with local snapshot persistence.
type Service struct {
	repo     Repository
	db       *db.Client
	searcher Searcher
	logg     *logger.Logger
}

// NewService builds a process service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.DB == nil {
		return nil, errors.New("db client is required")
	}
	if params.Searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{
		repo:     params.Repo,
		db:       params.DB,
		searcher: params.Searcher,
		logg:     params.Logger,
	}, nil
}

// SearchByNumber looks a process up by its CNJ number, persists the snapshot
// and logs the attempt. The attempt outcome is finalized whether or not the
// lookup succeeds.
func (s *Service) SearchByNumber(ctx context.Context, userID uuid.UUID, rawNumber string) (*models.ProcessRecord, error) {
	number, err := datajud.FormatNumber(rawNumber)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithProcessNumber(ctx, number)
	attempt := s.beginAttempt(ctx, userID, number, enums.SearchKindNumber)

	record, err := s.lookupByNumber(ctx, number)
	s.finishAttempt(ctx, attempt, err)
	return record, err
}

func (s *Service) lookupByNumber(ctx context.Context, number string) (*models.ProcessRecord, error) {
	existing, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil && !s.isStale(existing) {
		return existing, nil
	}

	result, err := s.searcher.SearchByNumber(ctx, number)
	if err != nil {
		// A stale local snapshot still beats an upstream outage.
		if existing != nil && pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeDependency {
			s.logg.Warn(ctx, fmt.Sprintf("processes: serving stale snapshot, refresh failed: %v", err))
			return existing, nil
		}
		return nil, err
	}

	return s.Upsert(ctx, number, result.Document, result.Court)
}

// SearchByParty fans the query out upstream and persists every returned
// document that carries a process number.
func (s *Service) SearchByParty(ctx context.Context, userID uuid.UUID, name, partyType string) ([]models.ProcessRecord, error) {
	attempt := s.beginAttempt(ctx, userID, name, enums.SearchKindParty)

	records, err := s.storeSearchDocuments(ctx, func(ctx context.Context) ([]datajud.Document, error) {
		return s.searcher.SearchByParty(ctx, name, partyType)
	})
	s.finishAttempt(ctx, attempt, err)
	return records, err
}

// SearchByCourt lists recent processes from one court and persists them.
func (s *Service) SearchByCourt(ctx context.Context, userID uuid.UUID, court string, limit int) ([]models.ProcessRecord, error) {
	attempt := s.beginAttempt(ctx, userID, court, enums.SearchKindCourt)

	records, err := s.storeSearchDocuments(ctx, func(ctx context.Context) ([]datajud.Document, error) {
		return s.searcher.SearchByCourt(ctx, court, limit)
	})
	s.finishAttempt(ctx, attempt, err)
	return records, err
}

func (s *Service) storeSearchDocuments(ctx context.Context, fetch func(context.Context) ([]datajud.Document, error)) ([]models.ProcessRecord, error) {
	docs, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]models.ProcessRecord, 0, len(docs))
	for _, doc := range docs {
		number, ok := documentNumber(doc)
		if !ok {
			continue
		}
		record, err := s.Upsert(ctx, number, doc, "")
		if err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("processes: skipping unpersistable document %s: %v", number, err))
			continue
		}
		records = append(records, *record)
	}
	return records, nil
}

// Details returns a stored record by id, re-fetching live data first when the
// snapshot has gone stale. Refresh failures fall back to the stored snapshot.
func (s *Service) Details(ctx context.Context, id uuid.UUID) (*models.ProcessRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "process not found")
	}
	if !s.isStale(record) {
		return record, nil
	}

	refreshed, err := s.Refresh(ctx, record)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("processes: detail refresh failed for %s: %v", record.ProcessNumber, err))
		return record, nil
	}
	return refreshed, nil
}

// Refresh re-fetches one stored record from DataJud and upserts the result.
func (s *Service) Refresh(ctx context.Context, record *models.ProcessRecord) (*models.ProcessRecord, error) {
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record is required")
	}

	if record.ExternalID != nil && *record.ExternalID != "" {
		doc, err := s.searcher.ProcessDetails(ctx, *record.ExternalID)
		if err == nil {
			return s.Upsert(ctx, record.ProcessNumber, doc, record.CourtCode)
		}
		s.logg.Warn(ctx, fmt.Sprintf("processes: detail fetch failed for %s, retrying by number: %v", record.ProcessNumber, err))
	}

	result, err := s.searcher.SearchByNumber(ctx, record.ProcessNumber)
	if err != nil {
		return nil, err
	}
	return s.Upsert(ctx, record.ProcessNumber, result.Document, result.Court)
}

// Upsert flattens one upstream document and persists it under the process
// number. The record row and both child collections are written in a single
// transaction; parties and movements are fully replaced.
func (s *Service) Upsert(ctx context.Context, processNumber string, doc datajud.Document, courtCode string) (*models.ProcessRecord, error) {
	normalized, err := ParsePayload(doc)
	if err != nil {
		return nil, err
	}

	var saved *models.ProcessRecord
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindByNumber(ctx, processNumber)
		if err != nil {
			return err
		}

		created := record == nil
		if created {
			record = &models.ProcessRecord{ID: uuid.New(), ProcessNumber: processNumber}
		}

		normalized.Apply(record)
		if record.CourtCode == "" {
			record.CourtCode = courtCode
		}
		now := time.Now().UTC()
		record.LastSyncAt = &now

		if created {
			if err := repo.Create(ctx, record); err != nil {
				return err
			}
		} else if err := repo.Update(ctx, record); err != nil {
			return err
		}

		if err := repo.ReplaceParties(ctx, record.ID, buildParties(record.ID, normalized.Parties)); err != nil {
			return err
		}
		if err := repo.ReplaceMovements(ctx, record.ID, buildMovements(record.ID, normalized.Movements)); err != nil {
			return err
		}

		saved, err = repo.FindByNumber(ctx, processNumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// UserSearchHistory returns the user's latest lookups, newest first.
func (s *Service) UserSearchHistory(ctx context.Context, userID uuid.UUID) ([]models.SearchAttempt, error) {
	return s.repo.ListSearchAttemptsByUser(ctx, userID, searchHistoryLimit)
}

// CourtsList exposes the searchable court catalog.
func (s *Service) CourtsList(ctx context.Context) ([]datajud.Court, error) {
	return s.searcher.Courts(ctx)
}

func (s *Service) isStale(record *models.ProcessRecord) bool {
	return record.LastSyncAt == nil || time.Since(*record.LastSyncAt) > staleAfter
}

func (s *Service) beginAttempt(ctx context.Context, userID uuid.UUID, query string, kind enums.SearchKind) *models.SearchAttempt {
	attempt := &models.SearchAttempt{
		ID:     uuid.New(),
		UserID: userID,
		Query:  query,
		Kind:   kind,
	}
	if err := s.repo.CreateSearchAttempt(ctx, attempt); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("processes: recording search attempt failed: %v", err))
		return nil
	}
	return attempt
}

func (s *Service) finishAttempt(ctx context.Context, attempt *models.SearchAttempt, result error) {
	if attempt == nil {
		return
	}
	attempt.Success = result == nil
	if result != nil {
		msg := result.Error()
		attempt.ErrorMessage = &msg
	}
	if err := s.repo.UpdateSearchAttempt(ctx, attempt); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("processes: finalizing search attempt failed: %v", err))
	}
}

func buildParties(processID uuid.UUID, inputs []PartyInput) []models.ProcessParty {
	parties := make([]models.ProcessParty, 0, len(inputs))
	for _, input := range inputs {
		parties = append(parties, models.ProcessParty{
			ID:        uuid.New(),
			ProcessID: processID,
			Name:      input.Name,
			Role:      input.Role,
			Document:  input.Document,
			Counsel:   input.Counsel,
		})
	}
	return parties
}

func buildMovements(processID uuid.UUID, inputs []MovementInput) []models.ProcessMovement {
	movements := make([]models.ProcessMovement, 0, len(inputs))
	for _, input := range inputs {
		movements = append(movements, models.ProcessMovement{
			ID:           uuid.New(),
			ProcessID:    processID,
			OccurredAt:   input.OccurredAt,
			Description:  input.Description,
			MovementType: input.MovementType,
		})
	}
	return movements
}

func documentNumber(doc datajud.Document) (string, bool) {
	var envelope struct {
		Number string `json:"numeroProcesso"`
	}
	if err := json.Unmarshal(doc, &envelope); err != nil || envelope.Number == "" {
		return "", false
	}
	number, err := datajud.FormatNumber(envelope.Number)
	if err != nil {
		return "", false
	}
	return number, true
}
