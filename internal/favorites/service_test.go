package favorites

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
)

type fakeProcessReader struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.ProcessRecord, error)
}

func (f *fakeProcessReader) FindByID(ctx context.Context, id uuid.UUID) (*models.ProcessRecord, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func TestService_AddChecksProcessExists(t *testing.T) {
	db := setupFavoritesTestDB(t)
	record := mustCreateProcess(t, db, "0001234-56.2024.8.26.0100")

	reader := &fakeProcessReader{
		findByIDFn: func(_ context.Context, id uuid.UUID) (*models.ProcessRecord, error) {
			if id == record.ID {
				return record, nil
			}
			return nil, nil
		},
	}
	svc, err := NewService(ServiceParams{FavoritesRepo: NewRepository(db), ProcessRepo: reader})
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, svc.Add(context.Background(), userID, record.ID))
	require.NoError(t, svc.Add(context.Background(), userID, record.ID), "idempotent add")

	err = svc.Add(context.Background(), userID, uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestService_AddValidation(t *testing.T) {
	svc, err := NewService(ServiceParams{
		FavoritesRepo: NewRepository(setupFavoritesTestDB(t)),
		ProcessRepo:   &fakeProcessReader{},
	})
	require.NoError(t, err)

	assert.Error(t, svc.Add(context.Background(), uuid.Nil, uuid.New()))
	assert.Error(t, svc.Add(context.Background(), uuid.New(), uuid.Nil))
}

func TestService_RemoveReportsPriorState(t *testing.T) {
	db := setupFavoritesTestDB(t)
	record := mustCreateProcess(t, db, "0001234-56.2024.8.26.0100")
	repo := NewRepository(db)

	svc, err := NewService(ServiceParams{FavoritesRepo: repo, ProcessRepo: &fakeProcessReader{}})
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, repo.Add(context.Background(), userID, record.ID))

	removed, err := svc.Remove(context.Background(), userID, record.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove(context.Background(), userID, record.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestService_ListInvalidCursor(t *testing.T) {
	svc, err := NewService(ServiceParams{
		FavoritesRepo: NewRepository(setupFavoritesTestDB(t)),
		ProcessRepo:   &fakeProcessReader{},
	})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), uuid.New(), "bogus", 10)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestService_ListRoundTripsCursor(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(ServiceParams{FavoritesRepo: repo, ProcessRepo: &fakeProcessReader{}})
	require.NoError(t, err)

	ctx := context.Background()
	userID := uuid.New()
	for i := 0; i < 3; i++ {
		record := mustCreateProcess(t, db, uuid.NewString())
		require.NoError(t, repo.Add(ctx, userID, record.ID))
	}

	first, err := svc.List(ctx, userID, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.Cursor)

	second, err := svc.List(ctx, userID, first.Cursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.Cursor)
}
