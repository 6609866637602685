package favorites

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/pagination"
)

func setupFavoritesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS process_records (
  id TEXT PRIMARY KEY,
  process_number TEXT NOT NULL UNIQUE,
  external_id TEXT,
  court_code TEXT NOT NULL DEFAULT '',
  court_name TEXT,
  case_class TEXT,
  subject TEXT,
  value NUMERIC,
  distribution_date DATE,
  status TEXT,
  raw_payload TEXT,
  last_sync_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS process_favorites (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  process_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, process_id)
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

func mustCreateProcess(t *testing.T, db *gorm.DB, number string) *models.ProcessRecord {
	t.Helper()
	record := &models.ProcessRecord{
		ID:            uuid.New(),
		ProcessNumber: number,
		CourtCode:     "TJSP",
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

func TestRepository_AddIsIdempotent(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	record := mustCreateProcess(t, db, "0001234-56.2024.8.26.0100")

	require.NoError(t, repo.Add(ctx, userID, record.ID))
	require.NoError(t, repo.Add(ctx, userID, record.ID), "re-adding must not error")

	var count int64
	require.NoError(t, db.Model(&models.ProcessFavorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_AddRejectsNilIDs(t *testing.T) {
	repo := NewRepository(setupFavoritesTestDB(t))
	assert.Error(t, repo.Add(context.Background(), uuid.Nil, uuid.New()))
	assert.Error(t, repo.Add(context.Background(), uuid.New(), uuid.Nil))
}

func TestRepository_Remove(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	record := mustCreateProcess(t, db, "0001234-56.2024.8.26.0100")
	require.NoError(t, repo.Add(ctx, userID, record.ID))

	removed, err := repo.Remove(ctx, userID, record.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, userID, record.ID)
	require.NoError(t, err)
	assert.False(t, removed, "removing a missing pin reports false, not an error")
}

func TestRepository_IsFavorite(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	record := mustCreateProcess(t, db, "0001234-56.2024.8.26.0100")

	pinned, err := repo.IsFavorite(ctx, userID, record.ID)
	require.NoError(t, err)
	assert.False(t, pinned)

	require.NoError(t, repo.Add(ctx, userID, record.ID))
	pinned, err = repo.IsFavorite(ctx, userID, record.ID)
	require.NoError(t, err)
	assert.True(t, pinned)
}

func TestRepository_ListPaginates(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		record := mustCreateProcess(t, db, fmt.Sprintf("000123%d-56.2024.8.26.0100", i))
		favorite := &models.ProcessFavorite{
			ID:        uuid.New(),
			UserID:    userID,
			ProcessID: record.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(favorite).Error)
	}

	firstPage, next, err := repo.List(ctx, userID, nil, 2)
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	require.NotNil(t, next)
	require.NotNil(t, firstPage[0].Process, "process must be preloaded")
	assert.True(t, firstPage[0].CreatedAt.After(firstPage[1].CreatedAt), "newest first")

	secondPage, next, err := repo.List(ctx, userID, next, 2)
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Nil(t, next)
}

func TestRepository_ListScopedToUser(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := mustCreateProcess(t, db, "0001234-56.2024.8.26.0100")
	require.NoError(t, repo.Add(ctx, uuid.New(), record.ID))

	items, _, err := repo.List(ctx, uuid.New(), (*pagination.Cursor)(nil), 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepository_FavoritedProcessIDs(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := mustCreateProcess(t, db, "0001234-56.2024.8.26.0100")
	other := mustCreateProcess(t, db, "0009999-56.2024.8.26.0100")

	// Two users pinning the same process must yield one id.
	require.NoError(t, repo.Add(ctx, uuid.New(), record.ID))
	require.NoError(t, repo.Add(ctx, uuid.New(), record.ID))
	require.NoError(t, repo.Add(ctx, uuid.New(), other.ID))

	ids, err := repo.FavoritedProcessIDs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestRepository_UserIDsForProcess(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := mustCreateProcess(t, db, "0001234-56.2024.8.26.0100")
	watcherA := uuid.New()
	watcherB := uuid.New()
	require.NoError(t, repo.Add(ctx, watcherA, record.ID))
	require.NoError(t, repo.Add(ctx, watcherB, record.ID))
	require.NoError(t, repo.Add(ctx, uuid.New(), mustCreateProcess(t, db, "0005678-56.2024.8.26.0100").ID))

	ids, err := repo.UserIDsForProcess(ctx, record.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{watcherA, watcherB}, ids)
}
