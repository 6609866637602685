package processes

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProcessTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE IF NOT EXISTS process_parties (
  id TEXT PRIMARY KEY,
  process_id TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'outros',
  document TEXT,
  counsel TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS process_movements (
  id TEXT PRIMARY KEY,
  process_id TEXT NOT NULL,
  occurred_at DATETIME,
  description TEXT NOT NULL,
  movement_type TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS search_attempts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  query TEXT NOT NULL,
  kind TEXT NOT NULL,
  success INTEGER NOT NULL DEFAULT 0,
  error_message TEXT,
  created_at DATETIME
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}
