package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProcessRecordsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_process_records.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no process records migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS process_records",
		"raw_payload JSONB",
		"CHECK (value >= 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_process_records_number",
		"DROP TABLE IF EXISTS process_records",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestChildTableMigrationsCascade(t *testing.T) {
	for _, name := range []string{"process_parties", "process_movements", "chat_messages"} {
		matches, err := filepath.Glob(filepath.Join("migrations", "*_create_"+name+".sql"))
		if err != nil {
			t.Fatalf("glob migrations: %v", err)
		}
		if len(matches) == 0 {
			t.Fatalf("no %s migration file found", name)
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		if !strings.Contains(string(data), "ON DELETE CASCADE") {
			t.Errorf("%s migration should cascade deletes from its parent", name)
		}
	}
}
