package testutil

import (
	"testing"

	"github.com/drsdgdbye/user-panel/config"
	"github.com/drsdgdbye/user-panel/database"

	"gorm.io/gorm"
)

// OpenInMemoryDB initializes the shared database handle on a fresh in-memory
// SQLite database with the schema migrated and default roles seeded. The
// handle is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: "file:" + name + "?mode=memory&cache=shared"},
	}
	if err := database.InitDB(cfg); err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseDB() })
	return database.GetDB()
}
