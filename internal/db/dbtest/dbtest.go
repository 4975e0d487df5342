// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"surveydesk/internal/config"
	"surveydesk/internal/db"
)

// New returns a migrated database backed by a file in t.TempDir, closed on cleanup.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := config.DBConfig{
		Driver: config.DriverSQLite,
		Name:   filepath.Join(t.TempDir(), "surveys.db"),
	}
	gormDB, err := db.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gormDB) })
	return gormDB
}
