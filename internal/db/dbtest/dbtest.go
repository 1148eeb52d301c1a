// Package dbtest opens migrated in-memory sqlite databases for tests.
package dbtest

import (
	"context"
	"strings"
	"testing"

	"github.com/diewo77/seeker/internal/config"
	"github.com/diewo77/seeker/internal/db"
	"github.com/diewo77/seeker/internal/logging"
	"gorm.io/gorm"
)

// Open returns a fresh, fully migrated database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared"
	gdb, err := db.Open(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	if err := db.Migrate(context.Background(), gdb, logging.Discard()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}
