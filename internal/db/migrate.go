package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/diewo77/seeker/internal/logging"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// ErrUnsupportedDialect is returned by Migrate for dialects without migrations.
var ErrUnsupportedDialect = errors.New("no migrations for dialect")

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration for the connection's dialect.
// Applied versions are tracked in goose_db_version, so reruns are no-ops.
func Migrate(ctx context.Context, gdb *gorm.DB, log logging.Logger) error {
	var dir, dialect string
	switch gdb.Dialector.Name() {
	case "sqlite":
		dir, dialect = "migrations/sqlite", "sqlite3"
	case "postgres":
		dir, dialect = "migrations/postgres", "postgres"
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDialect, gdb.Dialector.Name())
	}
	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{ctx: ctx, log: log})
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err == nil {
		log.Info(ctx, "migrations applied", "dialect", dialect, "version", version)
	}
	return nil
}

// gooseLogger routes goose output through the application logger.
type gooseLogger struct {
	ctx context.Context
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(g.ctx, fmt.Sprintf(format, v...), "component", "goose")
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(g.ctx, fmt.Sprintf(format, v...), "component", "goose")
}
