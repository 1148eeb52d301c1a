// Package db opens the relational store, applies versioned migrations and
// seeds the listing-only jobs.
package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/seeker/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects with the dialect named in cfg. Postgres gets a few retries
// to let the server come up.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	if cfg.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		var (
			gdb *gorm.DB
			err error
		)
		for i := 0; i < 5; i++ {
			gdb, err = gorm.Open(postgres.Open(cfg.DSN), gcfg)
			if err == nil {
				return gdb, nil
			}
			time.Sleep(2 * time.Second)
		}
		return nil, fmt.Errorf("open postgres: %w", err)
	case config.DriverSQLite, "":
		gdb, err := gorm.Open(sqlite.Open(SQLiteDSN(cfg.DSN)), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		// sqlite serialises writers; a single connection keeps shared-cache
		// in-memory databases free of table-lock errors.
		sqlDB.SetMaxOpenConns(1)
		return gdb, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN enables foreign keys and a busy timeout on a sqlite DSN.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=1&_busy_timeout=5000"
}

// Close releases the pooled connections.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

