package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// sqlDriverNames maps a configured store driver to its database/sql driver.
var sqlDriverNames = map[string]string{
	DriverSQLite:   "sqlite",
	DriverMySQL:    "mysql",
	DriverPostgres: "pgx",
}

// NewDB creates a new database connection pool for the given driver and DSN.
// For SQLite the DSN is a file path whose directory is created if needed.
func NewDB(driver, dsn string) (*sql.DB, error) {
	name, ok := sqlDriverNames[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	if driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		slog.Warn("database ping failed", "driver", driver, "error", err)
	}

	return db, nil
}

// OpenStore returns the SettingsStore for driver, migrating SQL schemas.
// The returned close func releases the underlying database, if any.
func OpenStore(ctx context.Context, driver, dsn string) (SettingsStore, func() error, error) {
	if driver == DriverMemory {
		return NewMemoryStore(), func() error { return nil }, nil
	}

	db, err := NewDB(driver, dsn)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewSettingsRepository(db, driver)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return repo, db.Close, nil
}
