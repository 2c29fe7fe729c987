// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver registered as "pgx"
	"github.com/vinovest/sqlx"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Open creates a new database connection and applies pending migrations.
// postgres:// and postgresql:// DSNs use pgx, everything else is treated as a SQLite path.
func Open(dsn string) (*sqlx.DB, error) {
	if isPostgres(dsn) {
		return openPostgres(dsn)
	}
	return openSQLite(dsn)
}

// Close closes the database connection.
func Close(db *sqlx.DB) error {
	return db.Close()
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openPostgres(dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := RunMigrations(conn.DB, DialectPostgres); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

func openSQLite(dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		dsn = "./data/app.db"
	}

	inMemory := isInMemory(dsn)

	// Create directory for file-based databases
	if !inMemory {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	dsn = addDefaultParams(dsn)

	conn, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}

	// Every connection to an in-memory database sees its own empty database.
	if inMemory {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
	}
	conn.SetConnMaxLifetime(time.Hour)

	ctx := context.Background()
	if err := configureSQLite(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := RunMigrations(conn.DB, DialectSQLite); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

func isInMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// addDefaultParams adds recommended SQLite parameters if not already present.
func addDefaultParams(dsn string) string {
	defaults := [][2]string{
		{"_txlock", "immediate"},
		{"_busy_timeout", "5000"},
		{"_foreign_keys", "on"},
	}

	for _, kv := range defaults {
		if !strings.Contains(dsn, kv[0]) {
			separator := "?"
			if strings.Contains(dsn, "?") {
				separator = "&"
			}
			dsn += separator + kv[0] + "=" + kv[1]
		}
	}

	return dsn
}

// configureSQLite sets PRAGMAs for optimal performance.
func configureSQLite(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA foreign_keys = ON",
		"PRAGMA cache_size = 2000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return err
		}
	}

	return nil
}
