// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

// Goose dialect names.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func setup(dialect string) error {
	goose.SetBaseFS(embedMigrations)
	return goose.SetDialect(dialect)
}

// RunMigrations runs all pending goose migrations.
func RunMigrations(db *sql.DB, dialect string) error {
	if err := setup(dialect); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

// MigrateDown rolls back the last migration.
func MigrateDown(db *sql.DB, dialect string) error {
	if err := setup(dialect); err != nil {
		return err
	}
	return goose.Down(db, "migrations")
}

// MigrateReset rolls back all migrations.
func MigrateReset(db *sql.DB, dialect string) error {
	if err := setup(dialect); err != nil {
		return err
	}
	return goose.Reset(db, "migrations")
}

// DialectFor returns the goose dialect for a sqlx driver name.
func DialectFor(driverName string) string {
	if driverName == DriverPostgres {
		return DialectPostgres
	}
	return DialectSQLite
}
