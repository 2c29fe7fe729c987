// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/vinovest/sqlx"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// Repository wraps sqlx for database operations. Queries are written with ?
// placeholders and rebound for the active driver.
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying connection.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.db.ExecContext(ctx, r.db.Rebind(query), args...)
}

func (r *Repository) get(ctx context.Context, dest any, query string, args ...any) error {
	return wrapError(r.db.GetContext(ctx, dest, r.db.Rebind(query), args...))
}

func (r *Repository) list(ctx context.Context, dest any, query string, args ...any) error {
	return r.db.SelectContext(ctx, dest, r.db.Rebind(query), args...)
}

// execOne runs a statement that must touch exactly one row.
func (r *Repository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// wrapError converts sql errors to repository errors.
func wrapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, case-folded.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
