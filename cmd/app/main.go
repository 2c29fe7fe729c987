// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"

	"codeberg.org/oliverandrich/alumni-api/internal/config"
	"codeberg.org/oliverandrich/alumni-api/internal/database"
	"codeberg.org/oliverandrich/alumni-api/internal/server"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// Version information (set via ldflags during build)
var Version = "dev"

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:    "alumni-api",
		Usage:   "Start the alumni portal API",
		Version: Version,
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Manage database migrations",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Action: migrate(nil),
					},
					{
						Name:   "down",
						Usage:  "Roll back the last migration",
						Action: migrate(database.MigrateDown),
					},
					{
						Name:   "reset",
						Usage:  "Roll back all migrations",
						Action: migrate(database.MigrateReset),
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// migrate opens the database, which applies pending migrations, then runs fn.
func migrate(fn func(db *sql.DB, dialect string) error) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		cfg := config.NewFromCLI(cmd)

		db, err := database.Open(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = database.Close(db) }()

		if fn != nil {
			if err := fn(db.DB, database.DialectFor(db.DriverName())); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
		}
		slog.Info("migrations done", "command", cmd.Name)
		return nil
	}
}
