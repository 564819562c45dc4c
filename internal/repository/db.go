package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// NewDB creates a new MySQL database connection pool with the given DSN.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// WaitForDB pings the database until it responds or the context is done.
// Useful when the API container starts before the database is ready to
// accept connections.
func WaitForDB(ctx context.Context, db *sql.DB) error {
	delay := time.Second
	for {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}

		slog.Warn("database unavailable, retrying", "delay", delay.String(), "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		if delay < 10*time.Second {
			delay *= 2
		}
	}
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
