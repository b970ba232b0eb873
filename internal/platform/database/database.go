// Package database provides PostgreSQL connection management via pgx.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// ParseURL validates a PostgreSQL connection URL.
func ParseURL(url string) (*pgxpool.Config, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL is empty")
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	return cfg, nil
}

// New creates a new database connection pool.
func New(ctx context.Context, url string, maxConns, minConns int) (*DB, error) {
	cfg, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = int32(maxConns)
	cfg.MinConns = int32(minConns)
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close shuts down the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// schema creates the activity library and session event tables. Durations
// are stored as the free text authors write ("10 mins").
var schema = []string{
	`CREATE TABLE IF NOT EXISTS lesson_activities (
		id          TEXT PRIMARY KEY,
		phase       TEXT NOT NULL CHECK (phase IN ('starter', 'main', 'plenary')),
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		duration    TEXT NOT NULL,
		subject     TEXT NOT NULL DEFAULT '',
		year_group  TEXT NOT NULL DEFAULT '',
		theme       TEXT,
		keywords    TEXT[] NOT NULL DEFAULT '{}',
		details     JSONB,
		position    INT NOT NULL DEFAULT 0,
		archived    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS lesson_activities_subject_idx
		ON lesson_activities (subject, year_group)`,
	`CREATE TABLE IF NOT EXISTS session_events (
		id         BIGSERIAL PRIMARY KEY,
		lesson_id  TEXT NOT NULL,
		class_id   TEXT,
		event_type TEXT NOT NULL,
		data       JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS session_events_lesson_idx
		ON session_events (lesson_id, created_at)`,
}

// Migrate creates any missing tables.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
