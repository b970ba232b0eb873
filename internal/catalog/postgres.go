package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/pai-planner/internal/lesson"
)

const dbTimeout = 5 * time.Second

// PostgresStore reads activities from the lesson_activities table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed content store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) FetchActivities(ctx context.Context) ([]lesson.Activity, error) {
	if s == nil || s.pool == nil {
		return nil, &ContentStoreError{Op: "fetch", Err: fmt.Errorf("pool is nil")}
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id, phase, title, description, duration, subject, year_group,
		        theme, keywords, details
		 FROM lesson_activities
		 WHERE NOT archived
		 ORDER BY position ASC, id ASC`,
	)
	if err != nil {
		return nil, &ContentStoreError{Op: "query activities", Err: err}
	}
	defer rows.Close()

	var out []lesson.Activity
	for rows.Next() {
		var r record
		var theme *string
		var details []byte
		if err := rows.Scan(
			&r.ID,
			&r.Phase,
			&r.Title,
			&r.Description,
			&r.Duration,
			&r.Subject,
			&r.YearGroup,
			&theme,
			&r.Keywords,
			&details,
		); err != nil {
			return nil, &ContentStoreError{Op: "scan activity", Err: err}
		}
		if theme != nil {
			r.Theme = *theme
		}
		if len(details) > 0 {
			r.Details = &lesson.Details{}
			if err := json.Unmarshal(details, r.Details); err != nil {
				slog.Warn("skipping activity with invalid details", "id", r.ID, "error", err)
				continue
			}
		}

		act, err := r.activity()
		if err != nil {
			slog.Warn("skipping invalid stored activity", "id", r.ID, "error", err)
			continue
		}
		out = append(out, act)
	}
	if err := rows.Err(); err != nil {
		return nil, &ContentStoreError{Op: "iterate activities", Err: err}
	}

	return out, nil
}

// SaveActivity inserts or updates an activity, keeping its free-text
// duration as minutes. The server only reads the table; SaveActivity is the
// seeding helper for loading authored content and for tests.
func (s *PostgresStore) SaveActivity(ctx context.Context, a lesson.Activity, position int) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var details any
	if a.Details != nil {
		b, err := json.Marshal(a.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		details = string(b)
	}
	phase, err := a.Phase().MarshalText()
	if err != nil {
		return err
	}
	keywords := a.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO lesson_activities
		   (id, phase, title, description, duration, subject, year_group, theme, keywords, details, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11)
		 ON CONFLICT (id) DO UPDATE SET
		   phase = EXCLUDED.phase,
		   title = EXCLUDED.title,
		   description = EXCLUDED.description,
		   duration = EXCLUDED.duration,
		   subject = EXCLUDED.subject,
		   year_group = EXCLUDED.year_group,
		   theme = EXCLUDED.theme,
		   keywords = EXCLUDED.keywords,
		   details = EXCLUDED.details,
		   position = EXCLUDED.position`,
		a.ID,
		string(phase),
		a.Title,
		a.Description,
		fmt.Sprintf("%d mins", a.DurationMinutes),
		a.Subject,
		a.YearGroup,
		nullIfEmpty(a.Theme),
		keywords,
		details,
		position,
	)
	if err != nil {
		return fmt.Errorf("save activity %s: %w", a.ID, err)
	}
	return nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
