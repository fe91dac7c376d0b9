package repository

import (
	"context"
	"time"

	"listing-radar/internal/database"
	"listing-radar/internal/domain/listing"

	"github.com/google/uuid"
)

type SourceRepository interface {
	List(ctx context.Context) ([]listing.Source, error)
	ListEnabled(ctx context.Context) ([]listing.Source, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	RecordCrawlResult(ctx context.Context, id uuid.UUID, crawledAt time.Time, lastError *string) error
}

type PostgresSourceRepository struct {
	db database.DB
}

func NewPostgresSourceRepository(db database.DB) *PostgresSourceRepository {
	return &PostgresSourceRepository{db: db}
}

const sourceColumns = `id, name, base_url, is_enabled, sort_order, last_crawl_at, last_error, created_at, updated_at`

func (r *PostgresSourceRepository) List(ctx context.Context) ([]listing.Source, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sourceColumns+` FROM sources ORDER BY sort_order, name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSources(rows)
}

// ListEnabled returns the enabled sources in stable crawl order. The
// orchestrator snapshots this set once per cycle; admin toggles during
// a cycle take effect on the next one.
func (r *PostgresSourceRepository) ListEnabled(ctx context.Context) ([]listing.Source, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE is_enabled ORDER BY sort_order, name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSources(rows)
}

func (r *PostgresSourceRepository) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE sources SET is_enabled = $2, updated_at = now() WHERE id = $1`,
		id, enabled,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresSourceRepository) RecordCrawlResult(ctx context.Context, id uuid.UUID, crawledAt time.Time, lastError *string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE sources SET last_crawl_at = $2, last_error = $3, updated_at = now() WHERE id = $1`,
		id, crawledAt.UTC(), lastError,
	)
	return err
}

func scanSources(rows database.Rows) ([]listing.Source, error) {
	out := make([]listing.Source, 0)
	for rows.Next() {
		var s listing.Source
		if err := rows.Scan(
			&s.ID, &s.Name, &s.BaseURL, &s.IsEnabled, &s.SortOrder,
			&s.LastCrawlAt, &s.LastError, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
