package repository

import (
	"context"

	"listing-radar/internal/database"
	"listing-radar/internal/domain/listing"

	"github.com/google/uuid"
)

type CrawlRunRepository interface {
	Insert(ctx context.Context, run listing.CrawlRun) error
	// ListRecent returns up to limit runs, most recent first
	// (completed_at desc, id desc as the tie-break).
	ListRecent(ctx context.Context, limit int) ([]listing.CrawlRun, error)
}

type PostgresCrawlRunRepository struct {
	db database.DB
}

func NewPostgresCrawlRunRepository(db database.DB) *PostgresCrawlRunRepository {
	return &PostgresCrawlRunRepository{db: db}
}

func (r *PostgresCrawlRunRepository) Insert(ctx context.Context, run listing.CrawlRun) error {
	id := run.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO crawl_runs (
			id, started_at, completed_at, duration_seconds,
			sources_attempted, sources_succeeded, sources_failed,
			total_listings, new_matches, duplicate_matches, is_success, trigger_kind
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		id, run.StartedAt.UTC(), run.CompletedAt.UTC(), run.DurationSeconds,
		run.SourcesAttempted, run.SourcesSucceeded, run.SourcesFailed,
		run.TotalListings, run.NewMatches, run.DuplicateMatches, run.IsSuccess, string(run.Trigger),
	)
	return err
}

func (r *PostgresCrawlRunRepository) ListRecent(ctx context.Context, limit int) ([]listing.CrawlRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, started_at, completed_at, duration_seconds,
		 sources_attempted, sources_succeeded, sources_failed,
		 total_listings, new_matches, duplicate_matches, is_success, trigger_kind
		 FROM crawl_runs
		 ORDER BY completed_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]listing.CrawlRun, 0, limit)
	for rows.Next() {
		var run listing.CrawlRun
		var trigger string
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &run.CompletedAt, &run.DurationSeconds,
			&run.SourcesAttempted, &run.SourcesSucceeded, &run.SourcesFailed,
			&run.TotalListings, &run.NewMatches, &run.DuplicateMatches, &run.IsSuccess, &trigger,
		); err != nil {
			return nil, err
		}
		run.Trigger = listing.TriggerKind(trigger)
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
