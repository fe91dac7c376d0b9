package repository

import (
	"context"

	"listing-radar/internal/database"
	"listing-radar/internal/domain/listing"

	"github.com/google/uuid"
)

type MatchListFilter struct {
	Limit   int
	Offset  int
	OnlyNew bool
}

type MatchRepository interface {
	// InsertIfNew persists a match unless the same listing already
	// matched the same term in an earlier crawl. Reports whether a row
	// was written.
	InsertIfNew(ctx context.Context, m listing.Match) (bool, error)
	List(ctx context.Context, f MatchListFilter) ([]listing.Match, error)
	MarkAllSeen(ctx context.Context) error
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

func (r *PostgresMatchRepository) InsertIfNew(ctx context.Context, m listing.Match) (bool, error) {
	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	affected, err := r.db.Exec(ctx,
		`INSERT INTO matches (id, source_id, search_term_id, external_key, title, price, url, image_url, is_new)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		 ON CONFLICT (source_id, external_key, search_term_id) DO NOTHING`,
		id, m.SourceID, m.SearchTermID, m.ExternalKey, m.Title, m.Price, m.URL, nullable(m.ImageURL),
	)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresMatchRepository) List(ctx context.Context, f MatchListFilter) ([]listing.Match, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := `SELECT m.id, m.source_id, m.search_term_id, s.name, t.term,
	 m.external_key, m.title, m.price, m.url, COALESCE(m.image_url, ''), m.is_new, m.created_at, m.updated_at
	 FROM matches m
	 JOIN sources s ON s.id = m.source_id
	 JOIN search_terms t ON t.id = m.search_term_id`
	if f.OnlyNew {
		q += ` WHERE m.is_new`
	}
	q += ` ORDER BY m.created_at DESC, m.id DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]listing.Match, 0)
	for rows.Next() {
		var m listing.Match
		if err := rows.Scan(
			&m.ID, &m.SourceID, &m.SearchTermID, &m.SourceName, &m.Term,
			&m.ExternalKey, &m.Title, &m.Price, &m.URL, &m.ImageURL, &m.IsNew, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchRepository) MarkAllSeen(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `UPDATE matches SET is_new = FALSE, updated_at = now() WHERE is_new`)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
