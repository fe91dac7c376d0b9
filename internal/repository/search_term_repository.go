package repository

import (
	"context"
	"fmt"
	"strings"

	"listing-radar/internal/database"
	"listing-radar/internal/domain/listing"

	"github.com/google/uuid"
)

type SearchTermRepository interface {
	List(ctx context.Context) ([]listing.SearchTerm, error)
	ListActive(ctx context.Context) ([]listing.SearchTerm, error)
	Create(ctx context.Context, term string, mode listing.MatchMode, excludes []string) (listing.SearchTerm, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresSearchTermRepository struct {
	db database.DB
}

func NewPostgresSearchTermRepository(db database.DB) *PostgresSearchTermRepository {
	return &PostgresSearchTermRepository{db: db}
}

func (r *PostgresSearchTermRepository) List(ctx context.Context) ([]listing.SearchTerm, error) {
	return r.list(ctx, false)
}

func (r *PostgresSearchTermRepository) ListActive(ctx context.Context) ([]listing.SearchTerm, error) {
	return r.list(ctx, true)
}

func (r *PostgresSearchTermRepository) list(ctx context.Context, activeOnly bool) ([]listing.SearchTerm, error) {
	q := `SELECT id, term, match_mode, is_active, sort_order, created_at, updated_at
	 FROM search_terms`
	if activeOnly {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY sort_order, term`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := make([]listing.SearchTerm, 0)
	for rows.Next() {
		var t listing.SearchTerm
		var mode string
		if err := rows.Scan(&t.ID, &t.Term, &mode, &t.IsActive, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Mode = listing.MatchMode(mode)
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(terms) == 0 {
		return terms, nil
	}
	if err := r.attachExcludes(ctx, terms); err != nil {
		return nil, err
	}
	return terms, nil
}

func (r *PostgresSearchTermRepository) attachExcludes(ctx context.Context, terms []listing.SearchTerm) error {
	rows, err := r.db.Query(ctx,
		`SELECT search_term_id, term FROM exclude_terms ORDER BY term`,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	byTerm := map[uuid.UUID][]string{}
	for rows.Next() {
		var id uuid.UUID
		var ex string
		if err := rows.Scan(&id, &ex); err != nil {
			return err
		}
		byTerm[id] = append(byTerm[id], ex)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range terms {
		terms[i].ExcludeTerms = byTerm[terms[i].ID]
	}
	return nil
}

func (r *PostgresSearchTermRepository) Create(ctx context.Context, term string, mode listing.MatchMode, excludes []string) (listing.SearchTerm, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return listing.SearchTerm{}, fmt.Errorf("empty term")
	}
	if mode != listing.MatchModePartial {
		mode = listing.MatchModeExact
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return listing.SearchTerm{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	t := listing.SearchTerm{ID: uuid.New(), Term: term, Mode: mode, IsActive: true}
	_, err = tx.Exec(ctx,
		`INSERT INTO search_terms (id, term, match_mode, is_active) VALUES ($1, $2, $3, TRUE)`,
		t.ID, t.Term, string(t.Mode),
	)
	if err != nil {
		return listing.SearchTerm{}, err
	}

	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO exclude_terms (id, search_term_id, term) VALUES ($1, $2, $3)
			 ON CONFLICT (search_term_id, term) DO NOTHING`,
			uuid.New(), t.ID, ex,
		)
		if err != nil {
			return listing.SearchTerm{}, err
		}
		t.ExcludeTerms = append(t.ExcludeTerms, ex)
	}

	if err := tx.Commit(ctx); err != nil {
		return listing.SearchTerm{}, err
	}
	return t, nil
}

func (r *PostgresSearchTermRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE search_terms SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresSearchTermRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM search_terms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
