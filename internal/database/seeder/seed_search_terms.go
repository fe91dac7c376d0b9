package seeder

import (
	"context"
	"fmt"

	"listing-radar/internal/database"
)

type SearchTermsSeeder struct{}

func (SearchTermsSeeder) Name() string { return "search_terms" }

func (SearchTermsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "search_terms", "id", "term", "match_mode", "is_active", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Term string
		Mode string
	}{
		{Term: "Leica M6", Mode: "partial"},
		{Term: "Eames Lounge Chair", Mode: "exact"},
		{Term: "SL-1200", Mode: "partial"},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO search_terms (id, term, match_mode, is_active)
			 VALUES (gen_random_uuid(), $1, $2, TRUE)
			 ON CONFLICT (term) DO NOTHING`,
			it.Term,
			it.Mode,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
