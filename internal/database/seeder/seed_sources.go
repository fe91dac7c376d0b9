package seeder

import (
	"context"
	"fmt"

	"listing-radar/internal/database"
)

type SourcesSeeder struct{}

func (SourcesSeeder) Name() string { return "sources" }

func (SourcesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "sources", "id", "name", "base_url", "is_enabled", "sort_order", "created_at"); err != nil {
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
		Name      string
		BaseURL   string
		Enabled   bool
		SortOrder int
	}{
		{Name: "bietbox", BaseURL: "https://www.bietbox.ch", Enabled: true, SortOrder: 1},
		{Name: "trouvaille", BaseURL: "https://www.trouvaille.ch", Enabled: true, SortOrder: 2},
		{Name: "occasio", BaseURL: "https://www.occasio.ch", Enabled: true, SortOrder: 3},
		// Headless browser source; off until an operator enables it.
		{Name: "blitzmarkt", BaseURL: "https://www.blitzmarkt.ch", Enabled: false, SortOrder: 4},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO sources (id, name, base_url, is_enabled, sort_order)
			 VALUES (gen_random_uuid(), $1, $2, $3, $4)
			 ON CONFLICT (name) DO NOTHING`,
			it.Name,
			it.BaseURL,
			it.Enabled,
			it.SortOrder,
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
