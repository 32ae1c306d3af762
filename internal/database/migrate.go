package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Migrate creates the users and listings tables and their indexes when they
// do not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []any{(*User)(nil), (*Listing)(nil)}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if _, err := db.NewCreateIndex().
		Model((*Listing)(nil)).
		Index("listings_created_at_idx").
		Column("created_at").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create listings index: %w", err)
	}

	return nil
}
