package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// sequencer allocates the store-wide event order. Every event table keys or
// indexes on it, so a notification and the completion before it can be
// ordered even though they live in different tables. The single-row
// global_sequence table is created by the v1.0.0 migration.
type sequencer struct{}

// Next claims one number using whichever connection or transaction q is.
func (sequencer) Next(ctx context.Context, q dbtx) (int64, error) {
	upd := sqlite().Update("global_sequence").
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Returning("next_val")

	var next int64
	if err := selectRow(ctx, q, upd).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next - 1, nil
}
