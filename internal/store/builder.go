package store

import (
	"context"
	"database/sql"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sqlite returns a query builder for the SQLite dialect.
func sqlite() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func execQuery(ctx context.Context, db dbtx, q entsql.Querier) (sql.Result, error) {
	query, args := q.Query()
	return db.ExecContext(ctx, query, args...)
}

func selectRows(ctx context.Context, db dbtx, q entsql.Querier) (*sql.Rows, error) {
	query, args := q.Query()
	return db.QueryContext(ctx, query, args...)
}

func selectRow(ctx context.Context, db dbtx, q entsql.Querier) *sql.Row {
	query, args := q.Query()
	return db.QueryRowContext(ctx, query, args...)
}

// applyQueryOpts adds sequence/timestamp filters, newest-first ordering and
// the limit to sel. Extra predicates are ANDed in.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts, preds ...*entsql.Predicate) *entsql.Selector {
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", toMillis(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", toMillis(opts.To)))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullBoolPtr(n sql.NullBool) *bool {
	if !n.Valid {
		return nil
	}
	v := n.Bool
	return &v
}

// Nullable values are passed to the driver as untyped nil or their value.
func intArg(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolArg(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}
