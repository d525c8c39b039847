package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var habitColumns = []string{
	"id", "user_id", "name", "level", "frequency", "workload_per_count",
	"workload_unit", "target_count", "mismatch_acknowledged", "original_level_gap",
	"created_at", "updated_at",
}

type habitRepo struct {
	db dbtx
}

func (r *habitRepo) Create(ctx context.Context, h *Habit) error {
	now := time.Now().UTC()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = h.CreatedAt
	}

	ins := sqlite().Insert("habits").
		Columns(habitColumns...).
		Values(
			h.ID, h.UserID, h.Name, intArg(h.Level), h.Frequency, h.WorkloadPerCount,
			h.WorkloadUnit, h.TargetCount, boolArg(h.MismatchAcknowledged), intArg(h.OriginalLevelGap),
			toMillis(h.CreatedAt), toMillis(h.UpdatedAt),
		)
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return fmt.Errorf("insert habit: %w", err)
	}
	return nil
}

func (r *habitRepo) Get(ctx context.Context, id string) (*Habit, error) {
	sel := sqlite().Select(habitColumns...).
		From(entsql.Table("habits")).
		Where(entsql.EQ("id", id))

	h, err := scanHabit(selectRow(ctx, r.db, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return h, nil
}

func (r *habitRepo) ListByUser(ctx context.Context, userID string) ([]Habit, error) {
	sel := sqlite().Select(habitColumns...).
		From(entsql.Table("habits")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("created_at", "id")
	return r.list(ctx, sel)
}

func (r *habitRepo) ListAssessed(ctx context.Context) ([]Habit, error) {
	sel := sqlite().Select(habitColumns...).
		From(entsql.Table("habits")).
		Where(entsql.NotNull("level")).
		OrderBy("user_id", "created_at", "id")
	return r.list(ctx, sel)
}

func (r *habitRepo) list(ctx context.Context, sel *entsql.Selector) ([]Habit, error) {
	rows, err := selectRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (r *habitRepo) Update(ctx context.Context, h *Habit) error {
	h.UpdatedAt = time.Now().UTC()
	upd := sqlite().Update("habits").
		Set("name", h.Name).
		Set("level", intArg(h.Level)).
		Set("frequency", h.Frequency).
		Set("workload_per_count", h.WorkloadPerCount).
		Set("workload_unit", h.WorkloadUnit).
		Set("target_count", h.TargetCount).
		Set("mismatch_acknowledged", boolArg(h.MismatchAcknowledged)).
		Set("original_level_gap", intArg(h.OriginalLevelGap)).
		Set("updated_at", toMillis(h.UpdatedAt)).
		Where(entsql.EQ("id", h.ID))

	if _, err := execQuery(ctx, r.db, upd); err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	return nil
}

func (r *habitRepo) SetMismatchState(ctx context.Context, id string, acknowledged *bool, originalGap *int) error {
	upd := sqlite().Update("habits").
		Set("mismatch_acknowledged", boolArg(acknowledged)).
		Set("original_level_gap", intArg(originalGap)).
		Set("updated_at", toMillis(time.Now())).
		Where(entsql.EQ("id", id))

	if _, err := execQuery(ctx, r.db, upd); err != nil {
		return fmt.Errorf("set mismatch state: %w", err)
	}
	return nil
}

func scanHabit(row rowScanner) (*Habit, error) {
	var (
		h                Habit
		level, gap       sql.NullInt64
		ack              sql.NullBool
		created, updated int64
	)
	err := row.Scan(
		&h.ID, &h.UserID, &h.Name, &level, &h.Frequency, &h.WorkloadPerCount,
		&h.WorkloadUnit, &h.TargetCount, &ack, &gap, &created, &updated,
	)
	if err != nil {
		return nil, err
	}
	h.Level = nullIntPtr(level)
	h.MismatchAcknowledged = nullBoolPtr(ack)
	h.OriginalLevelGap = nullIntPtr(gap)
	h.CreatedAt = fromMillis(created)
	h.UpdatedAt = fromMillis(updated)
	return &h, nil
}
