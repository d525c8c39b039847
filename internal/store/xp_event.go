package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on top of the global sequence counter.
type eventRepo struct {
	db  dbtx
	seq sequencer
}

var xpEventColumns = []string{
	"sequence", "timestamp", "user_id", "habit_id", "actual", "target",
	"completion_rate", "multiplier", "tier", "rationale_key", "base_xp", "awarded_xp",
}

func (r *eventRepo) AppendXPEvent(ctx context.Context, data XPEventData) (*XPEventRecord, error) {
	seqNum, err := r.seq.Next(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rec := &XPEventRecord{Sequence: seqNum, Timestamp: time.Now().UTC(), XPEventData: data}
	ins := sqlite().Insert("xp_events").
		Columns(xpEventColumns...).
		Values(
			rec.Sequence, toMillis(rec.Timestamp), data.UserID, data.HabitID, data.Actual, data.Target,
			data.CompletionRate, data.Multiplier, data.Tier, data.RationaleKey, data.BaseXP, data.AwardedXP,
		)
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return nil, fmt.Errorf("save XP event: %w", err)
	}
	return rec, nil
}

func (r *eventRepo) QueryXPEvents(ctx context.Context, habitID string, opts QueryOpts) ([]XPEventRecord, error) {
	sel := sqlite().Select(xpEventColumns...).From(entsql.Table("xp_events"))
	applyQueryOpts(sel, opts, entsql.EQ("habit_id", habitID))

	rows, err := selectRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query XP events: %w", err)
	}
	defer rows.Close()

	var out []XPEventRecord
	for rows.Next() {
		var (
			rec XPEventRecord
			ts  int64
		)
		if err := rows.Scan(
			&rec.Sequence, &ts, &rec.UserID, &rec.HabitID, &rec.Actual, &rec.Target,
			&rec.CompletionRate, &rec.Multiplier, &rec.Tier, &rec.RationaleKey, &rec.BaseXP, &rec.AwardedXP,
		); err != nil {
			return nil, fmt.Errorf("scan XP event: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

var levelChangeColumns = []string{"sequence", "timestamp", "habit_id", "from_level", "to_level", "reason"}

func (r *eventRepo) AppendLevelChange(ctx context.Context, data LevelChangeData) error {
	seqNum, err := r.seq.Next(ctx, r.db)
	if err != nil {
		return err
	}

	ins := sqlite().Insert("level_change_events").
		Columns(levelChangeColumns...).
		Values(seqNum, toMillis(time.Now()), data.HabitID, intArg(data.FromLevel), data.ToLevel, data.Reason)
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save level change event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLevelChanges(ctx context.Context, habitID string, opts QueryOpts) ([]LevelChangeRecord, error) {
	sel := sqlite().Select(levelChangeColumns...).From(entsql.Table("level_change_events"))
	applyQueryOpts(sel, opts, entsql.EQ("habit_id", habitID))

	rows, err := selectRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query level changes: %w", err)
	}
	defer rows.Close()

	var out []LevelChangeRecord
	for rows.Next() {
		var (
			rec  LevelChangeRecord
			ts   int64
			from sql.NullInt64
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.HabitID, &from, &rec.ToLevel, &rec.Reason); err != nil {
			return nil, fmt.Errorf("scan level change: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		rec.FromLevel = nullIntPtr(from)
		out = append(out, rec)
	}
	return out, rows.Err()
}
