package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var notificationColumns = []string{
	"id", "sequence", "timestamp", "user_id", "habit_id", "kind",
	"level_gap", "severity", "recommendation", "read",
}

type notificationRepo struct {
	db  dbtx
	seq sequencer
}

func (r *notificationRepo) Create(ctx context.Context, data NotificationData) (*Notification, error) {
	seqNum, err := r.seq.Next(ctx, r.db)
	if err != nil {
		return nil, err
	}

	n := &Notification{Sequence: seqNum, Timestamp: time.Now().UTC(), NotificationData: data}
	ins := sqlite().Insert("notifications").
		Columns(notificationColumns[1:]...).
		Values(
			n.Sequence, toMillis(n.Timestamp), data.UserID, data.HabitID, data.Kind,
			data.LevelGap, data.Severity, data.Recommendation, false,
		)
	res, err := execQuery(ctx, r.db, ins)
	if err != nil {
		return nil, fmt.Errorf("save notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("notification id: %w", err)
	}
	n.ID = int(id)
	return n, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	preds := []*entsql.Predicate{entsql.EQ("user_id", userID)}
	if unreadOnly {
		preds = append(preds, entsql.EQ("read", false))
	}
	sel := sqlite().Select(notificationColumns...).From(entsql.Table("notifications"))
	applyQueryOpts(sel, QueryOpts{Limit: limit}, preds...)

	rows, err := selectRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var (
			n  Notification
			ts int64
		)
		if err := rows.Scan(
			&n.ID, &n.Sequence, &ts, &n.UserID, &n.HabitID, &n.Kind,
			&n.LevelGap, &n.Severity, &n.Recommendation, &n.Read,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Timestamp = fromMillis(ts)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, id int) (bool, error) {
	upd := sqlite().Update("notifications").
		Set("read", true).
		Where(entsql.EQ("id", id))

	res, err := execQuery(ctx, r.db, upd)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return n > 0, nil
}
