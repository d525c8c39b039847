package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/mixin"
)

// Times are stored as unix milliseconds, not SQL datetimes.
func nowMillis() int64 { return time.Now().UnixMilli() }

// EventMixin is embedded by the append-only tables. sequence comes from
// the store's global_sequence row, so it orders events across tables.
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Positive().
			Unique().
			Immutable(),
		field.Int64("timestamp").
			DefaultFunc(nowMillis).
			Immutable(),
	}
}

// TimeMixin is embedded by the mutable entities, users and habits.
type TimeMixin struct {
	mixin.Schema
}

func (TimeMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("created_at").
			DefaultFunc(nowMillis).
			Immutable(),
		field.Int64("updated_at").
			DefaultFunc(nowMillis).
			UpdateDefault(nowMillis),
	}
}
