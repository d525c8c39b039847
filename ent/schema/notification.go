package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	entschema "entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Notification tells a user that a habit became, or stopped being, too
// hard for their level.
type Notification struct {
	ent.Schema
}

func (Notification) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Notification) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty(),
		field.String("habit_id").
			NotEmpty(),
		field.Enum("kind").
			Values("level_mismatch", "level_mismatch_resolved"),
		field.Int("level_gap"),
		field.String("severity"),
		field.String("recommendation"),
		field.Bool("read").
			Default(false),
	}
}

func (Notification) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "read"),
	}
}

func (Notification) Annotations() []entschema.Annotation {
	return []entschema.Annotation{
		entsql.Annotation{Table: "notifications"},
	}
}
