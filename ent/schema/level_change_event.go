package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	entschema "entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LevelChangeEvent records every change of a habit's assessed level.
type LevelChangeEvent struct {
	ent.Schema
}

func (LevelChangeEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LevelChangeEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("habit_id").
			NotEmpty(),
		field.Int("from_level").
			Optional().
			Nillable().
			Comment("Null for the first assessment"),
		field.Int("to_level"),
		field.Enum("reason").
			Values("created", "suggested", "baby_step", "reassessed"),
	}
}

func (LevelChangeEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("habit_id", "sequence"),
	}
}

func (LevelChangeEvent) Annotations() []entschema.Annotation {
	return []entschema.Annotation{
		entsql.Annotation{Table: "level_change_events"},
	}
}
