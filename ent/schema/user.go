package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	entschema "entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
)

// User is a person whose overall level habits are compared against.
type User struct {
	ent.Schema
}

func (User) Mixin() []ent.Mixin {
	return []ent.Mixin{TimeMixin{}}
}

func (User) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Unique().
			Immutable().
			Comment("UUID"),
		field.String("name").
			NotEmpty(),
		field.Int("overall_level").
			Range(leveling.MinLevel, leveling.MaxLevel).
			Default(leveling.MinLevel),
		field.Int("total_xp").
			NonNegative().
			Default(0).
			Comment("Sum of awarded XP over all completions"),
		field.String("locale").
			Default(leveling.DefaultLocale),
	}
}

func (User) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("habits", Habit.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

func (User) Annotations() []entschema.Annotation {
	return []entschema.Annotation{
		entsql.Annotation{Table: "users"},
	}
}
