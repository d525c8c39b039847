package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	entschema "entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
)

// Habit is a recurring activity with an assessed difficulty level and the
// mismatch bookkeeping the scan job maintains.
type Habit struct {
	ent.Schema
}

func (Habit) Mixin() []ent.Mixin {
	return []ent.Mixin{TimeMixin{}}
}

func (Habit) Fields() []ent.Field {
	freqs := leveling.AllFrequencies()
	values := make([]string, len(freqs))
	for i, f := range freqs {
		values[i] = string(f)
	}

	return []ent.Field{
		field.String("id").
			NotEmpty().
			Unique().
			Immutable(),
		field.String("user_id").
			NotEmpty(),
		field.String("name").
			NotEmpty(),
		field.Int("level").
			Optional().
			Nillable().
			Range(leveling.MinLevel, leveling.MaxLevel).
			Comment("Null until assessed"),
		field.Enum("frequency").
			Values(values...).
			Default(string(leveling.FrequencyDaily)),
		field.Float("workload_per_count").
			Default(1),
		field.String("workload_unit").
			Default(""),
		field.Float("target_count").
			Default(1),
		field.Bool("mismatch_acknowledged").
			Optional().
			Nillable().
			Comment("Set once the user has been told about a mismatch"),
		field.Int("original_level_gap").
			Optional().
			Nillable().
			Comment("Gap at the time the mismatch was acknowledged"),
	}
}

func (Habit) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("user", User.Type).
			Ref("habits").
			Field("user_id").
			Unique().
			Required(),
	}
}

func (Habit) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id"),
	}
}

func (Habit) Annotations() []entschema.Annotation {
	return []entschema.Annotation{
		entsql.Annotation{Table: "habits"},
	}
}
