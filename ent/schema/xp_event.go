package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	entschema "entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
)

// XPEvent records one scored completion.
type XPEvent struct {
	ent.Schema
}

func (XPEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (XPEvent) Fields() []ent.Field {
	bands := leveling.Tiers()
	tiers := make([]string, len(bands))
	for i, b := range bands {
		tiers[i] = string(b.Tier)
	}

	return []ent.Field{
		field.String("user_id").
			NotEmpty(),
		field.String("habit_id").
			NotEmpty(),
		field.Float("actual"),
		field.Float("target"),
		field.Float("completion_rate").
			Comment("Percentage, 100 means exactly on plan"),
		field.Float("multiplier"),
		field.Enum("tier").
			Values(tiers...),
		field.String("rationale_key"),
		field.Int("base_xp"),
		field.Int("awarded_xp").
			Comment("round(base_xp * multiplier)"),
	}
}

func (XPEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("habit_id", "sequence"),
	}
}

func (XPEvent) Annotations() []entschema.Annotation {
	return []entschema.Annotation{
		entsql.Annotation{Table: "xp_events"},
	}
}
