package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	entschema "entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMRequestEvent is one provider attempt made by the coach. Retries
// produce one row each.
type LLMRequestEvent struct {
	ent.Schema
}

func (LLMRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LLMRequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Enum("provider").
			Values("anthropic", "openai", "gemini", "openrouter", "mock"),
		field.String("model"),
		field.String("purpose").
			Default("unknown"),
		field.Int("input_tokens").
			NonNegative().
			Default(0),
		field.Int("output_tokens").
			NonNegative().
			Default(0),
		field.Int64("latency_ms").
			NonNegative().
			Default(0),
		field.Bool("success"),
		field.String("error_message").
			Default(""),
		// Plain-text transcript: system prompt, messages, schema.
		field.Text("request_body").
			Default(""),
		field.Text("response_body").
			Default(""),
	}
}

func (LLMRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("purpose", "sequence"),
		index.Fields("model"),
	}
}

func (LLMRequestEvent) Annotations() []entschema.Annotation {
	return []entschema.Annotation{
		entsql.Annotation{Table: "llm_request_events"},
	}
}
