package coach

import "github.com/laximgqozaZZZYT/vow-sub000/internal/llm"

var planDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"rationale": map[string]any{
			"type":        "string",
			"minLength":   1,
			"maxLength":   400,
			"description": "One or two encouraging sentences",
		},
	},
	"required":             []any{"rationale"},
	"additionalProperties": false,
}

// BabyStepSchema is the structured output expected from the LLM.
var BabyStepSchema = &llm.Schema{
	Name:        "baby-step-coaching",
	Description: "Personalized rationales for two easier variants of a habit",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"lv50": planDefinition,
			"lv10": planDefinition,
		},
		"required":             []any{"lv50", "lv10"},
		"additionalProperties": false,
	},
}
