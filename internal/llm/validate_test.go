package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepSchema() *Schema {
	return &Schema{
		Name: "step",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":    map[string]any{"type": "string", "minLength": 1},
				"minutes": map[string]any{"type": "integer", "minimum": 1, "maximum": 120},
				"kind":    map[string]any{"type": "string", "enum": []any{"half", "minimal"}},
			},
			"required":             []any{"name", "minutes"},
			"additionalProperties": false,
		},
	}
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		ok   bool
	}{
		{"valid", `{"name":"Walk","minutes":5}`, true},
		{"valid with enum", `{"name":"Walk","minutes":5,"kind":"half"}`, true},
		{"not json", `{"name":`, false},
		{"missing required", `{"name":"Walk"}`, false},
		{"wrong type", `{"name":"Walk","minutes":"five"}`, false},
		{"below minimum", `{"name":"Walk","minutes":0}`, false},
		{"empty string", `{"name":"","minutes":5}`, false},
		{"enum violation", `{"name":"Walk","minutes":5,"kind":"double"}`, false},
		{"extra property", `{"name":"Walk","minutes":5,"mood":"great"}`, false},
		{"array", `[]`, false},
	}
	s := stepSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(json.RawMessage(tt.doc))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, tt.doc, string(inv.Content))
		})
	}
}

func TestSchemaValidate_NilAcceptsAnything(t *testing.T) {
	var s *Schema
	assert.NoError(t, s.Validate(json.RawMessage(`not even json`)))
}

func TestSchemaValidate_SameNameDifferentDefinition(t *testing.T) {
	loose := &Schema{Name: "shared", Definition: map[string]any{"type": "object"}}
	strict := &Schema{Name: "shared", Definition: map[string]any{
		"type":     "object",
		"required": []any{"id"},
	}}

	require.NoError(t, loose.Validate(json.RawMessage(`{}`)))
	assert.Error(t, strict.Validate(json.RawMessage(`{}`)))
	assert.NoError(t, loose.Validate(json.RawMessage(`{}`)))
}

func TestSchemaValidate_BadDefinition(t *testing.T) {
	s := &Schema{Name: "broken", Definition: map[string]any{"type": 42}}
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, s.Validate(json.RawMessage(`{}`)), &inv)
}
