package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type":        "object",
		"description": "two plans",
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1, "maxLength": 120},
			"kind": map[string]any{"type": "string", "enum": []any{"half", "minimal"}},
			"steps": map[string]any{
				"type":     "array",
				"maxItems": 3,
				"items":    map[string]any{"type": "integer", "minimum": 0.0},
			},
		},
		"required":             []string{"name", "kind"},
		"additionalProperties": false,
	}

	s := geminiSchema(def)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, "two plans", s.Description)
	assert.Equal(t, []string{"kind", "name", "steps"}, s.PropertyOrdering)
	assert.Equal(t, []string{"name", "kind"}, s.Required)

	name := s.Properties["name"]
	require.NotNil(t, name.MinLength)
	assert.Equal(t, int64(1), *name.MinLength)
	assert.Equal(t, int64(120), *name.MaxLength)

	assert.Equal(t, []string{"half", "minimal"}, s.Properties["kind"].Enum)

	steps := s.Properties["steps"]
	assert.Equal(t, genai.TypeArray, steps.Type)
	assert.Equal(t, int64(3), *steps.MaxItems)
	assert.Equal(t, genai.TypeInteger, steps.Items.Type)
	require.NotNil(t, steps.Items.Minimum)
	assert.Equal(t, 0.0, *steps.Items.Minimum)
}

func TestGeminiSchema_UnknownTypeIsString(t *testing.T) {
	assert.Equal(t, genai.TypeString, geminiSchema(map[string]any{"type": "null"}).Type)
	assert.Equal(t, genai.TypeString, geminiSchema(map[string]any{}).Type)
}

func TestGeminiError(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", genai.APIError{Code: http.StatusTooManyRequests})
	var rl *ErrRateLimit
	assert.True(t, errors.As(geminiError(wrapped), &rl))

	var rej *ErrRequestRejected
	assert.True(t, errors.As(geminiError(&genai.APIError{Code: http.StatusForbidden}), &rej))

	var un *ErrProviderUnavailable
	assert.True(t, errors.As(geminiError(genai.APIError{Code: http.StatusBadGateway}), &un))
	assert.True(t, errors.As(geminiError(errors.New("eof")), &un))
}

func TestGeminiModels(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.5-pro", resolveModel("gemini-pro", geminiModels))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-2.0-flash", geminiModels))
}
