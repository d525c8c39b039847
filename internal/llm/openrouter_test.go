package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouter_RequiresKey(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"})
	require.Error(t, err)
}

func TestOpenRouter_ModelIDVerbatim(t *testing.T) {
	// gpt-mini is an OpenAI alias; OpenRouter must not expand it.
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "gpt-mini"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-mini", p.ModelID())
}

func TestOpenRouter_UsesBaseURL(t *testing.T) {
	var path, auth, title, referer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, auth = r.URL.Path, r.Header.Get("Authorization")
		title, referer = r.Header.Get("X-Title"), r.Header.Get("HTTP-Referer")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"name":"Stretch once"}`, "stop"))
	}))
	defer srv.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or",
		Model:   "anthropic/claude-haiku-4.5",
		BaseURL: srv.URL + "/api/v1",
		SiteURL: "https://vow.example",
	})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "x"}},
		Schema:   planSchema,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Stretch once"}`, string(resp.Content))
	assert.Equal(t, "/api/v1/chat/completions", path)
	assert.Equal(t, "Bearer sk-or", auth)
	assert.Equal(t, "vow", title)
	assert.Equal(t, "https://vow.example", referer)
}
