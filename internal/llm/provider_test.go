package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	ctx := context.Background()

	resp, err := mock.Generate(ctx, Request{System: "first"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp.Content))
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	assert.Equal(t, StopEnd, resp.StopReason)

	_, err = mock.Generate(ctx, Request{System: "second"})
	var rl *ErrRateLimit
	require.ErrorAs(t, err, &rl)

	_, err = mock.Generate(ctx, Request{System: "third"})
	var un *ErrProviderUnavailable
	require.ErrorAs(t, err, &un)

	assert.Equal(t, 3, mock.CallCount())
	last, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "third", last.System)
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock, err := NewMockJSON(map[string]string{"title": "no name"}, map[string]string{"name": "Walk"})
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Pending())

	_, err = mock.Generate(context.Background(), Request{Schema: planSchema})
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)

	resp, err := mock.Generate(context.Background(), Request{Schema: planSchema})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Walk"}`, string(resp.Content))
	assert.Equal(t, 0, mock.Pending())
}

func TestMockProvider_CanceledContext(t *testing.T) {
	mock := NewMockProvider(okJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	_, ok := NewMockProvider().LastRequest()
	assert.False(t, ok)
}

func TestPurpose(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, PurposeUnknown, PurposeFrom(ctx))
	assert.Equal(t, PurposeUnknown, PurposeFrom(WithPurpose(ctx, "")))
	assert.Equal(t, "baby-steps", PurposeFrom(WithPurpose(ctx, "baby-steps")))
}

func TestFinish_TotalsUsage(t *testing.T) {
	resp, err := finish(Request{}, json.RawMessage(`"hi"`), Usage{InputTokens: 3, OutputTokens: 4}, "m", StopEnd)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Usage.TotalTokens)
	assert.Equal(t, "m", resp.Model)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := func(v string) http.Header { return http.Header{"Retry-After": {v}} }

	assert.Equal(t, 30*time.Second, parseRetryAfter(h("30"), now))
	assert.Equal(t, 90*time.Second, parseRetryAfter(h(now.Add(90*time.Second).Format(http.TimeFormat)), now))
	assert.Zero(t, parseRetryAfter(h(now.Add(-time.Minute).Format(http.TimeFormat)), now))
	assert.Zero(t, parseRetryAfter(h("-5"), now))
	assert.Zero(t, parseRetryAfter(h("soon"), now))
	assert.Zero(t, parseRetryAfter(http.Header{}, now))
}

func TestStatusError(t *testing.T) {
	var rl *ErrRateLimit
	require.ErrorAs(t, statusError(429, time.Second, nil), &rl)
	assert.Equal(t, time.Second, rl.RetryAfter)

	var rej *ErrRequestRejected
	require.ErrorAs(t, statusError(404, 0, nil), &rej)
	assert.Equal(t, 404, rej.StatusCode)

	var un *ErrProviderUnavailable
	assert.ErrorAs(t, statusError(500, 0, nil), &un)
	assert.ErrorAs(t, statusError(0, 0, nil), &un)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, "VOW_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk"}}, ""},
		{"openai without key", Config{Provider: "openai"}, "VOW_OPENAI_API_KEY"},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g"}}, ""},
		{"mock needs no key", Config{Provider: "mock"}, ""},
		{"unknown provider", Config{Provider: "llama"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("VOW_LLM_PROVIDER", "anthropic")
	t.Setenv("VOW_ANTHROPIC_API_KEY", "sk-env")
	t.Setenv("VOW_ANTHROPIC_BASE_URL", "http://gateway.local")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, AnthropicConfig{APIKey: "sk-env", Model: "claude-haiku", BaseURL: "http://gateway.local"}, cfg.Anthropic)
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "openai", cfg.Provider, "earlier probes win")
	assert.Equal(t, "oa-key", cfg.OpenAI.APIKey)
}

func TestProviders(t *testing.T) {
	assert.Equal(t, []string{"anthropic", "gemini", "mock", "openai", "openrouter"}, Providers())
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MockProvider{}, p)

	_, err = NewProvider(context.Background(), Config{Provider: "anthropic"}, nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.OpenAI.APIKey = "k"
	p, err = NewProvider(context.Background(), cfg, &recordingSink{})
	require.NoError(t, err)
	require.IsType(t, &RetryProvider{}, p)
	assert.IsType(t, &LoggingProvider{}, p.(*RetryProvider).inner)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())
}

func TestConfig_ModelForAndHasKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gemini.APIKey = "g"

	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.ModelFor("anthropic"))
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelFor("gemini"))
	assert.Equal(t, "google/gemini-2.5-flash", cfg.ModelFor("openrouter"))
	assert.Empty(t, cfg.ModelFor("llama"))

	assert.True(t, cfg.HasKey("gemini"))
	assert.True(t, cfg.HasKey("mock"))
	assert.False(t, cfg.HasKey("openai"))
}
