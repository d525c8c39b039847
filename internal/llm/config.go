package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all LLM provider configuration. It is loaded from the [llm]
// table of the config file and then overridden from the environment.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `toml:"provider"`

	Anthropic  AnthropicConfig  `toml:"anthropic"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	Gemini     GeminiConfig     `toml:"gemini"`
	OpenRouter OpenRouterConfig `toml:"openrouter"`
	Retry      RetryConfig      `toml:"retry"`

	// Timeout bounds a single request including retries.
	Timeout time.Duration `toml:"timeout"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`    // Default: "claude-haiku"
	BaseURL string `toml:"base_url"` // Optional, for proxies and gateways.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `toml:"base_url"` // Optional, for OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"` // Default: "https://openrouter.ai/api/v1"
	AppName string `toml:"app_name"` // Sent as X-Title. Default: "vow"
	SiteURL string `toml:"site_url"` // Sent as HTTP-Referer when set.
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `toml:"max_attempts"`
	InitialWait time.Duration `toml:"initial_wait"`
	MaxWait     time.Duration `toml:"max_wait"`
	Multiplier  float64       `toml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults. The mock provider
// is the default so the coach works offline until a key is configured.
func DefaultConfig() Config {
	return Config{
		Provider:   "mock",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash", AppName: defaultOpenRouterApp},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// envBinding maps one environment variable onto a Config field.
type envBinding struct {
	name  string
	field func(*Config) *string
}

var envBindings = []envBinding{
	{"VOW_LLM_PROVIDER", func(c *Config) *string { return &c.Provider }},
	{"VOW_ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"VOW_ANTHROPIC_MODEL", func(c *Config) *string { return &c.Anthropic.Model }},
	{"VOW_ANTHROPIC_BASE_URL", func(c *Config) *string { return &c.Anthropic.BaseURL }},
	{"VOW_OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"VOW_OPENAI_MODEL", func(c *Config) *string { return &c.OpenAI.Model }},
	{"VOW_OPENAI_BASE_URL", func(c *Config) *string { return &c.OpenAI.BaseURL }},
	{"VOW_GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"VOW_GEMINI_MODEL", func(c *Config) *string { return &c.Gemini.Model }},
	{"VOW_OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
	{"VOW_OPENROUTER_MODEL", func(c *Config) *string { return &c.OpenRouter.Model }},
}

// ApplyEnv overrides fields of c from VOW_* environment variables.
func (c *Config) ApplyEnv() {
	for _, b := range envBindings {
		if v := os.Getenv(b.name); v != "" {
			*b.field(c) = v
		}
	}
}

// DiscoverConfig probes the vendors' standard API key variables and
// returns a Config for the first provider whose key is found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"ANTHROPIC_API_KEY", "anthropic", &cfg.Anthropic.APIKey},
		{"OPENAI_API_KEY", "openai", &cfg.OpenAI.APIKey},
		{"GEMINI_API_KEY", "gemini", &cfg.Gemini.APIKey},
		{"OPENROUTER_API_KEY", "openrouter", &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "anthropic":
		key, env = c.Anthropic.APIKey, "VOW_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "VOW_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "VOW_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "VOW_OPENROUTER_API_KEY"
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider %q (want one of %s)", c.Provider, strings.Join(Providers(), ", "))
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}

// ModelFor returns the model ID provider would use, with aliases expanded.
func (c Config) ModelFor(provider string) string {
	switch provider {
	case "anthropic":
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case "openai":
		return resolveModel(c.OpenAI.Model, openaiModels)
	case "gemini":
		return resolveModel(c.Gemini.Model, geminiModels)
	case "openrouter":
		return c.OpenRouter.Model
	case "mock":
		return "mock"
	}
	return ""
}

// HasKey reports whether provider has an API key configured. The mock
// never needs one.
func (c Config) HasKey(provider string) bool {
	probe := c
	probe.Provider = provider
	return probe.Validate() == nil
}
