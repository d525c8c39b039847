package llm

import (
	"context"
	"fmt"
	"sort"
)

type constructor func(ctx context.Context, cfg Config) (Provider, error)

var constructors = map[string]constructor{
	"anthropic": func(_ context.Context, cfg Config) (Provider, error) {
		return NewAnthropicProvider(cfg.Anthropic)
	},
	"openai": func(_ context.Context, cfg Config) (Provider, error) {
		return NewOpenAIProvider(cfg.OpenAI)
	},
	"gemini": func(ctx context.Context, cfg Config) (Provider, error) {
		return NewGeminiProvider(ctx, cfg.Gemini)
	},
	"openrouter": func(_ context.Context, cfg Config) (Provider, error) {
		return NewOpenRouterProvider(cfg.OpenRouter)
	},
}

// Providers lists the accepted values of Config.Provider.
func Providers() []string {
	names := []string{"mock"}
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider builds the configured provider. Real providers are wrapped
// as retry(logging(provider)) so every attempt is logged; logging is
// skipped when sink is nil. The mock is returned bare.
func NewProvider(ctx context.Context, cfg Config, sink EventSink) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}

	p, err := constructors[cfg.Provider](ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm: init %s: %w", cfg.Provider, err)
	}
	if sink != nil {
		p = WithLogging(p, cfg.Provider, sink)
	}
	return WithRetry(p, cfg.Retry), nil
}
