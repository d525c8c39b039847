package llm

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterApp     = "vow"
)

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Model IDs
// are vendor-qualified ("anthropic/claude-haiku-4.5") and sent verbatim.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: api key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenRouterBaseURL
	}
	app := cfg.AppName
	if app == "" {
		app = defaultOpenRouterApp
	}
	doer := &attributionDoer{next: &http.Client{}, title: app, referer: cfg.SiteURL}
	return &OpenRouterProvider{newOpenAICompatible(cfg.APIKey, base, cfg.Model, doer)}, nil
}

// attributionDoer adds the headers OpenRouter uses to credit the calling app.
type attributionDoer struct {
	next    openai.HTTPDoer
	title   string
	referer string
}

func (d *attributionDoer) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-Title", d.title)
	if d.referer != "" {
		req.Header.Set("HTTP-Referer", d.referer)
	}
	return d.next.Do(req)
}
