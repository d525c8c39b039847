package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/metrics"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
)

// EventSink persists one row per provider call. store.EventRepo satisfies it.
type EventSink interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider records every call to the event log and to Prometheus.
// It sits inside RetryProvider, so each attempt is its own row.
type LoggingProvider struct {
	inner    Provider
	provider string
	sink     EventSink
}

// WithLogging wraps p. name is the provider label ("anthropic", "gemini").
func WithLogging(p Provider, name string, sink EventSink) Provider {
	return &LoggingProvider{inner: p, provider: name, sink: sink}
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	metrics.LLMRequests.WithLabelValues(l.provider, outcome(err)).Inc()
	metrics.LLMLatency.WithLabelValues(l.provider).Observe(elapsed.Seconds())
	metrics.LLMTokens.WithLabelValues(l.provider, "input").Add(float64(ev.InputTokens))
	metrics.LLMTokens.WithLabelValues(l.provider, "output").Add(float64(ev.OutputTokens))

	// The event log is best effort.
	if serr := l.sink.AppendLLMRequest(context.WithoutCancel(ctx), ev); serr != nil {
		slog.WarnContext(ctx, "record llm request", "purpose", ev.Purpose, "error", serr)
	}
	return resp, err
}

// outcome buckets err for the vow_llm_requests_total outcome label.
func outcome(err error) string {
	var (
		rl       *ErrRateLimit
		inv      *ErrInvalidResponse
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRequestRejected
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &rl):
		return "rate_limited"
	case errors.As(err, &maxTok):
		return "truncated"
	case errors.As(err, &inv):
		return "invalid"
	case errors.As(err, &rejected):
		return "rejected"
	default:
		return "unavailable"
	}
}

// transcript renders req as the plain-text block stored in request_body.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
