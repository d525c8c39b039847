package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff and
// ±20% jitter. A rate limit with a RetryAfter hint waits exactly that long.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	sleep func(context.Context, time.Duration) error
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, cfg: cfg, sleep: sleepCtx}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	invalidSeen := false

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch retryClass(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}
		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		slog.DebugContext(ctx, "llm retry",
			"model", r.inner.ModelID(),
			"purpose", PurposeFrom(ctx),
			"attempt", attempt+1,
			"wait", wait,
			"error", err,
		)
		if serr := r.sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

type retryKind int

const (
	retryAlways retryKind = iota
	retryOnce
	retryNever
)

// retryClass decides whether err is worth another attempt. Malformed
// output sometimes clears up on a second sample, so it gets exactly one.
func retryClass(err error) retryKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retryNever
	}
	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRequestRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.As(err, &maxTok), errors.As(err, &rejected):
		return retryNever
	case errors.As(err, &invalid):
		return retryOnce
	}
	return retryAlways
}

func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	mult := r.cfg.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := math.Min(float64(r.cfg.InitialWait)*math.Pow(mult, float64(attempt)), float64(r.cfg.MaxWait))
	wait *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
