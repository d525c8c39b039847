package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// retrier returns a RetryProvider that records waits instead of sleeping.
func retrier(inner Provider, attempts int) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := &RetryProvider{
		inner: inner,
		cfg: RetryConfig{
			MaxAttempts: attempts,
			InitialWait: 100 * time.Millisecond,
			MaxWait:     time.Second,
			Multiplier:  2,
		},
		sleep: func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			return ctx.Err()
		},
	}
	return r, &waits
}

var okJSON = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("502")}}
}

func TestRetry_RecoversFromTransientFailures(t *testing.T) {
	mock := NewMockProvider(down(), down(), okJSON)
	r, waits := retrier(mock, 3)

	resp, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 3, mock.CallCount())
	require.Len(t, *waits, 2)
	assert.InDelta(t, float64(100*time.Millisecond), float64((*waits)[0]), float64(20*time.Millisecond))
	assert.InDelta(t, float64(200*time.Millisecond), float64((*waits)[1]), float64(40*time.Millisecond))
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), okJSON)
	r, waits := retrier(mock, 3)

	_, err := r.Generate(context.Background(), Request{})
	var un *ErrProviderUnavailable
	require.ErrorAs(t, err, &un)
	assert.Equal(t, 3, mock.CallCount())
	assert.Len(t, *waits, 2, "no wait after the last attempt")
}

func TestRetry_NonRetryable(t *testing.T) {
	cases := map[string]error{
		"truncated": &ErrMaxTokensExceeded{Content: json.RawMessage(`{"a":`)},
		"rejected":  &ErrRequestRejected{StatusCode: 401, Err: errors.New("bad key")},
		"canceled":  context.Canceled,
	}
	for name, e := range cases {
		t.Run(name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: e}, okJSON)
			r, _ := retrier(mock, 3)

			_, err := r.Generate(context.Background(), Request{})
			require.ErrorIs(t, err, e)
			assert.Equal(t, 1, mock.CallCount())
		})
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("not json")}}
	mock := NewMockProvider(bad, bad, okJSON)
	r, _ := retrier(mock, 5)

	_, err := r.Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 3 * time.Second}}, okJSON)
	r, waits := retrier(mock, 2)

	_, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second}, *waits)
}

func TestRetry_BackoffCapped(t *testing.T) {
	r, _ := retrier(nil, 10)
	for attempt := 0; attempt < 10; attempt++ {
		assert.LessOrEqual(t, r.backoff(attempt, errors.New("x")), 1200*time.Millisecond)
	}
}

func TestRetry_StopsWhenContextEnds(t *testing.T) {
	mock := NewMockProvider(down(), down(), okJSON)
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "mock", p.ModelID())
}
