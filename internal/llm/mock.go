package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one queued reply. A non-nil Err is returned as is.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays queued responses in order. Content goes through the
// same schema check as a real provider, so a reply that does not match
// req.Schema fails with ErrInvalidResponse.
type MockProvider struct {
	mu    sync.Mutex
	queue []MockResponse
	Calls []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// NewMockJSON queues each value marshalled as JSON.
func NewMockJSON(values ...any) (*MockProvider, error) {
	m := NewMockProvider()
	for _, v := range values {
		if err := m.AddJSON(v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

var errMockExhausted = errors.New("mock: no queued responses")

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{Err: errMockExhausted}
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return finish(req, next.Content, next.Usage, "mock", StopEnd)
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

func (m *MockProvider) AddJSON(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.AddResponse(MockResponse{Content: raw})
	return nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastRequest returns the most recent request, or false if none was made.
func (m *MockProvider) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}

// Pending reports how many queued responses remain.
func (m *MockProvider) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
