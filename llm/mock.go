package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests. Responses cycle in order, every
// request is recorded, and schema validation runs exactly as it does in the
// real clients.
type MockClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	complete  func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	requests  []CompletionRequest
	calls     int
}

// MockOption configures a MockClient.
type MockOption func(*MockClient)

// WithResponses scripts the contents returned by successive Complete calls.
// The list cycles when exhausted.
func WithResponses(responses ...string) MockOption {
	return func(m *MockClient) {
		m.responses = responses
	}
}

// WithError makes every Complete call fail with err.
func WithError(err error) MockOption {
	return func(m *MockClient) {
		m.err = err
	}
}

// WithCompleteFunc replaces the scripted behavior entirely. Requests are
// still recorded.
func WithCompleteFunc(fn func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)) MockOption {
	return func(m *MockClient) {
		m.complete = fn
	}
}

// NewMockClient creates a scripted client.
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	idx := m.calls
	m.calls++
	fn := m.complete
	err := m.err
	responses := m.responses
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	content := "mock response"
	if len(responses) > 0 {
		content = responses[idx%len(responses)]
	}
	if req.Schema != nil {
		content = cleanJSONBlock(content)
		if verr := req.Schema.Validate(content); verr != nil {
			return nil, verr
		}
	}

	return &CompletionResponse{Content: content, Model: "mock"}, nil
}

// Close implements Client.
func (m *MockClient) Close() error { return nil }

// CallCount returns the number of Complete calls made so far.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests returns a copy of every recorded request, in call order.
func (m *MockClient) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or the zero value if none.
func (m *MockClient) LastRequest() CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return CompletionRequest{}
	}
	return m.requests[len(m.requests)-1]
}
