package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/cardchat/internal/generation"
)

// MockProvider is a mock implementation of generation.Provider.
// It records every request it receives.
type MockProvider struct {
	// CompleteFn allows tests to customize the behavior of Complete.
	CompleteFn func(ctx context.Context, req generation.Request) (string, error)

	// Response and Err are returned when CompleteFn is nil.
	Response string
	Err      error

	mu       sync.Mutex
	requests []generation.Request
}

// Ensure MockProvider implements generation.Provider.
var _ generation.Provider = (*MockProvider)(nil)

// Name implements generation.Provider.
func (m *MockProvider) Name() string {
	return "mock"
}

// Complete implements generation.Provider.
func (m *MockProvider) Complete(ctx context.Context, req generation.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, req)
	}
	return m.Response, m.Err
}

// Requests returns a copy of the requests received so far.
func (m *MockProvider) Requests() []generation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]generation.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of Complete calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// NewMockProviderWithResponse creates a MockProvider that returns text.
func NewMockProviderWithResponse(text string) *MockProvider {
	return &MockProvider{Response: text}
}

// NewMockProviderWithError creates a MockProvider that returns err.
func NewMockProviderWithError(err error) *MockProvider {
	return &MockProvider{Err: err}
}
