package llm

import (
	"context"
	"sync"
)

// MockClient is a configurable LLM client for testing.
// Set Response/Error to control what Complete returns.
type MockClient struct {
	mu sync.Mutex

	Response string
	Error    error

	// Call tracking for assertions
	Calls []string
}

func NewMockClient() *MockClient {
	return &MockClient{Response: `{"nodes":[],"edges":[]}`}
}

func (m *MockClient) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, prompt)
	if m.Error != nil {
		return "", m.Error
	}
	return m.Response, nil
}

func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Reset clears all call tracking.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
}
