package narrative

import (
	"context"
	"sync"
	"time"
)

// Mock implements Generator for testing.
type Mock struct {
	// GenerateFunc is called when Generate is invoked.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu    sync.Mutex
	calls []MockCall
}

// Compile-time interface check.
var _ Generator = (*Mock)(nil)

// MockCall records a Generate invocation.
type MockCall struct {
	Prompt string
	Time   time.Time
}

// NewMock creates a mock generator returning canned text.
func NewMock() *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "Mock explanation text.", nil
		},
	}
}

// WithError returns a mock whose Generate always fails with err.
func WithError(err error) *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", err
		},
	}
}

// Name identifies the generator.
func (m *Mock) Name() string {
	return "mock"
}

// Generate calls GenerateFunc and records the call.
func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Prompt: prompt, Time: time.Now()})
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", ErrDisabled
}

// Calls returns all recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Generate invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
