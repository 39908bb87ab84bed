// Package mock provides a recording Caller for tests.
package mock

import (
	"context"
	"sync"

	"github.com/okhsunrog/big-five-tester/internal/ai"
)

// Caller satisfies ai.Caller and records every invocation. Safe for
// concurrent use.
type Caller struct {
	mu    sync.Mutex
	calls []ai.CallRequest

	// CallFunc handles each invocation. When nil, Call returns
	// "mock response" and no error.
	CallFunc func(ctx context.Context, req ai.CallRequest) (string, error)
}

func (m *Caller) Call(ctx context.Context, req ai.CallRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.CallFunc != nil {
		return m.CallFunc(ctx, req)
	}
	return "mock response", nil
}

// Calls returns a copy of all recorded invocations in order.
func (m *Caller) Calls() []ai.CallRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ai.CallRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of recorded invocations.
func (m *Caller) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// ByModel returns the recorded invocations that targeted the given model.
func (m *Caller) ByModel(model string) []ai.CallRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ai.CallRequest
	for _, c := range m.calls {
		if c.Model == model {
			out = append(out, c)
		}
	}
	return out
}

var _ ai.Caller = (*Caller)(nil)
