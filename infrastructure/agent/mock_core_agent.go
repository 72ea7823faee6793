package agent

import (
	"context"
	"sync"
)

var _ CoreAgent = (*MockCoreAgent)(nil)

// MockCoreAgent is a scripted CoreAgent for tests. Each call returns the
// configured result and error and records the invocation.
type MockCoreAgent struct {
	mu sync.Mutex

	// Result and Err are returned by every DoTask call unless DoTaskFunc
	// is set.
	Result []byte
	Err    error

	// DoTaskFunc, when set, replaces the canned Result/Err behavior.
	DoTaskFunc func(ctx context.Context, task string, payload []byte) ([]byte, error)

	// ProviderName defaults to "mock" when empty.
	ProviderName string

	Calls       int
	LastTask    string
	LastPayload []byte
}

// DoTask implements CoreAgent.
func (m *MockCoreAgent) DoTask(ctx context.Context, task string, payload []byte) ([]byte, error) {
	m.mu.Lock()
	m.Calls++
	m.LastTask = task
	m.LastPayload = append([]byte(nil), payload...)
	fn := m.DoTaskFunc
	result, err := m.Result, m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, task, payload)
	}
	return result, err
}

// Provider implements CoreAgent.
func (m *MockCoreAgent) Provider() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// CallCount returns how many tasks the mock received.
func (m *MockCoreAgent) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
