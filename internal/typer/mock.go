package typer

import (
	"context"
	"sync"
)

// MockTyper records typed text for tests.
type MockTyper struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func NewMockTyper() *MockTyper {
	return &MockTyper{}
}

func (m *MockTyper) Type(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, Sanitize(text))
	return nil
}

// Fail makes subsequent Type calls return err.
func (m *MockTyper) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockTyper) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
