package services

import (
	"context"
	"sync"
)

// MockReply is the canned reply returned when no GenerateFunc is set.
const MockReply = `{"대사": "...누구야? 여기 있으면 위험해.", "행동": "문 쪽을 경계하며 뒤로 물러선다", "속마음": "믿어도 될까?"}`

// MockLLMAPI is a mock implementation of LLMService for testing
type MockLLMAPI struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	// Track calls for testing
	GenerateCalls []string

	mu sync.Mutex // protects all fields above
}

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		GenerateCalls: make([]string, 0),
	}
}

func (m *MockLLMAPI) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, prompt)
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return MockReply, nil
}

// Reset clears all recorded calls and hooks
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateCalls = make([]string, 0)
	m.GenerateFunc = nil
}

// SetGenerateError makes every Generate call fail with err
func (m *MockLLMAPI) SetGenerateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", err
	}
}

// SetReplies makes Generate return the given replies in order, repeating the
// last one once they run out.
func (m *MockLLMAPI) SetReplies(replies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var next int
	m.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if len(replies) == 0 {
			return "", ErrEmptyResponse
		}
		r := replies[min(next, len(replies)-1)]
		next++
		return r, nil
	}
}

// GetCalls returns a copy of the recorded prompts
func (m *MockLLMAPI) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.GenerateCalls...)
}
