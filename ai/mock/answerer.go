package mock

import (
	"context"
	"sync"
)

// MockAnswerGenerator is a test double for ai.AnswerGenerator.
type MockAnswerGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	GenerateAnswerFunc func(ctx context.Context, question, knowledge string) (string, error)

	mu            sync.Mutex
	callCount     int
	lastKnowledge string
}

// NewMockAnswerGenerator creates a mock answer generator with default behavior.
func NewMockAnswerGenerator() *MockAnswerGenerator {
	return &MockAnswerGenerator{}
}

// GenerateAnswer returns "Answer: <question>".
func (m *MockAnswerGenerator) GenerateAnswer(ctx context.Context, question, knowledge string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastKnowledge = knowledge
	fn := m.GenerateAnswerFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, question, knowledge)
	}
	return "Answer: " + question, nil
}

// CallCount returns the number of GenerateAnswer calls.
func (m *MockAnswerGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastKnowledge returns the knowledge passed to the most recent call.
func (m *MockAnswerGenerator) LastKnowledge() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastKnowledge
}
