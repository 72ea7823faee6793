// Package testutils provides shared test doubles for the judging engine.
package testutils

import (
	"context"
	"sync"

	"github.com/juryline/engine/internal/domain"
	"github.com/juryline/engine/internal/ports"
)

var _ ports.AgentClient = (*MockAgent)(nil)

// MockAgent is a scripted AgentClient for tests. Each Propose* method
// returns the configured result and error, defaulting to a decline when
// nothing is configured. Call counts are recorded for assertion.
type MockAgent struct {
	mu sync.Mutex

	AssignmentResult *domain.AssignmentResult
	AssignmentErr    error
	ValidationResult *domain.ValidationOutcome
	ValidationErr    error
	FeedbackResult   *domain.Feedback
	FeedbackErr      error

	// Block, when closed by the test, releases blocked calls. A non-nil
	// Block makes every call wait for it or for context cancellation,
	// simulating a slow agent.
	Block chan struct{}

	AssignmentCalls int
	ValidationCalls int
	FeedbackCalls   int

	// LastAssignmentInput captures the most recent proposal input.
	LastAssignmentInput ports.AssignmentInput
}

func (m *MockAgent) wait(ctx context.Context) error {
	if m.Block == nil {
		return nil
	}
	select {
	case <-m.Block:
		return nil
	case <-ctx.Done():
		return ports.NewAgentError("mock", "wait", ports.ErrTimeout)
	}
}

// ProposeAssignment implements ports.AgentClient.
func (m *MockAgent) ProposeAssignment(ctx context.Context, input ports.AssignmentInput) (*domain.AssignmentResult, error) {
	m.mu.Lock()
	m.AssignmentCalls++
	m.LastAssignmentInput = input
	result, err := m.AssignmentResult, m.AssignmentErr
	m.mu.Unlock()

	if werr := m.wait(ctx); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ports.ErrAgentDeclined
	}
	return result, nil
}

// ProposeValidation implements ports.AgentClient.
func (m *MockAgent) ProposeValidation(ctx context.Context, _ map[string]any) (*domain.ValidationOutcome, error) {
	m.mu.Lock()
	m.ValidationCalls++
	result, err := m.ValidationResult, m.ValidationErr
	m.mu.Unlock()

	if werr := m.wait(ctx); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ports.ErrAgentDeclined
	}
	return result, nil
}

// ProposeFeedback implements ports.AgentClient.
func (m *MockAgent) ProposeFeedback(ctx context.Context, _ ports.FeedbackInput) (*domain.Feedback, error) {
	m.mu.Lock()
	m.FeedbackCalls++
	result, err := m.FeedbackResult, m.FeedbackErr
	m.mu.Unlock()

	if werr := m.wait(ctx); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ports.ErrAgentDeclined
	}
	return result, nil
}
