package ports

import (
	"context"
	"errors"

	"github.com/juryline/engine/internal/domain"
)

// ErrAgentDeclined indicates that the optional external agent produced no
// usable result for a proposal. It is not a failure: callers fall back to the
// deterministic algorithm. Timeouts and malformed responses are treated
// identically to an explicit decline.
var ErrAgentDeclined = errors.New("agent declined")

// AssignmentInput carries the data an external agent needs to propose a
// judge-to-submission assignment set.
type AssignmentInput struct {
	// Judges is the event's judge roster, including informational current
	// load counts.
	Judges []domain.Judge `json:"judges"`

	// Submissions is the full submission list for the event.
	Submissions []domain.Submission `json:"submissions"`

	// JudgesPerSubmission is the target distinct-judge count per
	// submission.
	JudgesPerSubmission int `json:"judges_per_submission"`
}

// FeedbackInput carries the data an external agent needs to summarize a
// submission's reviews into qualitative feedback.
type FeedbackInput struct {
	Submission domain.Submission  `json:"submission"`
	Reviews    []domain.Review    `json:"reviews"`
	Criteria   []domain.Criterion `json:"criteria"`
}

// AgentClient is the optional external AI strategy the engine may delegate
// to before running its deterministic algorithms. Every method either
// returns a usable result or ErrAgentDeclined; any other error is treated by
// callers as a decline as well. The deterministic fallback is the contract
// of record, so implementations never need to be correct, only optional.
//
// Implementations must bound their own latency; a slow agent must not block
// the fallback path beyond its configured timeout.
type AgentClient interface {
	// ProposeAssignment asks the agent for a complete assignment set.
	ProposeAssignment(ctx context.Context, input AssignmentInput) (*domain.AssignmentResult, error)

	// ProposeValidation asks the agent to validate and normalize raw
	// submission form data.
	ProposeValidation(ctx context.Context, formData map[string]any) (*domain.ValidationOutcome, error)

	// ProposeFeedback asks the agent to produce a qualitative feedback
	// summary for a reviewed submission.
	ProposeFeedback(ctx context.Context, input FeedbackInput) (*domain.Feedback, error)
}
