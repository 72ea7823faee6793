// Package agent provides a unified client for delegating judging decisions
// to external agent services, with built-in support for rate limiting,
// circuit breaking, retries, metrics, and tracing.
//
// The package abstracts multiple agent backends (A2A JSON-RPC, OpenAI,
// Anthropic) behind a common interface while adding operational
// cross-cutting concerns through a middleware pattern. The engine treats
// every client failure as a decline and falls back to its deterministic
// algorithms, so the client never needs to retry beyond its own policy.
//
// Basic usage:
//
//	client, err := agent.NewClient("a2a", agent.ClientConfig{
//	    APIKey:  os.Getenv("AGENT_API_KEY"),
//	    BaseURL: "https://agents.example.com",
//	    PromptIDs: map[string]string{
//	        agent.TaskAssign: "prompt-123",
//	    },
//	})
//	result, err := client.ProposeAssignment(ctx, input)
//
// Advanced usage with middleware:
//
//	client, err := agent.NewClient("openai", agent.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o",
//	    Middleware: []agent.Middleware{
//	        agent.RateLimitMiddleware(10, 20),
//	        agent.CircuitBreakerMiddleware(5, 30*time.Second),
//	        agent.MetricsMiddleware(metricsCollector),
//	    },
//	})
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/juryline/engine/internal/domain"
	"github.com/juryline/engine/internal/ports"
)

// Task names sent to agent backends. Each task maps to a dedicated prompt
// on the A2A backend and to a dedicated system prompt on chat backends.
const (
	// TaskAssign requests a judge-to-submission assignment proposal.
	TaskAssign = "assign"

	// TaskIngest requests validation and normalization of submission
	// form data.
	TaskIngest = "ingest"

	// TaskFeedback requests a qualitative feedback summary for a
	// reviewed submission.
	TaskFeedback = "feedback"
)

// CoreAgent defines the minimal interface that agent backends must
// implement. It abstracts the transport needed to run one named task,
// allowing the middleware system to wrap any conforming implementation.
type CoreAgent interface {
	// DoTask sends the JSON payload to the backend prompt for the named
	// task and returns the raw JSON result. Implementations strip any
	// reasoning markup and surrounding prose before returning, so the
	// result is ready for unmarshaling.
	DoTask(ctx context.Context, task string, payload []byte) ([]byte, error)

	// Provider returns the backend name for error wrapping and metric
	// labels.
	Provider() string
}

// ClientConfig holds all configuration options for creating an agent
// client. It centralizes backend settings, transport options, and
// middleware composition.
type ClientConfig struct {
	// APIKey authenticates requests to the agent backend.
	APIKey string

	// Model specifies which model chat backends should use.
	// Ignored by the A2A backend, which addresses prompts by id.
	Model string

	// BaseURL overrides the default API endpoint for the backend.
	// Required for the A2A backend, optional elsewhere.
	BaseURL string

	// Timeout sets the maximum duration for individual requests.
	// Zero value means no per-request timeout.
	Timeout time.Duration

	// PromptIDs maps task names to backend prompt ids. Only the A2A
	// backend uses this; a task without a prompt id is declined locally.
	PromptIDs map[string]string

	// Middleware allows custom middleware insertion.
	// These are applied in the order specified.
	Middleware []Middleware
}

// Middleware wraps a CoreAgent implementation to add cross-cutting
// functionality. This pattern allows composition of rate limiting, circuit
// breaking, retries, and observability without modifying backend logic.
type Middleware func(CoreAgent) CoreAgent

// ProviderFactory creates a CoreAgent implementation from configuration.
type ProviderFactory func(ClientConfig) (CoreAgent, error)

// Provider factory registry for extensibility. This allows registration of
// custom backends at runtime while keeping construction uniform.
var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a custom agent backend factory.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}

var _ ports.AgentClient = (*Client)(nil)

// Client implements ports.AgentClient on top of a CoreAgent backend. It
// marshals typed proposal inputs into task payloads and parses the raw
// JSON results back into domain types.
type Client struct {
	core CoreAgent
}

// NewClient creates an agent client for the named backend. The middleware
// chain is assembled here; the first middleware in the slice becomes the
// outermost wrapper.
func NewClient(providerType string, config ClientConfig) (*Client, error) {
	factory, ok := providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", providerType)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core}, nil
}

// NewClientWithCore wraps an existing CoreAgent. Useful for tests and for
// callers that assemble backends manually.
func NewClientWithCore(core CoreAgent) *Client {
	return &Client{core: core}
}

// assignPayload is the wire shape of the assignment task request.
type assignPayload struct {
	Judges              []domain.Judge      `json:"judges"`
	Submissions         []domain.Submission `json:"submissions"`
	JudgesPerSubmission int                 `json:"judges_per_submission"`
}

// feedbackPayload is the wire shape of the feedback task request.
type feedbackPayload struct {
	Submission domain.Submission  `json:"submission"`
	Reviews    []domain.Review    `json:"reviews"`
	Criteria   []domain.Criterion `json:"criteria"`
}

// ProposeAssignment implements ports.AgentClient. The proposal is returned
// as-is; vetting the pairs against the roster is the caller's concern.
func (c *Client) ProposeAssignment(ctx context.Context, input ports.AssignmentInput) (*domain.AssignmentResult, error) {
	var result domain.AssignmentResult
	if err := c.runTask(ctx, TaskAssign, assignPayload{
		Judges:              input.Judges,
		Submissions:         input.Submissions,
		JudgesPerSubmission: input.JudgesPerSubmission,
	}, &result); err != nil {
		return nil, err
	}
	if result.Strategy == "" {
		result.Strategy = domain.StrategyAgent
	}
	return &result, nil
}

// ProposeValidation implements ports.AgentClient. The form data is sent to
// the ingest task unwrapped, matching the backend prompt contract.
func (c *Client) ProposeValidation(ctx context.Context, formData map[string]any) (*domain.ValidationOutcome, error) {
	var outcome domain.ValidationOutcome
	if err := c.runTask(ctx, TaskIngest, formData, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// ProposeFeedback implements ports.AgentClient.
func (c *Client) ProposeFeedback(ctx context.Context, input ports.FeedbackInput) (*domain.Feedback, error) {
	var fb domain.Feedback
	if err := c.runTask(ctx, TaskFeedback, feedbackPayload{
		Submission: input.Submission,
		Reviews:    input.Reviews,
		Criteria:   input.Criteria,
	}, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// runTask marshals the payload, executes the task through the middleware
// chain, and unmarshals the result. A result that fails to parse is
// reported as an invalid response rather than a transport error.
func (c *Client) runTask(ctx context.Context, task string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return ports.NewAgentError(c.core.Provider(), task, fmt.Errorf("encode payload: %w", err))
	}

	raw, err := c.core.DoTask(ctx, task, body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return ports.NewAgentError(c.core.Provider(), task,
			fmt.Errorf("decode result: %v: %w", err, ports.ErrInvalidResponse))
	}
	return nil
}
