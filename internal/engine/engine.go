package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/juryline/engine/internal/domain"
	"github.com/juryline/engine/internal/ports"
)

// Metric names reported through the MetricsCollector.
const (
	metricAgentDeclined   = "agent_declined_total"
	metricFallbackUsed    = "deterministic_fallback_total"
	metricReviewRejected  = "review_rejected_total"
	metricOperationTotal  = "engine_operations_total"
	metricAssignmentBatch = "assignment_batch_size"
)

// Engine is the judging aggregation engine facade. It owns no state beyond
// its collaborators and configuration; every operation is a pure function of
// the snapshot read from the entity store, so unrelated events may be
// processed concurrently without locking.
type Engine struct {
	store   ports.EntityStore
	agent   ports.AgentClient
	metrics ports.MetricsCollector
	cfg     Config
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithAgent attaches the optional external agent strategy. When set, the
// engine consults it before running deterministic algorithms and falls back
// on any decline, timeout, or malformed response.
func WithAgent(agent ports.AgentClient) Option {
	return func(e *Engine) { e.agent = agent }
}

// WithMetrics attaches a metrics collector. The default discards all
// observations.
func WithMetrics(metrics ports.MetricsCollector) Option {
	return func(e *Engine) { e.metrics = metrics }
}

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// New creates an Engine backed by the given entity store.
// Returns an error when store is nil or the configuration is invalid.
func New(store ports.EntityStore, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("entity store is required")
	}

	e := &Engine{
		store:   store,
		metrics: ports.NopMetrics{},
		cfg:     DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// agentContext derives the bounded context for an external agent call.
func (e *Engine) agentContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.AgentTimeoutSeconds <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.cfg.AgentTimeout())
}

// observe records a completed operation and its latency.
func (e *Engine) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordCounter(metricOperationTotal, 1, map[string]string{"operation": operation, "status": status})
	e.metrics.RecordLatency(operation, time.Since(start), map[string]string{"operation": operation})
}

// RecomputeAssignments replaces the event's assignment set with a freshly
// computed one. The event must be in the judging phase.
//
// When an agent is configured, its proposal is consulted first under the
// configured timeout; a decline, error, or unusable proposal (empty while
// judges and submissions exist, unknown ids, duplicate pairs) routes to the
// deterministic round-robin fallback, which independently satisfies every
// assignment invariant.
//
// The delete-and-insert step runs atomically in the store; a serialization
// conflict from a concurrent recompute for the same event surfaces as a
// retryable StoreError rather than corrupting the assignment set.
func (e *Engine) RecomputeAssignments(ctx context.Context, eventID string) (result domain.AssignmentResult, err error) {
	defer func(start time.Time) { e.observe("recompute_assignments", start, err) }(time.Now())

	event, err := e.store.GetEvent(ctx, eventID)
	if err != nil {
		return domain.AssignmentResult{}, fmt.Errorf("load event: %w", err)
	}
	if event.Status != domain.EventJudging {
		return domain.AssignmentResult{}, fmt.Errorf("event %s: %w", eventID, domain.ErrEventNotJudging)
	}

	judges, err := e.store.ListJudgesForEvent(ctx, eventID)
	if err != nil {
		return domain.AssignmentResult{}, fmt.Errorf("load judges: %w", err)
	}
	submissions, err := e.store.ListSubmissions(ctx, eventID)
	if err != nil {
		return domain.AssignmentResult{}, fmt.Errorf("load submissions: %w", err)
	}

	result = e.computeAssignments(ctx, judges, submissions, event.JudgesPerSubmission)

	if _, err = e.store.ReplaceAssignments(ctx, eventID, result.Assignments); err != nil {
		return domain.AssignmentResult{}, fmt.Errorf("replace assignments: %w", err)
	}

	e.metrics.RecordHistogram(metricAssignmentBatch, float64(len(result.Assignments)),
		map[string]string{"strategy": result.Strategy})
	return result, nil
}

// computeAssignments produces the assignment set, delegating to the agent
// when configured and falling back to round robin otherwise.
func (e *Engine) computeAssignments(ctx context.Context, judges []domain.Judge, submissions []domain.Submission, perSubmission int) domain.AssignmentResult {
	if e.agent != nil {
		agentCtx, cancel := e.agentContext(ctx)
		proposal, err := e.agent.ProposeAssignment(agentCtx, ports.AssignmentInput{
			Judges:              judges,
			Submissions:         submissions,
			JudgesPerSubmission: perSubmission,
		})
		cancel()

		switch {
		case err != nil:
			e.metrics.RecordCounter(metricAgentDeclined, 1, map[string]string{"operation": "propose_assignment"})
		case !vetProposal(proposal, judges, submissions):
			e.metrics.RecordCounter(metricAgentDeclined, 1, map[string]string{"operation": "propose_assignment"})
		default:
			return domain.AssignmentResult{
				Assignments: proposal.Assignments,
				JudgeLoads:  loadsFromPairs(judges, proposal.Assignments),
				Strategy:    domain.StrategyAgent,
			}
		}
		e.metrics.RecordCounter(metricFallbackUsed, 1, map[string]string{"operation": "propose_assignment"})
	}

	return RoundRobin(judges, submissions, perSubmission)
}

// JudgeQueue builds the ordered, resumable review queue for one judge and
// one event. Access control is the caller's responsibility; this operation
// assumes the judge is enrolled in the event.
func (e *Engine) JudgeQueue(ctx context.Context, judgeID, eventID string) (queue domain.JudgeQueue, err error) {
	defer func(start time.Time) { e.observe("judge_queue", start, err) }(time.Now())

	assignments, err := e.store.ListAssignments(ctx, ports.AssignmentFilter{EventID: eventID, JudgeID: judgeID})
	if err != nil {
		return domain.JudgeQueue{}, fmt.Errorf("load assignments: %w", err)
	}
	submissions, err := e.store.ListSubmissions(ctx, eventID)
	if err != nil {
		return domain.JudgeQueue{}, fmt.Errorf("load submissions: %w", err)
	}
	reviews, err := e.store.ListReviews(ctx, ports.ReviewFilter{EventID: eventID, JudgeID: judgeID})
	if err != nil {
		return domain.JudgeQueue{}, fmt.Errorf("load reviews: %w", err)
	}

	return BuildQueue(assignments, submissions, reviews), nil
}

// SubmitReview validates and upserts a judge's review for a submission, then
// marks the corresponding assignment completed.
//
// The judge must hold an assignment for the submission, the event must be in
// the judging phase, and the scores must satisfy the review invariant:
// exactly the event's criterion ids, each value within its criterion's
// bounds. Violations are rejected before persistence with one message per
// offending field.
func (e *Engine) SubmitReview(ctx context.Context, judgeID, submissionID string, scores map[string]float64, notes string) (review domain.Review, err error) {
	defer func(start time.Time) { e.observe("submit_review", start, err) }(time.Now())

	assignments, err := e.store.ListAssignments(ctx, ports.AssignmentFilter{JudgeID: judgeID, SubmissionID: submissionID})
	if err != nil {
		return domain.Review{}, fmt.Errorf("load assignment: %w", err)
	}
	if len(assignments) == 0 {
		return domain.Review{}, fmt.Errorf("judge %s, submission %s: %w", judgeID, submissionID, domain.ErrNotAssigned)
	}
	assignment := assignments[0]

	event, err := e.store.GetEvent(ctx, assignment.EventID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("load event: %w", err)
	}
	if event.Status != domain.EventJudging {
		return domain.Review{}, fmt.Errorf("event %s: %w", event.ID, domain.ErrEventNotJudging)
	}

	criteria, err := e.store.ListCriteria(ctx, assignment.EventID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("load criteria: %w", err)
	}
	if err = domain.ValidateScores(criteria, scores); err != nil {
		e.metrics.RecordCounter(metricReviewRejected, 1, map[string]string{"event_id": event.ID})
		return domain.Review{}, err
	}

	review, err = e.store.UpsertReview(ctx, domain.Review{
		SubmissionID: submissionID,
		JudgeID:      judgeID,
		EventID:      assignment.EventID,
		Scores:       scores,
		Notes:        notes,
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("upsert review: %w", err)
	}

	if err = e.store.CompleteAssignment(ctx, assignment.ID); err != nil {
		return domain.Review{}, fmt.Errorf("complete assignment: %w", err)
	}
	return review, nil
}

// ValidateSubmission validates raw submission form data through the agent
// when configured. Declines fall back to a pass-through outcome that accepts
// the data unchanged; dynamic form-schema validation is out of scope here.
func (e *Engine) ValidateSubmission(ctx context.Context, formData map[string]any) (outcome domain.ValidationOutcome, err error) {
	defer func(start time.Time) { e.observe("validate_submission", start, err) }(time.Now())

	if e.agent != nil {
		agentCtx, cancel := e.agentContext(ctx)
		result, agentErr := e.agent.ProposeValidation(agentCtx, formData)
		cancel()

		if agentErr == nil && result != nil {
			return *result, nil
		}
		e.metrics.RecordCounter(metricAgentDeclined, 1, map[string]string{"operation": "propose_validation"})
		e.metrics.RecordCounter(metricFallbackUsed, 1, map[string]string{"operation": "propose_validation"})
	}

	return domain.ValidationOutcome{
		Valid:      true,
		Warnings:   []string{},
		Errors:     []string{},
		Normalized: formData,
	}, nil
}

// GenerateFeedback produces a qualitative feedback summary for a reviewed
// submission, delegating to the agent when configured and otherwise building
// a deterministic summary from the submission's review scores.
func (e *Engine) GenerateFeedback(ctx context.Context, eventID, submissionID string) (fb domain.Feedback, err error) {
	defer func(start time.Time) { e.observe("generate_feedback", start, err) }(time.Now())

	submissions, err := e.store.ListSubmissions(ctx, eventID)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("load submissions: %w", err)
	}
	var submission domain.Submission
	found := false
	for _, s := range submissions {
		if s.ID == submissionID {
			submission = s
			found = true
			break
		}
	}
	if !found {
		return domain.Feedback{}, fmt.Errorf("submission %s: %w", submissionID, ports.ErrNotFound)
	}

	reviews, err := e.store.ListReviews(ctx, ports.ReviewFilter{EventID: eventID, SubmissionID: submissionID})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("load reviews: %w", err)
	}
	criteria, err := e.store.ListCriteria(ctx, eventID)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("load criteria: %w", err)
	}

	if e.agent != nil {
		agentCtx, cancel := e.agentContext(ctx)
		result, agentErr := e.agent.ProposeFeedback(agentCtx, ports.FeedbackInput{
			Submission: submission,
			Reviews:    reviews,
			Criteria:   criteria,
		})
		cancel()

		if agentErr == nil && result != nil {
			return *result, nil
		}
		e.metrics.RecordCounter(metricAgentDeclined, 1, map[string]string{"operation": "propose_feedback"})
		e.metrics.RecordCounter(metricFallbackUsed, 1, map[string]string{"operation": "propose_feedback"})
	}

	return fallbackFeedback(submission, reviews, criteria), nil
}

// Leaderboard computes the ranked leaderboard for an event. Submissions with
// zero reviews are excluded; an event with no criteria or no reviews yields
// an empty leaderboard, never an error.
func (e *Engine) Leaderboard(ctx context.Context, eventID string) (lb domain.Leaderboard, err error) {
	defer func(start time.Time) { e.observe("leaderboard", start, err) }(time.Now())

	criteria, err := e.store.ListCriteria(ctx, eventID)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("load criteria: %w", err)
	}
	submissions, err := e.store.ListSubmissions(ctx, eventID)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("load submissions: %w", err)
	}
	reviews, err := e.store.ListReviews(ctx, ports.ReviewFilter{EventID: eventID})
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("load reviews: %w", err)
	}

	return AggregateScores(criteria, submissions, reviews, e.cfg.OutlierThreshold), nil
}

// Progress computes the event's review completion report.
func (e *Engine) Progress(ctx context.Context, eventID string) (report domain.ProgressReport, err error) {
	defer func(start time.Time) { e.observe("progress", start, err) }(time.Now())

	assignments, err := e.store.ListAssignments(ctx, ports.AssignmentFilter{EventID: eventID})
	if err != nil {
		return domain.ProgressReport{}, fmt.Errorf("load assignments: %w", err)
	}
	return TrackProgress(assignments, e.cfg.LaggingFraction), nil
}

// BiasReport computes per-judge scoring deviation against the event mean.
func (e *Engine) BiasReport(ctx context.Context, eventID string) (report domain.BiasReport, err error) {
	defer func(start time.Time) { e.observe("bias_report", start, err) }(time.Now())

	reviews, err := e.store.ListReviews(ctx, ports.ReviewFilter{EventID: eventID})
	if err != nil {
		return domain.BiasReport{}, fmt.Errorf("load reviews: %w", err)
	}
	return DetectBias(reviews, e.cfg.BiasDeviationFactor), nil
}

// EventStats computes headline counts for an event dashboard.
func (e *Engine) EventStats(ctx context.Context, eventID string) (stats domain.EventStats, err error) {
	defer func(start time.Time) { e.observe("event_stats", start, err) }(time.Now())

	submissions, err := e.store.ListSubmissions(ctx, eventID)
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("load submissions: %w", err)
	}
	judges, err := e.store.ListJudgesForEvent(ctx, eventID)
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("load judges: %w", err)
	}
	reviews, err := e.store.ListReviews(ctx, ports.ReviewFilter{EventID: eventID})
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("load reviews: %w", err)
	}
	assignments, err := e.store.ListAssignments(ctx, ports.AssignmentFilter{EventID: eventID})
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("load assignments: %w", err)
	}

	completed := 0
	for _, a := range assignments {
		if a.Status == domain.AssignmentCompleted {
			completed++
		}
	}
	percent := 0.0
	if len(assignments) > 0 {
		percent = round1(float64(completed) / float64(len(assignments)) * 100)
	}

	stats = domain.EventStats{
		TotalSubmissions:  len(submissions),
		TotalJudges:       len(judges),
		TotalReviews:      len(reviews),
		ReviewsCompleted:  completed,
		ReviewsPending:    len(assignments) - completed,
		CompletionPercent: percent,
	}

	allScores := make([]float64, 0, len(reviews)*4)
	for _, r := range reviews {
		for _, s := range r.Scores {
			allScores = append(allScores, s)
		}
	}
	if len(allScores) > 0 {
		avg := round2(mean(allScores))
		stats.AvgScore = &avg
	}
	return stats, nil
}

// Dashboard bundles stats, leaderboard, progress, and bias for an event,
// computing the four read-only views concurrently. Each view is an
// independent pure function of the store snapshot, so the fan-out needs no
// coordination beyond the error group.
func (e *Engine) Dashboard(ctx context.Context, eventID string) (dash domain.Dashboard, err error) {
	defer func(start time.Time) { e.observe("dashboard", start, err) }(time.Now())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := e.EventStats(gctx, eventID)
		if err != nil {
			return err
		}
		dash.Stats = stats
		return nil
	})
	g.Go(func() error {
		lb, err := e.Leaderboard(gctx, eventID)
		if err != nil {
			return err
		}
		dash.Leaderboard = lb
		return nil
	})
	g.Go(func() error {
		progress, err := e.Progress(gctx, eventID)
		if err != nil {
			return err
		}
		dash.Progress = progress
		return nil
	})
	g.Go(func() error {
		bias, err := e.BiasReport(gctx, eventID)
		if err != nil {
			return err
		}
		dash.Bias = bias
		return nil
	})

	if err = g.Wait(); err != nil {
		return domain.Dashboard{}, err
	}
	return dash, nil
}
