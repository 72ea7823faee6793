// Package domain contains pure, dependency-free domain models and types
// for the judging aggregation engine.
package domain

import (
	"fmt"
	"time"
)

// EventStatus represents the lifecycle phase of a judged event.
// Transitions are strictly monotonic: draft -> open -> judging -> closed.
type EventStatus string

// Valid event lifecycle statuses.
const (
	// EventDraft is the initial phase in which organizers configure the
	// event, its criteria, and its submission form.
	EventDraft EventStatus = "draft"

	// EventOpen accepts participant submissions.
	EventOpen EventStatus = "open"

	// EventJudging is the phase in which judges review submissions.
	// Reviews may only be created or updated while the event is judging.
	EventJudging EventStatus = "judging"

	// EventClosed is terminal; no further mutations are valid.
	EventClosed EventStatus = "closed"
)

// statusOrder maps each status to its position in the lifecycle.
var statusOrder = map[EventStatus]int{
	EventDraft:   0,
	EventOpen:    1,
	EventJudging: 2,
	EventClosed:  3,
}

// IsValid reports whether the status is one of the four lifecycle phases.
func (s EventStatus) IsValid() bool {
	_, ok := statusOrder[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a valid forward
// step. Only single-step forward transitions are permitted; skipping phases
// or moving backward is invalid.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}

// Event represents a judged competition instance.
type Event struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`

	// Name is the organizer-facing event title.
	Name string `json:"name"`

	// Status is the current lifecycle phase.
	Status EventStatus `json:"status"`

	// JudgesPerSubmission is the target number of distinct judges each
	// submission should receive during assignment.
	JudgesPerSubmission int `json:"judges_per_submission"`
}

// Criterion is a weighted, bounded numeric judging dimension defined per
// event. Criteria are immutable once the event leaves draft.
type Criterion struct {
	// ID uniquely identifies the criterion.
	ID string `json:"id"`

	// EventID is the owning event.
	EventID string `json:"event_id"`

	// Name is the display label, e.g. "Technical Execution".
	Name string `json:"name"`

	// ScaleMin and ScaleMax are the inclusive score bounds.
	// ScaleMin must be strictly less than ScaleMax.
	ScaleMin float64 `json:"scale_min"`
	ScaleMax float64 `json:"scale_max"`

	// Weight is the positive multiplier applied to this criterion's mean
	// when computing a submission's composite score.
	Weight float64 `json:"weight"`

	// SortOrder controls presentation order.
	SortOrder int `json:"sort_order"`
}

// InRange reports whether score lies within the criterion's inclusive bounds.
func (c Criterion) InRange(score float64) bool {
	return score >= c.ScaleMin && score <= c.ScaleMax
}

// Judge identifies a reviewer enrolled in an event. CurrentLoad carries the
// judge's pre-existing assignment count; it is informational only and does
// not bias round-robin selection.
type Judge struct {
	// ID uniquely identifies the judge.
	ID string `json:"id"`

	// Name is the judge's display name.
	Name string `json:"name"`

	// CurrentLoad is the number of submissions already assigned to this
	// judge before the current assignment run.
	CurrentLoad int `json:"current_load"`
}

// Submission is a participant's entry to an event. FormData is an opaque
// key-value map; the engine interprets it only to derive a display name.
type Submission struct {
	// ID uniquely identifies the submission.
	ID string `json:"id"`

	// EventID is the owning event.
	EventID string `json:"event_id"`

	// ParticipantID identifies the submitting participant. At most one
	// submission per participant per event.
	ParticipantID string `json:"participant_id"`

	// FormData holds the participant's answers keyed by form field.
	FormData map[string]any `json:"form_data"`

	// SubmittedAt records when the entry was received.
	SubmittedAt time.Time `json:"submitted_at"`
}

// displayNameKeys are probed in order when deriving a submission's display
// name from its opaque form data.
var displayNameKeys = []string{"project_name", "name", "title"}

// DisplayName derives a human-readable label for the submission from its
// form data. It probes well-known keys first, then falls back to the first
// non-empty string value, and finally to a truncated submission id.
func (s Submission) DisplayName() string {
	for _, key := range displayNameKeys {
		if v, ok := s.FormData[key].(string); ok && v != "" {
			return v
		}
	}
	for _, v := range s.FormData {
		if str, ok := v.(string); ok && str != "" {
			return str
		}
	}
	id := s.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("Submission %s", id)
}

// AssignmentStatus tracks whether a judge has completed their review for an
// assigned submission.
type AssignmentStatus string

// Assignment statuses. An assignment transitions pending -> completed exactly
// once, triggered by a successful review upsert, and is never otherwise
// mutated.
const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentCompleted AssignmentStatus = "completed"
)

// JudgeAssignment pairs a judge with a submission they must review.
// At most one assignment exists per (judge, submission) pair per event.
type JudgeAssignment struct {
	// ID uniquely identifies the assignment.
	ID string `json:"id"`

	// EventID is the owning event.
	EventID string `json:"event_id"`

	// JudgeID identifies the obligated judge.
	JudgeID string `json:"judge_id"`

	// SubmissionID identifies the submission to review.
	SubmissionID string `json:"submission_id"`

	// Status is pending until the judge submits a review.
	Status AssignmentStatus `json:"status"`

	// AssignedAt records creation time and defines queue order.
	AssignedAt time.Time `json:"assigned_at"`
}

// Review is a judge's completed scoring for one submission: one numeric
// value per event criterion plus free-text notes. At most one review exists
// per (submission, judge) pair; subsequent submissions replace scores and
// notes rather than creating new rows.
type Review struct {
	// ID uniquely identifies the review.
	ID string `json:"id"`

	// SubmissionID identifies the reviewed submission.
	SubmissionID string `json:"submission_id"`

	// JudgeID identifies the reviewing judge.
	JudgeID string `json:"judge_id"`

	// EventID is the owning event.
	EventID string `json:"event_id"`

	// Scores maps criterion id to the judge's numeric score. The key set
	// must equal the event's criterion id set, and every value must lie
	// within its criterion's inclusive scale bounds.
	Scores map[string]float64 `json:"scores"`

	// Notes holds the judge's free-text commentary.
	Notes string `json:"notes"`

	// SubmittedAt records when the review was first submitted.
	SubmittedAt time.Time `json:"submitted_at"`
}
