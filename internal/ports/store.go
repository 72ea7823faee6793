// Package ports defines the core interfaces that form the contract between
// the domain/engine layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/juryline/engine/internal/domain"
)

// AssignmentFilter narrows ListAssignments queries. Zero-value fields are
// ignored; set fields are ANDed together.
type AssignmentFilter struct {
	// EventID restricts results to one event.
	EventID string

	// JudgeID restricts results to one judge.
	JudgeID string

	// SubmissionID restricts results to one submission.
	SubmissionID string
}

// ReviewFilter narrows ListReviews queries. Zero-value fields are ignored;
// set fields are ANDed together.
type ReviewFilter struct {
	// EventID restricts results to one event.
	EventID string

	// JudgeID restricts results to one judge.
	JudgeID string

	// SubmissionID restricts results to one submission.
	SubmissionID string
}

// EntityStore supplies read/write access to the judging entities held in the
// external transactional store. The engine never owns persistent state; every
// computation is a pure function of the snapshot these methods return.
//
// Implementations must enforce the uniqueness invariants from the data model:
// at most one assignment per (judge, submission) pair per event, at most one
// review per (submission, judge) pair, and one submission per participant
// per event.
type EntityStore interface {
	// GetEvent returns the event with the given id.
	// Returns domain.ErrEventNotFound when no such event exists.
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)

	// ListJudgesForEvent returns the judges enrolled in an event.
	// The order is stable across calls for the same underlying data.
	ListJudgesForEvent(ctx context.Context, eventID string) ([]domain.Judge, error)

	// ListSubmissions returns an event's submissions in a stable order.
	ListSubmissions(ctx context.Context, eventID string) ([]domain.Submission, error)

	// ListCriteria returns an event's criteria ordered by sort order.
	ListCriteria(ctx context.Context, eventID string) ([]domain.Criterion, error)

	// ListAssignments returns assignments matching the filter, ordered by
	// creation time ascending. That order defines judge queue order.
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]domain.JudgeAssignment, error)

	// ReplaceAssignments atomically discards every existing assignment for
	// the event and installs the new set. Concurrent replacements for the
	// same event must serialize; a conflicting replacement fails with a
	// retryable StoreError rather than interleaving deletes and inserts.
	ReplaceAssignments(ctx context.Context, eventID string, pairs []domain.AssignmentPair) ([]domain.JudgeAssignment, error)

	// CompleteAssignment transitions an assignment to completed. The
	// transition happens at most once; completing an already completed
	// assignment is a no-op.
	CompleteAssignment(ctx context.Context, assignmentID string) error

	// ListReviews returns reviews matching the filter.
	ListReviews(ctx context.Context, filter ReviewFilter) ([]domain.Review, error)

	// UpsertReview creates the judge's review for a submission, or
	// replaces its scores and notes when one already exists. The
	// (submission, judge) pair is unique; repeated submissions never
	// create additional rows.
	UpsertReview(ctx context.Context, review domain.Review) (domain.Review, error)
}
