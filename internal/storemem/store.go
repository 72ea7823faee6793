// Package storemem provides an in-memory EntityStore implementation. It
// backs the engine's tests and serves as the reference accessor semantics:
// stable list ordering, uniqueness invariants on assignments and reviews,
// and atomic assignment replacement.
package storemem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/juryline/engine/internal/domain"
	"github.com/juryline/engine/internal/ports"
)

var _ ports.EntityStore = (*Store)(nil)

// Store is a mutex-guarded in-memory entity store. All returned slices and
// maps are copies; callers can mutate them freely without affecting stored
// state.
type Store struct {
	mu sync.RWMutex

	events      map[string]domain.Event
	judges      map[string][]domain.Judge // keyed by event id
	submissions map[string][]domain.Submission
	criteria    map[string][]domain.Criterion
	assignments map[string]domain.JudgeAssignment // keyed by assignment id
	reviews     map[string]domain.Review          // keyed by review id

	// assignSeq breaks AssignedAt ties so queue order is stable even when
	// a whole batch lands in the same clock tick.
	assignSeq map[string]int
	seq       int

	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		events:      make(map[string]domain.Event),
		judges:      make(map[string][]domain.Judge),
		submissions: make(map[string][]domain.Submission),
		criteria:    make(map[string][]domain.Criterion),
		assignments: make(map[string]domain.JudgeAssignment),
		reviews:     make(map[string]domain.Review),
		assignSeq:   make(map[string]int),
		now:         time.Now,
	}
}

// PutEvent stores or replaces an event.
func (s *Store) PutEvent(event domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event
}

// TransitionEvent advances an event's status. The transition must be a
// single forward step in the lifecycle.
func (s *Store) TransitionEvent(eventID string, next domain.EventStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[eventID]
	if !ok {
		return ports.NewStoreError("TransitionEvent", eventID, domain.ErrEventNotFound)
	}
	if !event.Status.CanTransitionTo(next) {
		return fmt.Errorf("%s -> %s: %w", event.Status, next, domain.ErrInvalidTransition)
	}
	event.Status = next
	s.events[eventID] = event
	return nil
}

// PutJudges sets the judge roster for an event.
func (s *Store) PutJudges(eventID string, judges ...domain.Judge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.judges[eventID] = append([]domain.Judge(nil), judges...)
}

// PutSubmissions appends submissions for an event.
func (s *Store) PutSubmissions(eventID string, subs ...domain.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[eventID] = append(s.submissions[eventID], subs...)
}

// PutCriteria sets the criteria for an event.
func (s *Store) PutCriteria(eventID string, criteria ...domain.Criterion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria[eventID] = append([]domain.Criterion(nil), criteria...)
}

// GetEvent implements ports.EntityStore.
func (s *Store) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[eventID]
	if !ok {
		return domain.Event{}, fmt.Errorf("event %s: %w", eventID, domain.ErrEventNotFound)
	}
	return event, nil
}

// ListJudgesForEvent implements ports.EntityStore.
func (s *Store) ListJudgesForEvent(_ context.Context, eventID string) ([]domain.Judge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Judge(nil), s.judges[eventID]...), nil
}

// ListSubmissions implements ports.EntityStore.
func (s *Store) ListSubmissions(_ context.Context, eventID string) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Submission(nil), s.submissions[eventID]...), nil
}

// ListCriteria implements ports.EntityStore. Criteria are returned in sort
// order.
func (s *Store) ListCriteria(_ context.Context, eventID string) ([]domain.Criterion, error) {
	s.mu.RLock()
	criteria := append([]domain.Criterion(nil), s.criteria[eventID]...)
	s.mu.RUnlock()

	sort.SliceStable(criteria, func(i, j int) bool {
		return criteria[i].SortOrder < criteria[j].SortOrder
	})
	return criteria, nil
}

// matchAssignment reports whether an assignment satisfies the filter.
func matchAssignment(a domain.JudgeAssignment, f ports.AssignmentFilter) bool {
	if f.EventID != "" && a.EventID != f.EventID {
		return false
	}
	if f.JudgeID != "" && a.JudgeID != f.JudgeID {
		return false
	}
	if f.SubmissionID != "" && a.SubmissionID != f.SubmissionID {
		return false
	}
	return true
}

// ListAssignments implements ports.EntityStore. Results are ordered by
// creation time ascending, which defines judge queue order.
func (s *Store) ListAssignments(_ context.Context, filter ports.AssignmentFilter) ([]domain.JudgeAssignment, error) {
	s.mu.RLock()
	matched := make([]domain.JudgeAssignment, 0, len(s.assignments))
	seqs := make(map[string]int, len(s.assignments))
	for id, a := range s.assignments {
		if matchAssignment(a, filter) {
			matched = append(matched, a)
			seqs[id] = s.assignSeq[id]
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return seqs[matched[i].ID] < seqs[matched[j].ID]
	})
	return matched, nil
}

// ReplaceAssignments implements ports.EntityStore. The old set for the event
// is discarded and the new one installed under a single lock acquisition, so
// concurrent replacements for the same event serialize rather than
// interleave.
func (s *Store) ReplaceAssignments(_ context.Context, eventID string, pairs []domain.AssignmentPair) ([]domain.JudgeAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[domain.AssignmentPair]struct{}, len(pairs))
	for _, p := range pairs {
		if _, dup := seen[p]; dup {
			return nil, ports.NewStoreError("ReplaceAssignments", eventID,
				fmt.Errorf("duplicate pair judge=%s submission=%s: %w", p.JudgeID, p.SubmissionID, ports.ErrConflict))
		}
		seen[p] = struct{}{}
	}

	for id, a := range s.assignments {
		if a.EventID == eventID {
			delete(s.assignments, id)
			delete(s.assignSeq, id)
		}
	}

	created := make([]domain.JudgeAssignment, 0, len(pairs))
	now := s.now()
	for _, p := range pairs {
		a := domain.JudgeAssignment{
			ID:           uuid.NewString(),
			EventID:      eventID,
			JudgeID:      p.JudgeID,
			SubmissionID: p.SubmissionID,
			Status:       domain.AssignmentPending,
			AssignedAt:   now,
		}
		s.seq++
		s.assignments[a.ID] = a
		s.assignSeq[a.ID] = s.seq
		created = append(created, a)
	}
	return created, nil
}

// CompleteAssignment implements ports.EntityStore. Completing an already
// completed assignment is a no-op.
func (s *Store) CompleteAssignment(_ context.Context, assignmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[assignmentID]
	if !ok {
		return ports.NewStoreError("CompleteAssignment", "",
			fmt.Errorf("assignment %s: %w", assignmentID, ports.ErrNotFound))
	}
	a.Status = domain.AssignmentCompleted
	s.assignments[assignmentID] = a
	return nil
}

// matchReview reports whether a review satisfies the filter.
func matchReview(r domain.Review, f ports.ReviewFilter) bool {
	if f.EventID != "" && r.EventID != f.EventID {
		return false
	}
	if f.JudgeID != "" && r.JudgeID != f.JudgeID {
		return false
	}
	if f.SubmissionID != "" && r.SubmissionID != f.SubmissionID {
		return false
	}
	return true
}

// ListReviews implements ports.EntityStore. Results are ordered by
// submission time ascending.
func (s *Store) ListReviews(_ context.Context, filter ports.ReviewFilter) ([]domain.Review, error) {
	s.mu.RLock()
	matched := make([]domain.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		if matchReview(r, filter) {
			matched = append(matched, copyReview(r))
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].SubmittedAt.Equal(matched[j].SubmittedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].SubmittedAt.Before(matched[j].SubmittedAt)
	})
	return matched, nil
}

// UpsertReview implements ports.EntityStore. The (submission, judge) pair is
// unique: a second submission replaces scores and notes in place, keeping
// the original id and submission time.
func (s *Store) UpsertReview(_ context.Context, review domain.Review) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.reviews {
		if existing.SubmissionID == review.SubmissionID && existing.JudgeID == review.JudgeID {
			existing.Scores = copyScores(review.Scores)
			existing.Notes = review.Notes
			s.reviews[id] = existing
			return copyReview(existing), nil
		}
	}

	review.ID = uuid.NewString()
	review.SubmittedAt = s.now()
	review.Scores = copyScores(review.Scores)
	s.reviews[review.ID] = review
	return copyReview(review), nil
}

func copyScores(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

func copyReview(r domain.Review) domain.Review {
	r.Scores = copyScores(r.Scores)
	return r
}
