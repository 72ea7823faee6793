package engine

import (
	"github.com/juryline/engine/internal/domain"
)

// BuildQueue merges one judge's assignments, the event's submissions, and
// the judge's existing reviews into an ordered, resumable review queue.
//
// Queue order is the assignments slice order, which callers supply sorted by
// assignment creation time; no re-sorting is applied. Assignments whose
// submission is absent from the snapshot are skipped rather than failing the
// whole queue.
//
// CurrentIndex is the resume position: the first non-completed item, the
// last index when everything is completed, and 0 for an empty queue. An
// empty assignment list is a valid queue of length zero, not an error.
func BuildQueue(assignments []domain.JudgeAssignment, submissions []domain.Submission, reviews []domain.Review) domain.JudgeQueue {
	subsByID := make(map[string]domain.Submission, len(submissions))
	for _, s := range submissions {
		subsByID[s.ID] = s
	}

	// At most one review per (submission, judge) pair, so a flat map keyed
	// by submission id suffices for a single judge's queue.
	reviewsBySub := make(map[string]domain.Review, len(reviews))
	for _, r := range reviews {
		reviewsBySub[r.SubmissionID] = r
	}

	items := make([]domain.QueueItem, 0, len(assignments))
	completed := 0
	currentIndex := 0
	foundPending := false

	for _, a := range assignments {
		sub, ok := subsByID[a.SubmissionID]
		if !ok {
			continue
		}

		item := domain.QueueItem{
			Submission:  sub,
			DisplayName: sub.DisplayName(),
			Completed:   a.Status == domain.AssignmentCompleted,
		}
		if rev, ok := reviewsBySub[sub.ID]; ok {
			r := rev
			item.Review = &r
		}

		if !item.Completed && !foundPending {
			currentIndex = len(items)
			foundPending = true
		}
		if item.Completed {
			completed++
		}
		items = append(items, item)
	}

	if !foundPending && len(items) > 0 {
		currentIndex = len(items) - 1
	}

	return domain.JudgeQueue{
		TotalAssigned: len(items),
		Completed:     completed,
		Remaining:     len(items) - completed,
		CurrentIndex:  currentIndex,
		Items:         items,
	}
}
