package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juryline/engine/internal/domain"
)

func queueFixture(statuses []domain.AssignmentStatus) ([]domain.JudgeAssignment, []domain.Submission) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	assignments := make([]domain.JudgeAssignment, len(statuses))
	submissions := make([]domain.Submission, len(statuses))
	for i, status := range statuses {
		sid := fmt.Sprintf("sub-%d", i+1)
		assignments[i] = domain.JudgeAssignment{
			ID:           fmt.Sprintf("asg-%d", i+1),
			EventID:      "evt-1",
			JudgeID:      "judge-1",
			SubmissionID: sid,
			Status:       status,
			AssignedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		submissions[i] = domain.Submission{
			ID:       sid,
			EventID:  "evt-1",
			FormData: map[string]any{"project_name": fmt.Sprintf("Project %d", i+1)},
		}
	}
	return assignments, submissions
}

// TestBuildQueue_ResumePosition verifies the resume index rules: first
// pending item, last index when everything is completed, 0 when empty.
func TestBuildQueue_ResumePosition(t *testing.T) {
	const (
		pending   = domain.AssignmentPending
		completed = domain.AssignmentCompleted
	)

	tests := []struct {
		name          string
		statuses      []domain.AssignmentStatus
		wantIndex     int
		wantCompleted int
	}{
		{
			name:          "resumes at first pending",
			statuses:      []domain.AssignmentStatus{completed, completed, completed, pending, pending},
			wantIndex:     3,
			wantCompleted: 3,
		},
		{
			name:          "all completed resumes at last",
			statuses:      []domain.AssignmentStatus{completed, completed, completed, completed, completed},
			wantIndex:     4,
			wantCompleted: 5,
		},
		{
			name:          "nothing completed resumes at start",
			statuses:      []domain.AssignmentStatus{pending, pending, pending},
			wantIndex:     0,
			wantCompleted: 0,
		},
		{
			name:          "gap resumes at first pending not last",
			statuses:      []domain.AssignmentStatus{completed, pending, completed, pending},
			wantIndex:     1,
			wantCompleted: 2,
		},
		{
			name:          "empty queue",
			statuses:      nil,
			wantIndex:     0,
			wantCompleted: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignments, submissions := queueFixture(tt.statuses)
			queue := BuildQueue(assignments, submissions, nil)

			assert.Equal(t, tt.wantIndex, queue.CurrentIndex)
			assert.Equal(t, tt.wantCompleted, queue.Completed)
			assert.Equal(t, len(tt.statuses), queue.TotalAssigned)
			assert.Equal(t, len(tt.statuses)-tt.wantCompleted, queue.Remaining)
			assert.Len(t, queue.Items, len(tt.statuses))
		})
	}
}

// TestBuildQueue_PreservesAssignmentOrder verifies that queue order is the
// assignment order with no re-sorting.
func TestBuildQueue_PreservesAssignmentOrder(t *testing.T) {
	assignments, submissions := queueFixture([]domain.AssignmentStatus{
		domain.AssignmentPending, domain.AssignmentPending, domain.AssignmentPending,
	})

	queue := BuildQueue(assignments, submissions, nil)

	require.Len(t, queue.Items, 3)
	for i, item := range queue.Items {
		assert.Equal(t, fmt.Sprintf("sub-%d", i+1), item.Submission.ID)
		assert.Equal(t, fmt.Sprintf("Project %d", i+1), item.DisplayName)
	}
}

// TestBuildQueue_AttachesReviews verifies that each item carries the judge's
// existing review for that submission, and nil when none exists.
func TestBuildQueue_AttachesReviews(t *testing.T) {
	assignments, submissions := queueFixture([]domain.AssignmentStatus{
		domain.AssignmentCompleted, domain.AssignmentPending,
	})
	reviews := []domain.Review{
		{
			ID:           "rev-1",
			SubmissionID: "sub-1",
			JudgeID:      "judge-1",
			EventID:      "evt-1",
			Scores:       map[string]float64{"crit-a": 7},
			Notes:        "solid",
		},
	}

	queue := BuildQueue(assignments, submissions, reviews)

	require.Len(t, queue.Items, 2)
	require.NotNil(t, queue.Items[0].Review)
	assert.Equal(t, "rev-1", queue.Items[0].Review.ID)
	assert.True(t, queue.Items[0].Completed)
	assert.Nil(t, queue.Items[1].Review)
	assert.False(t, queue.Items[1].Completed)
}

// TestBuildQueue_SkipsMissingSubmissions verifies that assignments whose
// submission is absent from the snapshot are skipped rather than failing.
func TestBuildQueue_SkipsMissingSubmissions(t *testing.T) {
	assignments, submissions := queueFixture([]domain.AssignmentStatus{
		domain.AssignmentCompleted, domain.AssignmentPending, domain.AssignmentPending,
	})

	queue := BuildQueue(assignments, submissions[:2], nil)

	assert.Equal(t, 2, queue.TotalAssigned)
	assert.Equal(t, 1, queue.Completed)
	assert.Equal(t, 1, queue.CurrentIndex)
}
