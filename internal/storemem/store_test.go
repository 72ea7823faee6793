package storemem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juryline/engine/internal/domain"
	"github.com/juryline/engine/internal/ports"
)

func seedStore(t *testing.T) *Store {
	t.Helper()

	s := New()
	s.PutEvent(domain.Event{ID: "event-1", Status: domain.EventJudging, JudgesPerSubmission: 2})
	s.PutJudges("event-1",
		domain.Judge{ID: "judge-a"},
		domain.Judge{ID: "judge-b"},
	)
	s.PutSubmissions("event-1",
		domain.Submission{ID: "sub-1", EventID: "event-1"},
		domain.Submission{ID: "sub-2", EventID: "event-1"},
	)
	s.PutCriteria("event-1",
		domain.Criterion{ID: "crit-b", EventID: "event-1", Name: "Execution", SortOrder: 1},
		domain.Criterion{ID: "crit-a", EventID: "event-1", Name: "Innovation", SortOrder: 0},
	)
	return s
}

func TestGetEvent(t *testing.T) {
	s := seedStore(t)

	event, err := s.GetEvent(context.Background(), "event-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventJudging, event.Status)

	_, err = s.GetEvent(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestTransitionEvent(t *testing.T) {
	s := seedStore(t)
	s.PutEvent(domain.Event{ID: "event-2", Status: domain.EventDraft})

	require.NoError(t, s.TransitionEvent("event-2", domain.EventOpen))

	err := s.TransitionEvent("event-2", domain.EventClosed)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = s.TransitionEvent("missing", domain.EventOpen)
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestListCriteria_SortedBySortOrder(t *testing.T) {
	s := seedStore(t)

	criteria, err := s.ListCriteria(context.Background(), "event-1")
	require.NoError(t, err)
	require.Len(t, criteria, 2)
	assert.Equal(t, "crit-a", criteria[0].ID)
	assert.Equal(t, "crit-b", criteria[1].ID)
}

func TestReplaceAssignments_Atomic(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	first, err := s.ReplaceAssignments(ctx, "event-1", []domain.AssignmentPair{
		{JudgeID: "judge-a", SubmissionID: "sub-1"},
		{JudgeID: "judge-b", SubmissionID: "sub-2"},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)
	for _, a := range first {
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, "event-1", a.EventID)
		assert.Equal(t, domain.AssignmentPending, a.Status)
		assert.False(t, a.AssignedAt.IsZero())
	}

	// A second replacement discards the first set entirely.
	second, err := s.ReplaceAssignments(ctx, "event-1", []domain.AssignmentPair{
		{JudgeID: "judge-a", SubmissionID: "sub-2"},
	})
	require.NoError(t, err)
	require.Len(t, second, 1)

	listed, err := s.ListAssignments(ctx, ports.AssignmentFilter{EventID: "event-1"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, second[0].ID, listed[0].ID)
}

func TestReplaceAssignments_RejectsDuplicatePairs(t *testing.T) {
	s := seedStore(t)

	_, err := s.ReplaceAssignments(context.Background(), "event-1", []domain.AssignmentPair{
		{JudgeID: "judge-a", SubmissionID: "sub-1"},
		{JudgeID: "judge-a", SubmissionID: "sub-1"},
	})
	require.ErrorIs(t, err, ports.ErrConflict)
	assert.True(t, ports.IsRetryable(err))
}

func TestReplaceAssignments_ScopedToEvent(t *testing.T) {
	s := seedStore(t)
	s.PutEvent(domain.Event{ID: "event-2", Status: domain.EventJudging})
	ctx := context.Background()

	_, err := s.ReplaceAssignments(ctx, "event-1", []domain.AssignmentPair{
		{JudgeID: "judge-a", SubmissionID: "sub-1"},
	})
	require.NoError(t, err)
	_, err = s.ReplaceAssignments(ctx, "event-2", []domain.AssignmentPair{
		{JudgeID: "judge-x", SubmissionID: "sub-x"},
	})
	require.NoError(t, err)

	// Replacing event-2 leaves event-1 untouched.
	_, err = s.ReplaceAssignments(ctx, "event-2", nil)
	require.NoError(t, err)

	remaining, err := s.ListAssignments(ctx, ports.AssignmentFilter{EventID: "event-1"})
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestListAssignments_OrderAndFilters(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	created, err := s.ReplaceAssignments(ctx, "event-1", []domain.AssignmentPair{
		{JudgeID: "judge-a", SubmissionID: "sub-1"},
		{JudgeID: "judge-b", SubmissionID: "sub-1"},
		{JudgeID: "judge-a", SubmissionID: "sub-2"},
	})
	require.NoError(t, err)

	// Creation order is preserved even though the batch shares one clock tick.
	listed, err := s.ListAssignments(ctx, ports.AssignmentFilter{EventID: "event-1"})
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for i := range created {
		assert.Equal(t, created[i].ID, listed[i].ID)
	}

	byJudge, err := s.ListAssignments(ctx, ports.AssignmentFilter{JudgeID: "judge-a"})
	require.NoError(t, err)
	assert.Len(t, byJudge, 2)

	byPair, err := s.ListAssignments(ctx, ports.AssignmentFilter{JudgeID: "judge-b", SubmissionID: "sub-1"})
	require.NoError(t, err)
	require.Len(t, byPair, 1)
	assert.Equal(t, "judge-b", byPair[0].JudgeID)
}

func TestCompleteAssignment(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	created, err := s.ReplaceAssignments(ctx, "event-1", []domain.AssignmentPair{
		{JudgeID: "judge-a", SubmissionID: "sub-1"},
	})
	require.NoError(t, err)

	require.NoError(t, s.CompleteAssignment(ctx, created[0].ID))
	// Completing twice is a no-op.
	require.NoError(t, s.CompleteAssignment(ctx, created[0].ID))

	listed, err := s.ListAssignments(ctx, ports.AssignmentFilter{EventID: "event-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentCompleted, listed[0].Status)

	err = s.CompleteAssignment(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpsertReview_InsertThenReplaceInPlace(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	first, err := s.UpsertReview(ctx, domain.Review{
		SubmissionID: "sub-1",
		JudgeID:      "judge-a",
		EventID:      "event-1",
		Scores:       map[string]float64{"crit-a": 8},
		Notes:        "v1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.SubmittedAt.IsZero())

	second, err := s.UpsertReview(ctx, domain.Review{
		SubmissionID: "sub-1",
		JudgeID:      "judge-a",
		EventID:      "event-1",
		Scores:       map[string]float64{"crit-a": 4},
		Notes:        "v2",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.SubmittedAt, second.SubmittedAt)
	assert.Equal(t, 4.0, second.Scores["crit-a"])
	assert.Equal(t, "v2", second.Notes)

	reviews, err := s.ListReviews(ctx, ports.ReviewFilter{EventID: "event-1"})
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestUpsertReview_DistinctPairsCoexist(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	_, err := s.UpsertReview(ctx, domain.Review{SubmissionID: "sub-1", JudgeID: "judge-a", EventID: "event-1", Scores: map[string]float64{"crit-a": 8}})
	require.NoError(t, err)
	_, err = s.UpsertReview(ctx, domain.Review{SubmissionID: "sub-1", JudgeID: "judge-b", EventID: "event-1", Scores: map[string]float64{"crit-a": 6}})
	require.NoError(t, err)
	_, err = s.UpsertReview(ctx, domain.Review{SubmissionID: "sub-2", JudgeID: "judge-a", EventID: "event-1", Scores: map[string]float64{"crit-a": 7}})
	require.NoError(t, err)

	all, err := s.ListReviews(ctx, ports.ReviewFilter{EventID: "event-1"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bySub, err := s.ListReviews(ctx, ports.ReviewFilter{SubmissionID: "sub-1"})
	require.NoError(t, err)
	assert.Len(t, bySub, 2)
}

func TestListReviews_ReturnsCopies(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	_, err := s.UpsertReview(ctx, domain.Review{SubmissionID: "sub-1", JudgeID: "judge-a", EventID: "event-1", Scores: map[string]float64{"crit-a": 8}})
	require.NoError(t, err)

	got, err := s.ListReviews(ctx, ports.ReviewFilter{EventID: "event-1"})
	require.NoError(t, err)
	got[0].Scores["crit-a"] = 1

	again, err := s.ListReviews(ctx, ports.ReviewFilter{EventID: "event-1"})
	require.NoError(t, err)
	assert.Equal(t, 8.0, again[0].Scores["crit-a"], "caller mutation must not leak into the store")
}

func TestListJudgesAndSubmissions_Isolated(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	judges, err := s.ListJudgesForEvent(ctx, "event-1")
	require.NoError(t, err)
	require.Len(t, judges, 2)
	judges[0].ID = "mutated"

	again, err := s.ListJudgesForEvent(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, "judge-a", again[0].ID)

	subs, err := s.ListSubmissions(ctx, "unknown-event")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestConcurrentReplaceAndList(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_, _ = s.ReplaceAssignments(ctx, "event-1", []domain.AssignmentPair{
				{JudgeID: "judge-a", SubmissionID: "sub-1"},
				{JudgeID: "judge-b", SubmissionID: "sub-2"},
			})
		}
	}()

	for i := 0; i < 50; i++ {
		listed, err := s.ListAssignments(ctx, ports.AssignmentFilter{EventID: "event-1"})
		require.NoError(t, err)
		// Replacement is atomic: a reader never observes a partial batch.
		assert.True(t, len(listed) == 0 || len(listed) == 2, "got %d", len(listed))
	}
	<-done
}
