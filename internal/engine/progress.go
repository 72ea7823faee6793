package engine

import (
	"fmt"

	"github.com/juryline/engine/internal/domain"
)

// TrackProgress computes completion percentages, per-judge breakdowns,
// pending submission counts, and reminder messages from an event's full
// assignment set.
//
// Judges and pending submissions are listed in first-appearance order so the
// report is deterministic for a given assignment ordering. laggingFraction
// is the completion fraction below which a judge with at least one
// assignment receives a "completed X of Y" reminder; judges with nothing
// completed get a not-started reminder instead.
//
// An empty assignment set reports zero progress with AllComplete false;
// completion requires at least one assignment.
func TrackProgress(assignments []domain.JudgeAssignment, laggingFraction float64) domain.ProgressReport {
	total := len(assignments)
	completed := 0

	type judgeTally struct {
		assigned  int
		completed int
	}
	tallies := make(map[string]*judgeTally, 8)
	judgeOrder := make([]string, 0, 8)

	pendingCounts := make(map[string]int)
	pendingOrder := make([]string, 0, 8)

	for _, a := range assignments {
		t, ok := tallies[a.JudgeID]
		if !ok {
			t = &judgeTally{}
			tallies[a.JudgeID] = t
			judgeOrder = append(judgeOrder, a.JudgeID)
		}
		t.assigned++

		if a.Status == domain.AssignmentCompleted {
			completed++
			t.completed++
			continue
		}

		if _, ok := pendingCounts[a.SubmissionID]; !ok {
			pendingOrder = append(pendingOrder, a.SubmissionID)
		}
		pendingCounts[a.SubmissionID]++
	}

	judges := make([]domain.JudgeProgress, 0, len(judgeOrder))
	reminders := make([]string, 0)

	for _, jid := range judgeOrder {
		t := tallies[jid]
		fraction := float64(t.completed) / float64(t.assigned)

		var status domain.ProgressStatus
		switch {
		case fraction >= 1.0:
			status = domain.ProgressDone
		case fraction > 0:
			status = domain.ProgressOnTrack
		default:
			status = domain.ProgressNotStarted
		}

		judges = append(judges, domain.JudgeProgress{
			JudgeID:   jid,
			Assigned:  t.assigned,
			Completed: t.completed,
			Status:    status,
		})

		if status == domain.ProgressNotStarted {
			reminders = append(reminders, fmt.Sprintf("Judge %s has not started reviewing yet.", jid))
		} else if fraction < laggingFraction {
			reminders = append(reminders, fmt.Sprintf("Judge %s has completed %d/%d reviews.", jid, t.completed, t.assigned))
		}
	}

	pending := make([]domain.PendingSubmission, 0, len(pendingOrder))
	for _, sid := range pendingOrder {
		pending = append(pending, domain.PendingSubmission{
			SubmissionID:     sid,
			RemainingReviews: pendingCounts[sid],
		})
	}

	percent := 0.0
	if total > 0 {
		percent = round1(float64(completed) / float64(total) * 100)
	}

	return domain.ProgressReport{
		ProgressPercent:    percent,
		CompletedReviews:   completed,
		TotalReviews:       total,
		Judges:             judges,
		PendingSubmissions: pending,
		AllComplete:        total > 0 && completed >= total,
		Reminders:          reminders,
	}
}
