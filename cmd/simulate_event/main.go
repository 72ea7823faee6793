// Command simulate_event seeds a synthetic judging event and runs the full
// engine pipeline against it: assignment, per-judge review queues, review
// submission with randomized scores, and the aggregated dashboard views.
// Useful for smoke-testing the engine wiring and for eyeballing leaderboard,
// progress, and bias output at different event shapes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/juryline/engine/infrastructure/middleware"
	"github.com/juryline/engine/internal/domain"
	"github.com/juryline/engine/internal/engine"
	"github.com/juryline/engine/internal/storemem"
)

func main() {
	var (
		judges        = flag.Int("judges", 5, "Number of judges to enroll")
		submissions   = flag.Int("submissions", 20, "Number of submissions to generate")
		perSubmission = flag.Int("judges-per-submission", 3, "Distinct judges assigned to each submission")
		seed          = flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated scores")
	)
	flag.Parse()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(*seed)) // #nosec G404 -- synthetic data only

	store := storemem.New()
	eventID := seedEvent(store, *judges, *submissions, *perSubmission)

	eng, err := engine.New(store, engine.WithMetrics(middleware.NewPrometheusMetrics()))
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	result, err := eng.RecomputeAssignments(ctx, eventID)
	if err != nil {
		log.Fatalf("Failed to compute assignments: %v", err)
	}
	fmt.Printf("Assignments (%s strategy):\n", result.Strategy)
	for judgeID, load := range result.JudgeLoads {
		fmt.Printf("- %s: %d submissions\n", judgeID, load)
	}

	criteria, err := store.ListCriteria(ctx, eventID)
	if err != nil {
		log.Fatalf("Failed to list criteria: %v", err)
	}

	reviewed := submitReviews(ctx, eng, rng, eventID, *judges, criteria)
	fmt.Printf("\nSubmitted %d reviews\n", reviewed)

	dash, err := eng.Dashboard(ctx, eventID)
	if err != nil {
		log.Fatalf("Failed to build dashboard: %v", err)
	}
	printDashboard(dash)

	if len(dash.Leaderboard.Entries) > 0 {
		winner := dash.Leaderboard.Entries[0]
		fb, err := eng.GenerateFeedback(ctx, eventID, winner.SubmissionID)
		if err != nil {
			log.Fatalf("Failed to generate feedback: %v", err)
		}
		fmt.Printf("\nFeedback for %q (%s):\n%s\n", winner.DisplayName, fb.OverallSentiment, fb.Summary)
	}
}

// seedEvent populates the store with a judging-phase event, weighted
// criteria, a judge roster, and generated submissions, returning the event
// id.
func seedEvent(store *storemem.Store, judges, submissions, perSubmission int) string {
	const eventID = "sim-event"

	store.PutEvent(domain.Event{
		ID:                  eventID,
		Name:                "Simulated Hackathon",
		Status:              domain.EventDraft,
		JudgesPerSubmission: perSubmission,
	})
	store.PutCriteria(eventID,
		domain.Criterion{ID: "crit-innovation", EventID: eventID, Name: "Innovation",
			ScaleMin: 1, ScaleMax: 10, Weight: 2, SortOrder: 1},
		domain.Criterion{ID: "crit-execution", EventID: eventID, Name: "Technical Execution",
			ScaleMin: 1, ScaleMax: 10, Weight: 1.5, SortOrder: 2},
		domain.Criterion{ID: "crit-design", EventID: eventID, Name: "Design",
			ScaleMin: 1, ScaleMax: 10, Weight: 1, SortOrder: 3},
	)

	roster := make([]domain.Judge, 0, judges)
	for i := 0; i < judges; i++ {
		roster = append(roster, domain.Judge{
			ID:   fmt.Sprintf("judge-%d", i+1),
			Name: fmt.Sprintf("Judge %d", i+1),
		})
	}
	store.PutJudges(eventID, roster...)

	for i := 0; i < submissions; i++ {
		store.PutSubmissions(eventID, domain.Submission{
			ID:            fmt.Sprintf("sub-%d", i+1),
			EventID:       eventID,
			ParticipantID: fmt.Sprintf("participant-%d", i+1),
			FormData:      map[string]any{"project_name": fmt.Sprintf("Project %d", i+1)},
			SubmittedAt:   time.Now(),
		})
	}

	for _, next := range []domain.EventStatus{domain.EventOpen, domain.EventJudging} {
		if err := store.TransitionEvent(eventID, next); err != nil {
			log.Fatalf("Failed to transition event: %v", err)
		}
	}
	return eventID
}

// submitReviews walks every judge's queue and submits a randomized review for
// each pending item, returning the number of reviews submitted. Each judge
// carries a personal scoring offset so the bias detector has something to
// find.
func submitReviews(ctx context.Context, eng *engine.Engine, rng *rand.Rand, eventID string, judges int, criteria []domain.Criterion) int {
	reviewed := 0
	for i := 0; i < judges; i++ {
		judgeID := fmt.Sprintf("judge-%d", i+1)
		bias := rng.Float64()*4 - 2

		queue, err := eng.JudgeQueue(ctx, judgeID, eventID)
		if err != nil {
			log.Fatalf("Failed to build queue for %s: %v", judgeID, err)
		}
		for _, item := range queue.Items {
			scores := make(map[string]float64, len(criteria))
			for _, c := range criteria {
				raw := c.ScaleMin + rng.Float64()*(c.ScaleMax-c.ScaleMin) + bias
				scores[c.ID] = clamp(raw, c.ScaleMin, c.ScaleMax)
			}
			if _, err := eng.SubmitReview(ctx, judgeID, item.Submission.ID, scores, "simulated review"); err != nil {
				log.Fatalf("Failed to submit review: %v", err)
			}
			reviewed++
		}
	}
	return reviewed
}

func printDashboard(dash domain.Dashboard) {
	fmt.Printf("\nEvent statistics:\n")
	fmt.Printf("- Submissions: %d\n", dash.Stats.TotalSubmissions)
	fmt.Printf("- Judges: %d\n", dash.Stats.TotalJudges)
	fmt.Printf("- Reviews: %d/%d (%.1f%%)\n",
		dash.Stats.ReviewsCompleted, dash.Stats.ReviewsCompleted+dash.Stats.ReviewsPending,
		dash.Stats.CompletionPercent)
	if dash.Stats.AvgScore != nil {
		fmt.Printf("- Average score: %.2f\n", *dash.Stats.AvgScore)
	}

	fmt.Printf("\nLeaderboard (top %d):\n", min(10, len(dash.Leaderboard.Entries)))
	for i, entry := range dash.Leaderboard.Entries {
		if i == 10 {
			break
		}
		fmt.Printf("%2d. %-14s composite=%.2f reviews=%d\n",
			entry.Rank, entry.DisplayName, entry.CompositeScore, entry.ReviewCount)
	}

	fmt.Printf("\nProgress: %d/%d complete", dash.Progress.CompletedReviews, dash.Progress.TotalReviews)
	if dash.Progress.AllComplete {
		fmt.Printf(" (all done)")
	}
	fmt.Println()
	for _, reminder := range dash.Progress.Reminders {
		fmt.Printf("- %s\n", reminder)
	}

	fmt.Printf("\nBias report (event mean %.2f, stddev %.2f):\n", dash.Bias.EventMean, dash.Bias.EventStdDev)
	for _, judge := range dash.Bias.Judges {
		marker := ""
		if judge.IsOutlier {
			marker = " [outlier]"
		}
		fmt.Printf("- %s: mean=%.2f deviation=%+.2f%s\n", judge.JudgeID, judge.AvgScoreGiven, judge.Deviation, marker)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
