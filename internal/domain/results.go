package domain

// Assignment strategy labels reported in AssignmentResult.
const (
	// StrategyRoundRobin labels degenerate runs with no judges or no
	// submissions, where the round-robin traversal never starts.
	StrategyRoundRobin = "round_robin"

	// StrategyBalancedRoundRobin labels the deterministic cyclic
	// round-robin assignment algorithm.
	StrategyBalancedRoundRobin = "balanced_round_robin"

	// StrategyAgent labels assignment sets accepted from the optional
	// external agent.
	StrategyAgent = "agent"
)

// AssignmentPair is a single judge-to-submission pairing produced by an
// assignment run, before persistence assigns it an id.
type AssignmentPair struct {
	// JudgeID identifies the selected judge.
	JudgeID string `json:"judge_id"`

	// SubmissionID identifies the submission the judge will review.
	SubmissionID string `json:"submission_id"`
}

// AssignmentResult is the outcome of one assignment run.
type AssignmentResult struct {
	// Assignments lists every judge-submission pairing produced.
	Assignments []AssignmentPair `json:"assignments"`

	// JudgeLoads maps judge id to the number of submissions assigned to
	// that judge during this run. Counts start at zero per run;
	// pre-existing load is not included.
	JudgeLoads map[string]int `json:"judge_loads"`

	// Strategy names the algorithm that produced the set.
	Strategy string `json:"strategy"`
}

// QueueItem is one entry in a judge's review queue.
type QueueItem struct {
	// Submission is the entry to review.
	Submission Submission `json:"submission"`

	// DisplayName is the label derived from the submission's form data.
	DisplayName string `json:"display_name"`

	// Review is the judge's existing review for this submission, nil if
	// none has been submitted yet.
	Review *Review `json:"review,omitempty"`

	// Completed mirrors the assignment status.
	Completed bool `json:"completed"`
}

// JudgeQueue is an ordered, resumable review queue for one judge and one
// event. Order follows assignment creation time.
type JudgeQueue struct {
	// TotalAssigned is the number of items in the queue.
	TotalAssigned int `json:"total_assigned"`

	// Completed counts items whose assignment is completed.
	Completed int `json:"completed"`

	// Remaining counts items still pending.
	Remaining int `json:"remaining"`

	// CurrentIndex is the resume position: the index of the first
	// non-completed item, the last index when everything is completed,
	// and 0 for an empty queue.
	CurrentIndex int `json:"current_index"`

	// Items is the ordered queue.
	Items []QueueItem `json:"items"`
}

// CriterionBreakdown summarizes one criterion's scores for a submission.
type CriterionBreakdown struct {
	// CriterionName is the criterion's display label.
	CriterionName string `json:"criterion_name"`

	// Average is the arithmetic mean of the criterion's scores across the
	// submission's reviews, rounded to 2 decimal places.
	Average float64 `json:"average"`

	// Min and Max are the lowest and highest individual scores observed.
	Min float64 `json:"min_score"`
	Max float64 `json:"max_score"`

	// Weight is the criterion's composite weight.
	Weight float64 `json:"weight"`
}

// LeaderboardEntry is one ranked submission on the leaderboard.
type LeaderboardEntry struct {
	// SubmissionID identifies the submission.
	SubmissionID string `json:"submission_id"`

	// DisplayName is the submission's derived label.
	DisplayName string `json:"display_name"`

	// CompositeScore is the weighted average of per-criterion means,
	// rounded to 2 decimal places.
	CompositeScore float64 `json:"composite_score"`

	// Rank is the 1-based position after sorting by composite score
	// descending. Ties retain input iteration order.
	Rank int `json:"rank"`

	// PerCriterion maps criterion id to its score breakdown.
	PerCriterion map[string]CriterionBreakdown `json:"per_criterion"`

	// ReviewCount is the number of reviews aggregated for this entry.
	ReviewCount int `json:"review_count"`
}

// ScoreOutlier flags an individual judge score that deviates from its
// criterion's mean on a submission by more than the configured threshold.
// Outliers are informational; flagged scores still count toward means.
type ScoreOutlier struct {
	JudgeID      string  `json:"judge_id"`
	SubmissionID string  `json:"submission_id"`
	CriterionID  string  `json:"criterion_id"`
	JudgeScore   float64 `json:"judge_score"`
	MeanScore    float64 `json:"mean_score"`
}

// LeaderboardStatistics summarizes composite scores across the event.
type LeaderboardStatistics struct {
	// Mean is the average composite score, rounded to 2 decimal places.
	Mean float64 `json:"mean"`

	// Max and Min are the highest and lowest composite scores.
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}

// Leaderboard is the ranked aggregation result for an event. Submissions
// with zero reviews are absent, not zero-scored.
type Leaderboard struct {
	Entries    []LeaderboardEntry    `json:"leaderboard"`
	Outliers   []ScoreOutlier        `json:"outliers"`
	Statistics LeaderboardStatistics `json:"statistics"`
}

// ProgressStatus classifies a judge's review completion.
type ProgressStatus string

// Judge progress statuses.
const (
	// ProgressDone means every assigned review is completed.
	ProgressDone ProgressStatus = "done"

	// ProgressOnTrack means some but not all reviews are completed.
	ProgressOnTrack ProgressStatus = "on_track"

	// ProgressNotStarted means no reviews are completed.
	ProgressNotStarted ProgressStatus = "not_started"
)

// JudgeProgress is one judge's completion breakdown.
type JudgeProgress struct {
	JudgeID   string         `json:"judge_id"`
	Assigned  int            `json:"assigned"`
	Completed int            `json:"completed"`
	Status    ProgressStatus `json:"status"`
}

// PendingSubmission lists a submission together with its remaining
// (non-completed) reviewer count.
type PendingSubmission struct {
	SubmissionID     string `json:"submission_id"`
	RemainingReviews int    `json:"remaining_reviews"`
}

// ProgressReport summarizes review completion across an event.
type ProgressReport struct {
	// ProgressPercent is completed/total*100, rounded to 1 decimal place.
	// 0 when there are no assignments.
	ProgressPercent float64 `json:"progress_percent"`

	CompletedReviews int `json:"completed_reviews"`
	TotalReviews     int `json:"total_reviews"`

	// Judges lists per-judge breakdowns in first-appearance order.
	Judges []JudgeProgress `json:"judges_status"`

	// PendingSubmissions lists submissions that still await reviews.
	PendingSubmissions []PendingSubmission `json:"pending_submissions"`

	// AllComplete is true iff at least one assignment exists and every
	// assignment is completed. An empty assignment set reports
	// zero progress, not completion.
	AllComplete bool `json:"all_complete"`

	// Reminders holds human-readable nudges for lagging judges.
	Reminders []string `json:"reminders"`
}

// JudgeBias is one judge's scoring deviation against the event mean.
type JudgeBias struct {
	JudgeID string `json:"judge_id"`

	// AvgScoreGiven is the judge's mean across every score value they
	// produced, rounded to 2 decimal places.
	AvgScoreGiven float64 `json:"avg_score_given"`

	// EventAvg is the event-wide mean, rounded to 2 decimal places.
	EventAvg float64 `json:"event_avg"`

	// Deviation is AvgScoreGiven - EventAvg, rounded to 2 decimal places.
	Deviation float64 `json:"deviation"`

	// IsOutlier is true iff the event standard deviation is nonzero and
	// the judge's absolute deviation exceeds the configured multiple
	// of it.
	IsOutlier bool `json:"is_outlier"`

	// ScoreCount is the number of score values the judge produced.
	ScoreCount int `json:"score_count"`
}

// BiasReport lists per-judge deviations sorted by absolute deviation
// descending. An event with zero reviews yields an empty report.
type BiasReport struct {
	Judges      []JudgeBias `json:"judges"`
	EventMean   float64     `json:"event_mean"`
	EventStdDev float64     `json:"event_std_dev"`
	TotalScores int         `json:"total_scores"`
}

// ValidationOutcome is the result of submission form validation, produced
// either by the external agent or by the pass-through fallback.
type ValidationOutcome struct {
	Valid      bool           `json:"valid"`
	Warnings   []string       `json:"warnings"`
	Errors     []string       `json:"errors"`
	Normalized map[string]any `json:"normalized"`
}

// Feedback is a qualitative summary of a submission's reviews, produced
// either by the external agent or by the deterministic fallback.
type Feedback struct {
	Summary          string   `json:"summary"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	OverallSentiment string   `json:"overall_sentiment"`
}

// EventStats carries headline counts for an event dashboard.
type EventStats struct {
	TotalSubmissions  int     `json:"total_submissions"`
	TotalJudges       int     `json:"total_judges"`
	TotalReviews      int     `json:"total_reviews"`
	ReviewsCompleted  int     `json:"reviews_completed"`
	ReviewsPending    int     `json:"reviews_pending"`
	CompletionPercent float64 `json:"completion_percent"`

	// AvgScore is the mean of every individual score value across the
	// event's reviews, nil when no scores exist.
	AvgScore *float64 `json:"avg_score,omitempty"`
}

// Dashboard bundles every read-only analytics view for an event.
type Dashboard struct {
	Stats       EventStats     `json:"stats"`
	Leaderboard Leaderboard    `json:"leaderboard"`
	Progress    ProgressReport `json:"progress"`
	Bias        BiasReport     `json:"bias"`
}
