package engine

import (
	"math"
	"sort"

	"github.com/juryline/engine/internal/domain"
)

// round2 rounds to 2 decimal places, the reporting precision for means,
// composites, and statistics.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// round1 rounds to 1 decimal place, the reporting precision for percentages.
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// mean computes the arithmetic mean of values. Callers guarantee values is
// non-empty.
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// AggregateScores computes the ranked leaderboard for an event from its
// criteria, submissions, and reviews.
//
// Per submission with at least one review (submissions with none are absent,
// not zero-scored):
//   - each criterion's mean is the arithmetic mean of the scores supplied
//     for it across the submission's reviews, rounded to 2 decimals;
//     reviews missing the criterion are excluded from the mean, never
//     counted as zero;
//   - the composite is sum(mean*weight)/sum(weight) over criteria with at
//     least one score, rounded to 2 decimals; 0 when no criterion scored.
//
// Entries are sorted by composite descending with a stable sort, so equal
// composites retain submission iteration order, and ranked 1-based.
//
// Outliers are informational: for any criterion with at least two scores on
// a submission, an individual score deviating from that criterion's
// unrounded mean by more than outlierThreshold is flagged. Flagged scores
// still count toward every mean.
func AggregateScores(
	criteria []domain.Criterion,
	submissions []domain.Submission,
	reviews []domain.Review,
	outlierThreshold float64,
) domain.Leaderboard {
	ordered := make([]domain.Criterion, len(criteria))
	copy(ordered, criteria)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	reviewsBySub := make(map[string][]domain.Review, len(submissions))
	for _, r := range reviews {
		reviewsBySub[r.SubmissionID] = append(reviewsBySub[r.SubmissionID], r)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(submissions))
	outliers := make([]domain.ScoreOutlier, 0)
	composites := make([]float64, 0, len(submissions))

	for _, sub := range submissions {
		subReviews := reviewsBySub[sub.ID]
		if len(subReviews) == 0 {
			continue
		}

		perCriterion := make(map[string]domain.CriterionBreakdown, len(ordered))
		var weightedSum, weightSum float64

		for _, crit := range ordered {
			scores := make([]float64, 0, len(subReviews))
			for _, rev := range subReviews {
				if s, ok := rev.Scores[crit.ID]; ok {
					scores = append(scores, s)
				}
			}
			if len(scores) == 0 {
				continue
			}

			critMean := mean(scores)
			minScore, maxScore := scores[0], scores[0]
			for _, s := range scores[1:] {
				minScore = math.Min(minScore, s)
				maxScore = math.Max(maxScore, s)
			}

			perCriterion[crit.ID] = domain.CriterionBreakdown{
				CriterionName: crit.Name,
				Average:       round2(critMean),
				Min:           minScore,
				Max:           maxScore,
				Weight:        crit.Weight,
			}
			weightedSum += round2(critMean) * crit.Weight
			weightSum += crit.Weight

			// Outlier comparison uses the unrounded mean; the rounded
			// value is for reporting only.
			if len(scores) >= 2 {
				for _, rev := range subReviews {
					s, ok := rev.Scores[crit.ID]
					if !ok {
						continue
					}
					if math.Abs(s-critMean) > outlierThreshold {
						outliers = append(outliers, domain.ScoreOutlier{
							JudgeID:      rev.JudgeID,
							SubmissionID: sub.ID,
							CriterionID:  crit.ID,
							JudgeScore:   s,
							MeanScore:    round2(critMean),
						})
					}
				}
			}
		}

		composite := 0.0
		if weightSum > 0 {
			composite = round2(weightedSum / weightSum)
		}

		entries = append(entries, domain.LeaderboardEntry{
			SubmissionID:   sub.ID,
			DisplayName:    sub.DisplayName(),
			CompositeScore: composite,
			PerCriterion:   perCriterion,
			ReviewCount:    len(subReviews),
		})
		composites = append(composites, composite)
	}

	// Stable sort keeps input iteration order for equal composites; the
	// tie ordering is deliberately left without a secondary key.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompositeScore > entries[j].CompositeScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	stats := domain.LeaderboardStatistics{}
	if len(composites) > 0 {
		stats.Mean = round2(mean(composites))
		stats.Max = composites[0]
		stats.Min = composites[0]
		for _, c := range composites[1:] {
			stats.Max = math.Max(stats.Max, c)
			stats.Min = math.Min(stats.Min, c)
		}
	}

	return domain.Leaderboard{
		Entries:    entries,
		Outliers:   outliers,
		Statistics: stats,
	}
}
