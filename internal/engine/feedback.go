package engine

import (
	"fmt"
	"sort"

	"github.com/juryline/engine/internal/domain"
)

// fallbackFeedback builds a deterministic feedback summary from a
// submission's reviews when the external agent is unavailable. It reports
// the overall mean, names the strongest and weakest criteria relative to
// their scale midpoints, and classifies sentiment from where the overall
// mean sits on the combined scale.
func fallbackFeedback(submission domain.Submission, reviews []domain.Review, criteria []domain.Criterion) domain.Feedback {
	fb := domain.Feedback{
		Strengths:        []string{},
		Improvements:     []string{},
		OverallSentiment: "mixed",
	}

	if len(reviews) == 0 {
		fb.Summary = fmt.Sprintf("%s has not received any reviews yet.", submission.DisplayName())
		return fb
	}

	ordered := make([]domain.Criterion, len(criteria))
	copy(ordered, criteria)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	var allScores []float64
	var aboveMid, total float64

	for _, crit := range ordered {
		scores := make([]float64, 0, len(reviews))
		for _, rev := range reviews {
			if s, ok := rev.Scores[crit.ID]; ok {
				scores = append(scores, s)
			}
		}
		if len(scores) == 0 {
			continue
		}

		critMean := mean(scores)
		allScores = append(allScores, scores...)

		midpoint := (crit.ScaleMin + crit.ScaleMax) / 2
		upperThird := crit.ScaleMin + (crit.ScaleMax-crit.ScaleMin)*2/3
		switch {
		case critMean >= upperThird:
			fb.Strengths = append(fb.Strengths,
				fmt.Sprintf("%s averaged %.2f of %g", crit.Name, critMean, crit.ScaleMax))
		case critMean < midpoint:
			fb.Improvements = append(fb.Improvements,
				fmt.Sprintf("%s averaged %.2f of %g", crit.Name, critMean, crit.ScaleMax))
		}
		if critMean >= midpoint {
			aboveMid++
		}
		total++
	}

	if len(allScores) == 0 {
		fb.Summary = fmt.Sprintf("%s received %d review(s) but no criterion scores.",
			submission.DisplayName(), len(reviews))
		return fb
	}

	fb.Summary = fmt.Sprintf("%s received %d review(s) with an average score of %.2f.",
		submission.DisplayName(), len(reviews), mean(allScores))

	switch {
	case total > 0 && aboveMid == total:
		fb.OverallSentiment = "positive"
	case total > 0 && aboveMid == 0:
		fb.OverallSentiment = "negative"
	}
	return fb
}
