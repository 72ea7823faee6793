package engine

import (
	"math"
	"sort"

	"github.com/juryline/engine/internal/domain"
)

// DetectBias computes each judge's mean across every score value they
// produced, the event-wide mean, and the event-wide sample standard
// deviation, then flags judges whose deviation from the event mean exceeds
// deviationFactor standard deviations.
//
// The standard deviation is the sample estimate (n-1 denominator) and is 0
// when fewer than two scores exist; a zero standard deviation flags nobody.
// Output is sorted by absolute deviation descending, ties broken by judge id
// for determinism. Zero reviews yield an empty report, not an error.
func DetectBias(reviews []domain.Review, deviationFactor float64) domain.BiasReport {
	if len(reviews) == 0 {
		return domain.BiasReport{Judges: []domain.JudgeBias{}}
	}

	judgeScores := make(map[string][]float64, 8)
	judgeOrder := make([]string, 0, 8)
	allScores := make([]float64, 0, len(reviews)*4)

	for _, rev := range reviews {
		if _, ok := judgeScores[rev.JudgeID]; !ok {
			judgeOrder = append(judgeOrder, rev.JudgeID)
		}
		for _, s := range rev.Scores {
			judgeScores[rev.JudgeID] = append(judgeScores[rev.JudgeID], s)
			allScores = append(allScores, s)
		}
	}

	if len(allScores) == 0 {
		return domain.BiasReport{Judges: []domain.JudgeBias{}}
	}

	eventMean := mean(allScores)
	eventStdDev := 0.0
	if len(allScores) >= 2 {
		var sumSq float64
		for _, s := range allScores {
			d := s - eventMean
			sumSq += d * d
		}
		eventStdDev = math.Sqrt(sumSq / float64(len(allScores)-1))
	}

	judges := make([]domain.JudgeBias, 0, len(judgeOrder))
	for _, jid := range judgeOrder {
		scores := judgeScores[jid]
		if len(scores) == 0 {
			continue
		}
		judgeMean := mean(scores)
		deviation := judgeMean - eventMean

		judges = append(judges, domain.JudgeBias{
			JudgeID:       jid,
			AvgScoreGiven: round2(judgeMean),
			EventAvg:      round2(eventMean),
			Deviation:     round2(deviation),
			IsOutlier:     eventStdDev > 0 && math.Abs(deviation) > deviationFactor*eventStdDev,
			ScoreCount:    len(scores),
		})
	}

	sort.SliceStable(judges, func(i, j int) bool {
		di, dj := math.Abs(judges[i].Deviation), math.Abs(judges[j].Deviation)
		if di != dj {
			return di > dj
		}
		return judges[i].JudgeID < judges[j].JudgeID
	})

	return domain.BiasReport{
		Judges:      judges,
		EventMean:   round2(eventMean),
		EventStdDev: round2(eventStdDev),
		TotalScores: len(allScores),
	}
}
