package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juryline/engine/internal/domain"
)

// TestDetectBias_Boundary verifies the 1.5 standard deviation boundary with
// an event engineered to have mean 7.0 and sample standard deviation exactly
// 1.0: a judge averaging 9.0 (deviation 2.0) is flagged, a judge averaging
// 8.0 (deviation 1.0) is not.
func TestDetectBias_Boundary(t *testing.T) {
	neutral := make(map[string]float64, 13)
	for i := range 13 {
		neutral[fmt.Sprintf("crit-%d", i+1)] = 7
	}

	reviews := []domain.Review{
		review("judge-high", "sub-1", map[string]float64{"crit-1": 9, "crit-2": 9}),
		review("judge-mid8", "sub-2", map[string]float64{"crit-1": 8}),
		review("judge-low", "sub-3", map[string]float64{"crit-1": 5, "crit-2": 5}),
		review("judge-mid6", "sub-4", map[string]float64{"crit-1": 6}),
		review("judge-neutral", "sub-5", neutral),
	}

	report := DetectBias(reviews, DefaultBiasDeviationFactor)

	assert.Equal(t, 7.0, report.EventMean)
	assert.Equal(t, 1.0, report.EventStdDev)
	assert.Equal(t, 19, report.TotalScores)

	require.Len(t, report.Judges, 5)
	byID := make(map[string]domain.JudgeBias)
	for _, j := range report.Judges {
		byID[j.JudgeID] = j
	}

	assert.True(t, byID["judge-high"].IsOutlier, "deviation 2.0 > 1.5 stddev")
	assert.True(t, byID["judge-low"].IsOutlier, "deviation -2.0 beyond 1.5 stddev")
	assert.False(t, byID["judge-mid8"].IsOutlier, "deviation 1.0 within 1.5 stddev")
	assert.False(t, byID["judge-mid6"].IsOutlier)
	assert.False(t, byID["judge-neutral"].IsOutlier)

	assert.Equal(t, 9.0, byID["judge-high"].AvgScoreGiven)
	assert.Equal(t, 2.0, byID["judge-high"].Deviation)
	assert.Equal(t, -2.0, byID["judge-low"].Deviation)
}

// TestDetectBias_SortedByAbsoluteDeviation verifies descending sort by
// absolute deviation, with judge id breaking exact ties deterministically.
func TestDetectBias_SortedByAbsoluteDeviation(t *testing.T) {
	neutral := make(map[string]float64, 13)
	for i := range 13 {
		neutral[fmt.Sprintf("crit-%d", i+1)] = 7
	}

	reviews := []domain.Review{
		review("judge-neutral", "sub-5", neutral),
		review("judge-mid8", "sub-2", map[string]float64{"crit-1": 8}),
		review("judge-high", "sub-1", map[string]float64{"crit-1": 9, "crit-2": 9}),
		review("judge-mid6", "sub-4", map[string]float64{"crit-1": 6}),
		review("judge-low", "sub-3", map[string]float64{"crit-1": 5, "crit-2": 5}),
	}

	report := DetectBias(reviews, DefaultBiasDeviationFactor)

	got := make([]string, len(report.Judges))
	for i, j := range report.Judges {
		got[i] = j.JudgeID
	}
	assert.Equal(t, []string{"judge-high", "judge-low", "judge-mid6", "judge-mid8", "judge-neutral"}, got)
}

// TestDetectBias_ZeroStdDev verifies that identical scoring flags nobody:
// a zero standard deviation disables outlier classification.
func TestDetectBias_ZeroStdDev(t *testing.T) {
	reviews := []domain.Review{
		review("judge-1", "sub-1", map[string]float64{"crit-1": 6, "crit-2": 6}),
		review("judge-2", "sub-1", map[string]float64{"crit-1": 6, "crit-2": 6}),
	}

	report := DetectBias(reviews, DefaultBiasDeviationFactor)

	assert.Zero(t, report.EventStdDev)
	for _, j := range report.Judges {
		assert.False(t, j.IsOutlier, "judge %s flagged with zero stddev", j.JudgeID)
	}
}

// TestDetectBias_SingleScore verifies the sample standard deviation is 0
// when fewer than two scores exist.
func TestDetectBias_SingleScore(t *testing.T) {
	reviews := []domain.Review{
		review("judge-1", "sub-1", map[string]float64{"crit-1": 9}),
	}

	report := DetectBias(reviews, DefaultBiasDeviationFactor)

	require.Len(t, report.Judges, 1)
	assert.Zero(t, report.EventStdDev)
	assert.Equal(t, 9.0, report.EventMean)
	assert.False(t, report.Judges[0].IsOutlier)
}

// TestDetectBias_Empty verifies zero reviews yield an empty report, not an
// error.
func TestDetectBias_Empty(t *testing.T) {
	report := DetectBias(nil, DefaultBiasDeviationFactor)

	assert.Empty(t, report.Judges)
	assert.Zero(t, report.EventMean)
	assert.Zero(t, report.EventStdDev)
	assert.Zero(t, report.TotalScores)
}
