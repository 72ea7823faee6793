package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func innovationCriteria() []Criterion {
	return []Criterion{
		{ID: "crit-a", EventID: "evt-1", Name: "Innovation", ScaleMin: 1, ScaleMax: 10, Weight: 2, SortOrder: 0},
		{ID: "crit-b", EventID: "evt-1", Name: "Execution", ScaleMin: 0, ScaleMax: 5, Weight: 1, SortOrder: 1},
	}
}

// TestValidateScores verifies the review invariant: the scores key set must
// equal the event's criterion id set and every value must lie within its
// criterion's inclusive bounds. Violations aggregate one message per field.
func TestValidateScores(t *testing.T) {
	tests := []struct {
		name       string
		criteria   []Criterion
		scores     map[string]float64
		wantErrs   []string
		wantErr    error
		wantNumErr int
	}{
		{
			name:     "accepts exact key set within bounds",
			criteria: innovationCriteria(),
			scores:   map[string]float64{"crit-a": 8, "crit-b": 3.5},
		},
		{
			name:     "accepts boundary values",
			criteria: innovationCriteria(),
			scores:   map[string]float64{"crit-a": 1, "crit-b": 5},
		},
		{
			name:     "rejects missing criterion",
			criteria: innovationCriteria(),
			scores:   map[string]float64{"crit-a": 8},
			wantErrs: []string{`missing score for "Execution"`},
		},
		{
			name:     "rejects extraneous criterion",
			criteria: innovationCriteria(),
			scores:   map[string]float64{"crit-a": 8, "crit-b": 3, "crit-x": 1},
			wantErrs: []string{"unknown criterion: crit-x"},
		},
		{
			name:     "rejects out of range score",
			criteria: innovationCriteria(),
			scores:   map[string]float64{"crit-a": 11, "crit-b": 3},
			wantErrs: []string{`score 11 out of range [1-10] for "Innovation"`},
		},
		{
			name:     "aggregates multiple violations",
			criteria: innovationCriteria(),
			scores:   map[string]float64{"crit-a": 0.5, "crit-x": 9},
			wantErrs: []string{
				"unknown criterion: crit-x",
				`score 0.5 out of range [1-10] for "Innovation"`,
				`missing score for "Execution"`,
			},
		},
		{
			name:    "no criteria configured",
			scores:  map[string]float64{"crit-a": 5},
			wantErr: ErrNoCriteria,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScores(tt.criteria, tt.scores)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			if len(tt.wantErrs) == 0 {
				require.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "review", verr.Entity)
			assert.Equal(t, tt.wantErrs, verr.Errors)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	verr := NewValidationError("review")
	assert.False(t, verr.HasErrors())

	verr.AddError("missing score for \"Design\"")
	assert.True(t, verr.HasErrors())
	assert.Equal(t, `validation error for review: missing score for "Design"`, verr.Error())

	verr.AddError("unknown criterion: crit-z")
	assert.Contains(t, verr.Error(), "validation errors for review")
}

func TestValidationError_ErrorAsTarget(t *testing.T) {
	var err error = &ValidationError{Entity: "review", Errors: []string{"x"}}
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
