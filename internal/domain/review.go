package domain

import (
	"fmt"
	"sort"
)

// ValidateScores checks a review's scores mapping against the event's
// criteria. The key set must contain exactly the criterion ids defined for
// the event, and every value must lie within its criterion's inclusive
// [ScaleMin, ScaleMax] bounds.
//
// All violations are aggregated into a single ValidationError, one message
// per offending field, rather than failing fast on the first. Messages are
// emitted in deterministic order: unknown criteria sorted by id, range
// violations in criterion sort order, missing criteria in criterion sort
// order.
//
// Returns ErrNoCriteria when the event defines no criteria, nil when the
// scores satisfy the review invariant.
func ValidateScores(criteria []Criterion, scores map[string]float64) error {
	if len(criteria) == 0 {
		return ErrNoCriteria
	}

	byID := make(map[string]Criterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	verr := NewValidationError("review")

	unknown := make([]string, 0)
	for id := range scores {
		if _, ok := byID[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		verr.AddError(fmt.Sprintf("unknown criterion: %s", id))
	}

	ordered := make([]Criterion, len(criteria))
	copy(ordered, criteria)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	for _, c := range ordered {
		score, ok := scores[c.ID]
		if !ok {
			continue
		}
		if !c.InRange(score) {
			verr.AddError(fmt.Sprintf("score %g out of range [%g-%g] for %q",
				score, c.ScaleMin, c.ScaleMax, c.Name))
		}
	}

	for _, c := range ordered {
		if _, ok := scores[c.ID]; !ok {
			verr.AddError(fmt.Sprintf("missing score for %q", c.Name))
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
