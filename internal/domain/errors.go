package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during judging operations.
var (
	// ErrEventNotFound indicates that the referenced event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrEventNotJudging indicates that an operation requiring the judging
	// phase was attempted while the event was in another status.
	ErrEventNotJudging = errors.New("event is not in judging phase")

	// ErrInvalidTransition indicates an event status change that is not a
	// single forward step in the lifecycle.
	ErrInvalidTransition = errors.New("invalid event status transition")

	// ErrNotAssigned indicates that a judge attempted to review a
	// submission they hold no assignment for.
	ErrNotAssigned = errors.New("judge is not assigned to this submission")

	// ErrNoCriteria indicates that an event has no judging criteria
	// configured where at least one is required.
	ErrNoCriteria = errors.New("event has no judging criteria")
)

// ValidationError represents an aggregated validation failure. All offending
// fields are collected into one error rather than failing fast on the first.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages, one per
	// offending field.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
