// Package apperr defines the error kinds surfaced to users of the flashcard core.
// Every kind is a distinct type so callers can branch with errors.As.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a card or playlist id does not resolve
var ErrNotFound = errors.New("not found")

// StorageError reports a failed read or write against a card or playlist store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConstraintError reports a uniqueness violation, such as a duplicate playlist name
type ConstraintError struct {
	Field string
	Value string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("a record with %s %q already exists", e.Field, e.Value)
}

// NetworkError reports an unreachable or failing external service
type NetworkError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request to %s failed with status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError reports an external call that exceeded its time budget
type TimeoutError struct {
	Endpoint string
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out", e.Endpoint)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// MalformedResponseError reports a response that does not have the expected shape
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// InsufficientDataError reports that too few cards exist to start an operation
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("you need at least %d flashcards, have %d", e.Need, e.Have)
}

// IncompleteAnswersError reports a quiz submitted before every question was answered
type IncompleteAnswersError struct {
	Answered int
	Total    int
}

func (e *IncompleteAnswersError) Error() string {
	return fmt.Sprintf("answered %d of %d questions, answer all questions before finishing", e.Answered, e.Total)
}

// QuizGenerationError reports that quiz generation failed after all retries
type QuizGenerationError struct {
	Attempts int
	Err      error
}

func (e *QuizGenerationError) Error() string {
	return fmt.Sprintf("failed to generate quiz after %d attempts: %v", e.Attempts, e.Err)
}

func (e *QuizGenerationError) Unwrap() error { return e.Err }
