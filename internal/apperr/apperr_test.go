package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuizGenerationError_UnwrapsCause(t *testing.T) {
	cause := &TimeoutError{Endpoint: "https://api.example.com/v1", Err: context.DeadlineExceeded}
	err := fmt.Errorf("quiz: %w", &QuizGenerationError{Attempts: 3, Err: cause})

	var qe *QuizGenerationError
	assert.True(t, errors.As(err, &qe))
	assert.Equal(t, 3, qe.Attempts)

	var te *TimeoutError
	assert.True(t, errors.As(err, &te))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStorageError_UnwrapsNotFound(t *testing.T) {
	err := &StorageError{Op: "get card", Err: ErrNotFound}
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "get card")
}

func TestMessages(t *testing.T) {
	assert.Equal(t, `a record with name "Travel" already exists`, (&ConstraintError{Field: "name", Value: "Travel"}).Error())
	assert.Equal(t, "you need at least 5 flashcards, have 2", (&InsufficientDataError{Have: 2, Need: 5}).Error())
	assert.Equal(t, "malformed response: no choices", (&MalformedResponseError{Reason: "no choices"}).Error())
	assert.Contains(t, (&NetworkError{Endpoint: "e", Status: 500, Err: errors.New("boom")}).Error(), "status 500")
}
