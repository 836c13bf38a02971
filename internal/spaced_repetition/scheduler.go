package spaced_repetition

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/flashcards/pkg/models"
)

// ErrUnknownOutcome is returned for a review outcome outside again/good/easy
var ErrUnknownOutcome = errors.New("unknown review outcome")

// Outcome is the learner's self-assessment after flipping a card
type Outcome string

const (
	// Forgot the card, show it again tomorrow
	OutcomeAgain Outcome = "again"
	// Recalled with some effort
	OutcomeGood Outcome = "good"
	// Recalled immediately
	OutcomeEasy Outcome = "easy"
)

// Intervals maps each outcome to the number of days until the next review.
// The table is fixed: repeated outcomes do not grow or shrink it.
var Intervals = map[Outcome]int{
	OutcomeAgain: 1,
	OutcomeGood:  3,
	OutcomeEasy:  7,
}

// ParseOutcome converts user input such as "Good" into an Outcome
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Intervals[o]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
	}
	return o, nil
}

// Days returns the review interval of the outcome
func (o Outcome) Days() (int, error) {
	days, ok := Intervals[o]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownOutcome, string(o))
	}
	return days, nil
}

// ComputeDueDate returns the next due date for a card reviewed on today.
// Only the calendar day of today in its own location is used.
func ComputeDueDate(outcome Outcome, today time.Time) (string, error) {
	days, err := outcome.Days()
	if err != nil {
		return "", err
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, days).Format(models.DateLayout), nil
}

// Apply sets the card's due date for the given outcome
func Apply(card *models.Card, outcome Outcome, today time.Time) error {
	due, err := ComputeDueDate(outcome, today)
	if err != nil {
		return err
	}
	card.Progress.DueDate = due
	return nil
}

// Statistics counts due, unseen and upcoming cards as of today
func Statistics(cards []models.Card, today time.Time) models.DeckStatistics {
	stats := models.DeckStatistics{Total: len(cards)}
	for _, c := range cards {
		if _, ok := c.Progress.Due(); !ok {
			stats.Unseen++
			continue
		}
		if c.Progress.IsDueOn(today) {
			stats.DueToday++
		} else {
			stats.Upcoming++
		}
	}
	return stats
}

// DueCards returns the dated cards due on or before today, in input order
func DueCards(cards []models.Card, today time.Time) []models.Card {
	var due []models.Card
	for _, c := range cards {
		if c.Progress.IsDueOn(today) {
			due = append(due, c)
		}
	}
	return due
}
