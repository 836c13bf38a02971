package models

import "time"

// DateLayout is the serialized form of a due date
const DateLayout = "2006-01-02"

// Progress tracks the review schedule of a card.
// An empty DueDate means the card has never been reviewed.
type Progress struct {
	DueDate string `json:"dueDate,omitempty" db:"due_date"`
}

// Due parses the due date. ok is false for unseen cards and for
// values that are not a valid calendar date.
func (p Progress) Due() (due time.Time, ok bool) {
	if p.DueDate == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, p.DueDate); err == nil {
		return t, true
	}
	// Older records may carry a full timestamp
	if t, err := time.Parse(time.RFC3339, p.DueDate); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// IsDueOn reports whether a dated card should be reviewed on the given day
func (p Progress) IsDueOn(day time.Time) bool {
	due, ok := p.Due()
	if !ok {
		return false
	}
	today := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return !due.After(today)
}
