package spaced_repetition

import (
	"testing"
	"time"

	"github.com/example/flashcards/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDueDate_Buckets(t *testing.T) {
	today := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeAgain, "2024-01-02"},
		{OutcomeGood, "2024-01-04"},
		{OutcomeEasy, "2024-01-08"},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			got, err := ComputeDueDate(tt.outcome, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeDueDate_ExactDayOffsets(t *testing.T) {
	start := time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i += 7 {
		day := start.AddDate(0, 0, i)
		for outcome, days := range Intervals {
			got, err := ComputeDueDate(outcome, day)
			require.NoError(t, err)

			due, err := time.Parse(models.DateLayout, got)
			require.NoError(t, err)
			assert.Equal(t, time.Duration(days)*24*time.Hour, due.Sub(day), "%s on %s", outcome, day.Format(models.DateLayout))
		}
	}
}

func TestComputeDueDate_UsesLocalCalendarDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2024-01-01 23:30 UTC is already 2024-01-02 in Tokyo
	today := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC).In(tokyo)

	got, err := ComputeDueDate(OutcomeAgain, today)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", got)
}

func TestComputeDueDate_MonthAndLeapBoundaries(t *testing.T) {
	got, err := ComputeDueDate(OutcomeEasy, time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", got)

	got, err = ComputeDueDate(OutcomeGood, time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", got)
}

func TestComputeDueDate_UnknownOutcome(t *testing.T) {
	_, err := ComputeDueDate(Outcome("hard"), time.Now())
	assert.ErrorIs(t, err, ErrUnknownOutcome)
}

func TestParseOutcome(t *testing.T) {
	o, err := ParseOutcome(" Good ")
	require.NoError(t, err)
	assert.Equal(t, OutcomeGood, o)

	_, err = ParseOutcome("")
	assert.ErrorIs(t, err, ErrUnknownOutcome)
}

func TestApply(t *testing.T) {
	card := &models.Card{ID: "1", Word: "apple"}
	require.NoError(t, Apply(card, OutcomeGood, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-04", card.Progress.DueDate)

	assert.Error(t, Apply(card, "bogus", time.Now()))
	assert.Equal(t, "2024-01-04", card.Progress.DueDate, "failed apply leaves the card untouched")
}

func TestStatisticsAndDueCards(t *testing.T) {
	today := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	cards := []models.Card{
		{ID: "1", Progress: models.Progress{DueDate: "2024-01-01"}},
		{ID: "2", Progress: models.Progress{DueDate: "2024-01-03"}},
		{ID: "3", Progress: models.Progress{DueDate: "2024-01-10"}},
		{ID: "4"},
		{ID: "5", Progress: models.Progress{DueDate: "garbage"}},
	}

	stats := Statistics(cards, today)
	assert.Equal(t, models.DeckStatistics{Total: 5, DueToday: 2, Unseen: 2, Upcoming: 1}, stats)

	due := DueCards(cards, today)
	require.Len(t, due, 2)
	assert.Equal(t, "1", due[0].ID)
	assert.Equal(t, "2", due[1].ID)
}
