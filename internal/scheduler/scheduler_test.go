package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/flashcards/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCards struct {
	cards []models.Card
	err   error
}

func (f *fakeCards) Get(context.Context, string) (*models.Card, error) { return nil, errors.New("unused") }
func (f *fakeCards) GetAll(context.Context) ([]models.Card, error)  { return f.cards, f.err }
func (f *fakeCards) Put(context.Context, *models.Card) error {
	panic("reminders must not write cards")
}
func (f *fakeCards) Delete(context.Context, string) error {
	panic("reminders must not delete cards")
}

type recordingNotifier struct {
	sent []Reminder
	err  error
}

func (n *recordingNotifier) SendReminder(_ context.Context, r Reminder) error {
	n.sent = append(n.sent, r)
	return n.err
}

func newTestScheduler(cards *fakeCards, notifier Notifier) *Scheduler {
	s := New(cards, notifier, Config{At: "09:30", Location: time.UTC}, nil)
	s.now = func() time.Time { return time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC) }
	return s
}

func TestRunManualCheck_SendsWhenDue(t *testing.T) {
	cards := &fakeCards{cards: []models.Card{
		{ID: "1", Word: "a", Progress: models.Progress{DueDate: "2024-01-02"}},
		{ID: "2", Word: "b", Progress: models.Progress{DueDate: "2024-01-09"}},
		{ID: "3", Word: "c"},
	}}
	notifier := &recordingNotifier{}

	reminder, err := newTestScheduler(cards, notifier).RunManualCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", reminder.Date)
	assert.Equal(t, 1, reminder.Stats.DueToday)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "1", notifier.sent[0].Due[0].ID)
}

func TestRunManualCheck_NothingDue(t *testing.T) {
	cards := &fakeCards{cards: []models.Card{{ID: "3", Word: "c"}}}
	notifier := &recordingNotifier{}

	reminder, err := newTestScheduler(cards, notifier).RunManualCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reminder.Stats.Unseen)
	assert.Empty(t, notifier.sent)
}

func TestRunManualCheck_Errors(t *testing.T) {
	_, err := newTestScheduler(&fakeCards{err: errors.New("db down")}, &recordingNotifier{}).RunManualCheck(context.Background())
	assert.ErrorContains(t, err, "db down")

	cards := &fakeCards{cards: []models.Card{{ID: "1", Word: "a", Progress: models.Progress{DueDate: "2024-01-01"}}}}
	_, err = newTestScheduler(cards, &recordingNotifier{err: errors.New("chat gone")}).RunManualCheck(context.Background())
	assert.ErrorContains(t, err, "chat gone")
}

func TestStartAndStop(t *testing.T) {
	s := newTestScheduler(&fakeCards{}, LogNotifier{})
	require.NoError(t, s.Start())
	defer s.Stop()

	next := s.NextRun()
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 30, next.Minute())
}

func TestStart_BadTime(t *testing.T) {
	s := New(&fakeCards{}, nil, Config{At: "25:99", Location: time.UTC}, nil)
	assert.Error(t, s.Start())
}
