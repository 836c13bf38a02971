package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/flashcards/internal/scheduler"
	"github.com/example/flashcards/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func reminder(words ...string) scheduler.Reminder {
	r := scheduler.Reminder{Date: "2024-01-03"}
	for i, w := range words {
		r.Due = append(r.Due, models.Card{ID: fmt.Sprint(i), Word: w})
	}
	r.Stats.DueToday = len(words)
	return r
}

func TestSendReminder(t *testing.T) {
	api := &fakeSender{}
	n := newNotifier(api, Config{ChatID: 42, StudyURL: "http://localhost:8080"}, nil)

	require.NoError(t, n.SendReminder(context.Background(), reminder("apple", "pear")))
	require.Len(t, api.sent, 1)

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "You have 2 cards to review today")
	assert.NotNil(t, msg.ReplyMarkup)
}

func TestSendReminder_Error(t *testing.T) {
	n := newNotifier(&fakeSender{err: errors.New("forbidden")}, Config{ChatID: 42}, nil)
	err := n.SendReminder(context.Background(), reminder("apple"))
	assert.ErrorContains(t, err, "forbidden")
}

func TestSendReminder_CancelledContext(t *testing.T) {
	api := &fakeSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newNotifier(api, Config{ChatID: 42}, nil).SendReminder(ctx, reminder("apple"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.sent)
}

func TestFormatReminder(t *testing.T) {
	r := reminder("apple", "pear", "plum")
	r.Due[0].POS = models.PartsOfSpeech{"n", "v"}
	r.Stats.Unseen = 4

	text := FormatReminder(r, 2)
	assert.Contains(t, text, "• apple (noun, verb)")
	assert.Contains(t, text, "• pear")
	assert.NotContains(t, text, "plum")
	assert.Contains(t, text, "...and 1 more")
	assert.Contains(t, text, "4 new cards")

	assert.Contains(t, FormatReminder(reminder("apple"), 10), "1 card to review")
}

func TestConfig(t *testing.T) {
	assert.False(t, DefaultConfig().Enabled())
	assert.True(t, Config{Token: "t", ChatID: 1}.Enabled())
	assert.ErrorIs(t, Config{ChatID: 1}.Validate(), ErrMissingToken)
	assert.NoError(t, Config{}.Validate())

	id, err := ParseChatID(" -100123 ")
	require.NoError(t, err)
	assert.Equal(t, int64(-100123), id)
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.ErrorIs(t, err, ErrMissingToken)
}
