package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/flashcards/internal/scheduler"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier delivers due-card reminders to a Telegram chat
type Notifier struct {
	api    sender
	config Config
	logger *slog.Logger
}

// New connects to the Telegram API and returns a notifier for the configured chat
func New(config Config, logger *slog.Logger) (*Notifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Token == "" {
		return nil, ErrMissingToken
	}

	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Authorized on Telegram", "account", api.Self.UserName)

	return newNotifier(api, config, logger), nil
}

func newNotifier(api sender, config Config, logger *slog.Logger) *Notifier {
	if config.MaxWords <= 0 {
		config.MaxWords = DefaultConfig().MaxWords
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{api: api, config: config, logger: logger}
}

// SendReminder sends the reminder text to the configured chat
func (n *Notifier) SendReminder(ctx context.Context, reminder scheduler.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.config.ChatID, FormatReminder(reminder, n.config.MaxWords))
	if n.config.StudyURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Start review", n.config.StudyURL),
			),
		)
	}

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder to chat %d: %w", n.config.ChatID, err)
	}
	n.logger.Info("Reminder sent", "chat", n.config.ChatID, "due", len(reminder.Due))
	return nil
}

// FormatReminder renders a reminder as plain text, listing at most maxWords words
func FormatReminder(reminder scheduler.Reminder, maxWords int) string {
	var sb strings.Builder
	count := len(reminder.Due)
	noun := "cards"
	if count == 1 {
		noun = "card"
	}
	fmt.Fprintf(&sb, "You have %d %s to review today (%s).\n", count, noun, reminder.Date)

	for i, card := range reminder.Due {
		if maxWords > 0 && i == maxWords {
			fmt.Fprintf(&sb, "...and %d more\n", count-maxWords)
			break
		}
		sb.WriteString("• " + card.Word)
		if len(card.POS) > 0 {
			sb.WriteString(" (" + strings.Join(card.POS.FullNames(), ", ") + ")")
		}
		sb.WriteString("\n")
	}

	if reminder.Stats.Unseen > 0 {
		fmt.Fprintf(&sb, "%d new cards are waiting as well.", reminder.Stats.Unseen)
	}
	return strings.TrimRight(sb.String(), "\n")
}
