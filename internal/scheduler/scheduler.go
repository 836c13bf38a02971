package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/flashcards/internal/spaced_repetition"
	"github.com/example/flashcards/internal/study"
	"github.com/example/flashcards/pkg/models"
	"github.com/go-co-op/gocron"
)

// DefaultReminderTime is when the daily reminder runs by default
const DefaultReminderTime = "08:00"

// Reminder describes the cards waiting for review on a given day
type Reminder struct {
	Date  string
	Stats models.DeckStatistics
	Due   []models.Card
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminder(ctx context.Context, reminder Reminder) error
}

// Config holds the reminder schedule
type Config struct {
	// At is the time of day in "HH:MM" form
	At       string
	Location *time.Location
	// Timeout bounds one reminder run
	Timeout time.Duration
}

// Scheduler manages scheduled tasks for the application.
// It only reads cards.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cards     study.CardStore
	notifier  Notifier
	config    Config
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a new scheduler instance
func New(cards study.CardStore, notifier Notifier, config Config, logger *slog.Logger) *Scheduler {
	if config.At == "" {
		config.At = DefaultReminderTime
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(config.Location),
		cards:     cards,
		notifier:  notifier,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Start schedules the daily reminder and runs the scheduler in the background
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.config.At).Do(s.checkAndSendReminders)
	if err != nil {
		return fmt.Errorf("failed to schedule reminder at %s: %w", s.config.At, err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.logger.Info("Reminder scheduled", "at", s.config.At, "location", s.config.Location.String())
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// NextRun returns when the reminder fires next
func (s *Scheduler) NextRun() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}

// checkAndSendReminders is the scheduled job
func (s *Scheduler) checkAndSendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	reminder, err := s.RunManualCheck(ctx)
	if err != nil {
		s.logger.Error("Reminder failed", "error", err)
		return
	}
	s.logger.Info("Reminder check finished", "date", reminder.Date, "due", reminder.Stats.DueToday)
}

// RunManualCheck counts due cards and notifies when any are due
func (s *Scheduler) RunManualCheck(ctx context.Context) (Reminder, error) {
	cards, err := s.cards.GetAll(ctx)
	if err != nil {
		return Reminder{}, fmt.Errorf("failed to load cards: %w", err)
	}

	today := s.now().In(s.config.Location)
	reminder := Reminder{
		Date:  today.Format(models.DateLayout),
		Stats: spaced_repetition.Statistics(cards, today),
		Due:   spaced_repetition.DueCards(cards, today),
	}

	if len(reminder.Due) == 0 || s.notifier == nil {
		return reminder, nil
	}
	if err := s.notifier.SendReminder(ctx, reminder); err != nil {
		return reminder, fmt.Errorf("failed to send reminder: %w", err)
	}
	return reminder, nil
}

// LogNotifier writes reminders to the log. It is used when no chat is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

// SendReminder logs the reminder
func (n LogNotifier) SendReminder(_ context.Context, r Reminder) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Cards due for review",
		"date", r.Date,
		"due", r.Stats.DueToday,
		"unseen", r.Stats.Unseen,
		"total", r.Stats.Total)
	return nil
}
