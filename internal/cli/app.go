package cli

import (
	"context"
	"log/slog"

	"github.com/example/flashcards/internal/ai"
	"github.com/example/flashcards/internal/bot"
	"github.com/example/flashcards/internal/config"
	"github.com/example/flashcards/internal/database"
	"github.com/example/flashcards/internal/excel"
	"github.com/example/flashcards/internal/localstore"
	"github.com/example/flashcards/internal/quiz"
	"github.com/example/flashcards/internal/scheduler"
	"github.com/example/flashcards/internal/study"
	"github.com/pkg/errors"
)

// app holds the stores selected by the configuration
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	cards     study.CardStore
	playlists study.PlaylistStore
	results   quiz.ResultStore
	summaries quiz.Summarizer

	local   *localstore.Store
	closers []func() error
}

func openApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	switch cfg.Storage.Backend {
	case config.BackendLocal:
		local, err := a.localStore()
		if err != nil {
			return nil, err
		}
		a.cards = localstore.NewCardStore(local)
		a.playlists = localstore.NewPlaylistStore(local)
		a.results = localstore.NewQuizResultStore(local)
	default:
		db, err := database.Connect(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.cards = database.NewCardRepository(db)
		a.playlists = database.NewPlaylistRepository(db)
		a.results = database.NewQuizResultRepository(db)
		a.summaries = database.NewStatisticsRepository(db)
	}

	logger.Debug("Storage opened", "backend", cfg.Storage.Backend)
	return a, nil
}

// Close releases every store in reverse order
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// localStore opens the client-local storage on first use. It also holds
// the API key saved with "flashcards key set".
func (a *app) localStore() (*localstore.Store, error) {
	if a.local != nil {
		return a.local, nil
	}
	local, err := localstore.Open(a.cfg.Storage.LocalPath)
	if err != nil {
		return nil, err
	}
	a.local = local
	a.closers = append(a.closers, local.Close)
	return local, nil
}

// aiClient builds a client from the configured key, falling back to the saved one
func (a *app) aiClient() (*ai.Client, error) {
	cfg := a.cfg.AIConfig()
	if cfg.APIKey == "" {
		local, err := a.localStore()
		if err != nil {
			return nil, err
		}
		if cfg.APIKey, err = local.APIKey(); err != nil {
			return nil, errors.Wrap(err, "read saved API key")
		}
	}
	return ai.NewClient(cfg, a.logger)
}

func (a *app) session(ctx context.Context) (*study.Session, error) {
	session := study.NewSession(a.cards, a.playlists, study.WithLogger(a.logger))
	if err := session.Load(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

func (a *app) playlistService() *study.PlaylistService {
	return study.NewPlaylistService(a.cards, a.playlists, a.logger)
}

// optionalAIClient is aiClient with a missing key reported as a nil client.
// Other failures, such as an unreadable local store, are returned.
func (a *app) optionalAIClient() (*ai.Client, error) {
	client, err := a.aiClient()
	if errors.Is(err, ai.ErrMissingAPIKey) {
		a.logger.Debug("AI features disabled", "error", err)
		return nil, nil
	}
	return client, err
}

// quizModule returns a module whose Start fails with quiz.ErrNoGenerator when no key is set
func (a *app) quizModule() (*quiz.Module, error) {
	client, err := a.optionalAIClient()
	if err != nil {
		return nil, err
	}
	var generator quiz.Generator
	if client != nil {
		generator = ai.NewQuizGenerator(client)
	}
	m := quiz.NewModule(a.cards, generator, a.results, a.logger)
	m.MinCards = a.cfg.Quiz.MinCards
	if a.summaries != nil {
		m.Summarizer = a.summaries
	}
	return m, nil
}

func (a *app) importer() *excel.Importer {
	return excel.NewImporter(a.cards, a.playlists, a.logger)
}

// reminder builds the daily reminder, sending to Telegram when a chat is configured
func (a *app) reminder() (*scheduler.Scheduler, error) {
	var notifier scheduler.Notifier = scheduler.LogNotifier{Logger: a.logger}
	if botCfg := a.cfg.BotConfig(); botCfg.Enabled() {
		telegram, err := bot.New(botCfg, a.logger)
		if err != nil {
			return nil, err
		}
		notifier = telegram
	}
	return scheduler.New(a.cards, notifier, a.cfg.SchedulerConfig(), a.logger), nil
}
