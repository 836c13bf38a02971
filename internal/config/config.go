// Package config loads flashcards settings from defaults, an optional TOML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/flashcards/internal/ai"
	"github.com/example/flashcards/internal/bot"
	"github.com/example/flashcards/internal/scheduler"
	"github.com/pelletier/go-toml/v2"
)

// Database configures the SQL card store.
type Database struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// Storage selects where cards live: "sql" uses [database], "local" a bbolt file.
type Storage struct {
	Backend   string `toml:"backend"`
	LocalPath string `toml:"local_path"`
}

// AI contains the chat completion settings shared by quiz, vision and assistant.
type AI struct {
	Provider    string   `toml:"provider"`
	APIKey      string   `toml:"api_key"`
	Endpoints   []string `toml:"endpoints"`
	APIVersion  string   `toml:"api_version"`
	QuizModel   string   `toml:"quiz_model"`
	VisionModel string   `toml:"vision_model"`
	ChatModel   string   `toml:"chat_model"`
	// Retry settings for quiz generation
	MaxAttempts    int `toml:"max_attempts"`
	RetryDelayMS   int `toml:"retry_delay_ms"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Server contains the HTTP bind address.
type Server struct {
	Addr string `toml:"addr"`
}

// Reminder configures the daily due-card reminder.
type Reminder struct {
	Enabled       bool   `toml:"enabled"`
	At            string `toml:"at"`
	Timezone      string `toml:"timezone"`
	TelegramToken string `toml:"telegram_token"`
	ChatID        int64  `toml:"chat_id"`
	MaxWords      int    `toml:"max_words"`
	StudyURL      string `toml:"study_url"`
}

// Quiz contains quiz settings.
type Quiz struct {
	MinCards int `toml:"min_cards"`
}

// Logging contains log settings.
type Logging struct {
	Level string `toml:"level"`
}

// Config encapsulates all configuration values.
type Config struct {
	Database Database `toml:"database"`
	Storage  Storage  `toml:"storage"`
	AI       AI       `toml:"ai"`
	Server   Server   `toml:"server"`
	Reminder Reminder `toml:"reminder"`
	Quiz     Quiz     `toml:"quiz"`
	Logging  Logging  `toml:"logging"`
}

// Load parses the file at path when it exists, applies the environment and
// validates the result. An empty path loads "flashcards.toml" from the
// working directory if present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFileName
	}
	file, err := os.Open(filepath.Clean(path))
	switch {
	case err == nil:
		defer file.Close()
		if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// AIConfig converts the [ai] section for the ai package.
func (c *Config) AIConfig() *ai.Config {
	cfg := ai.DefaultConfig()
	cfg.Provider = c.AI.Provider
	cfg.APIKey = c.AI.APIKey
	cfg.Endpoints = append([]string(nil), c.AI.Endpoints...)
	cfg.APIVersion = c.AI.APIVersion
	cfg.QuizModel = c.AI.QuizModel
	cfg.VisionModel = c.AI.VisionModel
	cfg.ChatModel = c.AI.ChatModel
	cfg.Retry = ai.RetryPolicy{
		MaxAttempts:    c.AI.MaxAttempts,
		Delay:          time.Duration(c.AI.RetryDelayMS) * time.Millisecond,
		AttemptTimeout: time.Duration(c.AI.TimeoutSeconds) * time.Second,
	}
	return cfg
}

// SchedulerConfig converts the [reminder] schedule.
func (c *Config) SchedulerConfig() scheduler.Config {
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		loc = time.Local
	}
	return scheduler.Config{At: c.Reminder.At, Location: loc}
}

// BotConfig converts the Telegram part of [reminder].
func (c *Config) BotConfig() bot.Config {
	return bot.Config{
		Token:    c.Reminder.TelegramToken,
		ChatID:   c.Reminder.ChatID,
		MaxWords: c.Reminder.MaxWords,
		StudyURL: c.Reminder.StudyURL,
	}
}

// LogLevel maps the configured level name, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
