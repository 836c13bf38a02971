package bot

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMissingToken is returned when the Telegram notifier is enabled without a token
var ErrMissingToken = errors.New("telegram bot token is required")

// Config represents the configuration for the reminder bot
type Config struct {
	Token  string `toml:"token"`
	ChatID int64  `toml:"chat_id"`
	// Number of due words listed in a reminder
	MaxWords int `toml:"max_words"`
	// Optional link to the study page, shown as a button
	StudyURL string `toml:"study_url"`
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		MaxWords: 10,
	}
}

// Enabled reports whether a chat is configured
func (c Config) Enabled() bool {
	return c.Token != "" && c.ChatID != 0
}

// Validate checks the configuration of an enabled bot
func (c Config) Validate() error {
	if c.ChatID != 0 && strings.TrimSpace(c.Token) == "" {
		return ErrMissingToken
	}
	return nil
}

// ParseChatID parses a chat id as given in the environment
func ParseChatID(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
