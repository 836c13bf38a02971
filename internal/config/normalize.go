package config

import (
	"strconv"
	"strings"
)

type lookupFunc func(string) (string, bool)

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv(lookup lookupFunc) {
	str := func(key string, dst *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}

	str("FLASHCARDS_DB_DRIVER", &c.Database.Driver)
	str("FLASHCARDS_DB_DSN", &c.Database.DSN)
	str("FLASHCARDS_STORAGE", &c.Storage.Backend)
	str("FLASHCARDS_LOCAL_PATH", &c.Storage.LocalPath)
	str("FLASHCARDS_ADDR", &c.Server.Addr)
	str("FLASHCARDS_LOG_LEVEL", &c.Logging.Level)
	str("FLASHCARDS_AI_PROVIDER", &c.AI.Provider)
	str("FLASHCARDS_AI_API_VERSION", &c.AI.APIVersion)
	str("OPENAI_API_KEY", &c.AI.APIKey)
	str("FLASHCARDS_REMINDER_AT", &c.Reminder.At)
	str("FLASHCARDS_REMINDER_TIMEZONE", &c.Reminder.Timezone)
	str("TELEGRAM_BOT_TOKEN", &c.Reminder.TelegramToken)

	if value, ok := lookup("FLASHCARDS_AI_ENDPOINTS"); ok && strings.TrimSpace(value) != "" {
		c.AI.Endpoints = splitList(value)
	}
	if value, ok := lookup("TELEGRAM_CHAT_ID"); ok {
		if id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			c.Reminder.ChatID = id
		}
	}
	if value, ok := lookup("FLASHCARDS_REMINDER_ENABLED"); ok {
		if enabled, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			c.Reminder.Enabled = enabled
		}
	}
}

func (c *Config) normalize() {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Quiz.MinCards <= 0 {
		c.Quiz.MinCards = defaultMinCards
	}

	endpoints := c.AI.Endpoints[:0]
	for _, e := range c.AI.Endpoints {
		if e = strings.TrimRight(strings.TrimSpace(e), "/"); e != "" {
			endpoints = append(endpoints, e)
		}
	}
	c.AI.Endpoints = endpoints
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
