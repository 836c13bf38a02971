package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/flashcards/internal/ai"
	"github.com/example/flashcards/internal/database"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateAI(); err != nil {
		return err
	}
	if err := c.validateReminder(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendSQL:
		switch c.Database.Driver {
		case database.DriverSQLite, database.DriverPostgres:
		default:
			return fmt.Errorf("database.driver must be %q or %q, got %q", database.DriverSQLite, database.DriverPostgres, c.Database.Driver)
		}
		if c.Database.DSN == "" {
			return errors.New("database.dsn must be set")
		}
	case BackendLocal:
		if c.Storage.LocalPath == "" {
			return errors.New("storage.local_path must be set")
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQL, BackendLocal, c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateAI() error {
	switch c.AI.Provider {
	case ai.ProviderOpenAI, ai.ProviderAzure:
	default:
		return fmt.Errorf("ai.provider must be %q or %q, got %q", ai.ProviderOpenAI, ai.ProviderAzure, c.AI.Provider)
	}
	if len(c.AI.Endpoints) == 0 {
		return errors.New("ai.endpoints must list at least one endpoint")
	}
	if c.AI.MaxAttempts < 1 {
		return errors.New("ai.max_attempts must be at least 1")
	}
	if c.AI.RetryDelayMS < 0 || c.AI.TimeoutSeconds < 0 {
		return errors.New("ai.retry_delay_ms and ai.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateReminder() error {
	if !c.Reminder.Enabled {
		return nil
	}
	if _, err := time.Parse("15:04", c.Reminder.At); err != nil {
		return fmt.Errorf("reminder.at must be HH:MM, got %q", c.Reminder.At)
	}
	if _, err := time.LoadLocation(c.Reminder.Timezone); err != nil {
		return fmt.Errorf("reminder.timezone: %w", err)
	}
	if err := c.BotConfig().Validate(); err != nil {
		return fmt.Errorf("reminder: %w", err)
	}
	return nil
}
