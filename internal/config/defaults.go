package config

import "github.com/example/flashcards/internal/ai"

// DefaultFileName is looked up in the working directory when no path is given
const DefaultFileName = "flashcards.toml"

// Storage backends
const (
	BackendSQL   = "sql"
	BackendLocal = "local"
)

const (
	defaultDSN       = "data/flashcards.db"
	defaultLocalPath = "data/flashcards.bolt"
	defaultAddr      = "127.0.0.1:8080"
	defaultMinCards  = 5
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	aiDefaults := ai.DefaultConfig()
	return Config{
		Database: Database{
			Driver: "sqlite3",
			DSN:    defaultDSN,
		},
		Storage: Storage{
			Backend:   BackendSQL,
			LocalPath: defaultLocalPath,
		},
		AI: AI{
			Provider:       aiDefaults.Provider,
			Endpoints:      aiDefaults.Endpoints,
			QuizModel:      aiDefaults.QuizModel,
			VisionModel:    aiDefaults.VisionModel,
			ChatModel:      aiDefaults.ChatModel,
			MaxAttempts:    aiDefaults.Retry.MaxAttempts,
			RetryDelayMS:   int(aiDefaults.Retry.Delay.Milliseconds()),
			TimeoutSeconds: int(aiDefaults.Retry.AttemptTimeout.Seconds()),
		},
		Server: Server{
			Addr: defaultAddr,
		},
		Reminder: Reminder{
			At:       "08:00",
			Timezone: "Local",
			MaxWords: 10,
		},
		Quiz: Quiz{
			MinCards: defaultMinCards,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}
