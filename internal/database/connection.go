package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Connect opens the card database and makes sure the schema exists
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		// Create data directory if it doesn't exist
		if dir := sqliteDir(dsn); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite doesn't support multiple writers, and every
		// connection to ":memory:" would see its own database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	if err := InitializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// sqliteDir returns the directory holding a file-backed SQLite database
func sqliteDir(dsn string) string {
	if dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}

// InitializeSchema creates the tables if they don't exist
func InitializeSchema(db *sqlx.DB) error {
	blobType, autoID := "BLOB", "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == DriverPostgres {
		blobType, autoID = "BYTEA", "BIGSERIAL PRIMARY KEY"
	}

	// Create cards table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			word TEXT NOT NULL,
			pos TEXT NOT NULL DEFAULT '[]',
			definition TEXT NOT NULL DEFAULT '',
			example_sentence TEXT NOT NULL DEFAULT '',
			pronunciation_uk TEXT NOT NULL DEFAULT '',
			pronunciation_us TEXT NOT NULL DEFAULT '',
			zh_traditional TEXT NOT NULL DEFAULT '',
			audio_uk TEXT NOT NULL DEFAULT '',
			audio_us TEXT NOT NULL DEFAULT '',
			image ` + blobType + `,
			image_type TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			due_date TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cards table: %w", err)
	}

	// Create playlists table, names are unique
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS playlists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			cards TEXT NOT NULL DEFAULT '[]'
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create playlists table: %w", err)
	}

	// Create quiz_results table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS quiz_results (
			id ` + autoID + `,
			total INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create quiz_results table: %w", err)
	}

	return nil
}
