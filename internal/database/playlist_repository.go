package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	"github.com/jmoiron/sqlx"
)

// PlaylistRepository handles database operations for playlists
type PlaylistRepository struct {
	db *sqlx.DB
}

// NewPlaylistRepository creates a new repository instance
func NewPlaylistRepository(db *sqlx.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

type playlistRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Cards string `db:"cards"`
}

func (r playlistRow) toModel() (models.Playlist, error) {
	playlist := models.Playlist{ID: r.ID, Name: r.Name, Cards: []string{}}
	if r.Cards != "" {
		if err := json.Unmarshal([]byte(r.Cards), &playlist.Cards); err != nil {
			return playlist, fmt.Errorf("failed to parse cards of playlist %s: %w", r.ID, err)
		}
	}
	return playlist, nil
}

func marshalCardIDs(ids []string) (string, error) {
	if ids == nil {
		return "[]", nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to marshal card ids: %w", err)
	}
	return string(data), nil
}

// Get returns a playlist by ID
func (r *PlaylistRepository) Get(ctx context.Context, id string) (*models.Playlist, error) {
	var row playlistRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind("SELECT id, name, cards FROM playlists WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("playlist %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, storageError("get playlist", err)
	}

	playlist, err := row.toModel()
	if err != nil {
		return nil, storageError("get playlist", err)
	}
	return &playlist, nil
}

// GetAll returns all playlists in key order
func (r *PlaylistRepository) GetAll(ctx context.Context) ([]models.Playlist, error) {
	var rows []playlistRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT id, name, cards FROM playlists ORDER BY id"); err != nil {
		return nil, storageError("get playlists", err)
	}

	playlists := make([]models.Playlist, 0, len(rows))
	for _, row := range rows {
		playlist, err := row.toModel()
		if err != nil {
			return nil, storageError("get playlists", err)
		}
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

// Add inserts a new playlist. It fails with a ConstraintError when
// the name or the ID is already taken.
func (r *PlaylistRepository) Add(ctx context.Context, playlist *models.Playlist) error {
	cards, err := marshalCardIDs(playlist.Cards)
	if err != nil {
		return err
	}

	query := r.db.Rebind("INSERT INTO playlists (id, name, cards) VALUES (?, ?, ?)")
	if _, err := r.db.ExecContext(ctx, query, playlist.ID, playlist.Name, cards); err != nil {
		if detail, ok := uniqueViolation(err); ok {
			return playlistConstraintError(detail, playlist.ID, playlist.Name)
		}
		return storageError("add playlist", err)
	}
	return nil
}

// Put inserts the playlist or replaces the one with the same ID
func (r *PlaylistRepository) Put(ctx context.Context, playlist *models.Playlist) error {
	cards, err := marshalCardIDs(playlist.Cards)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`
		INSERT INTO playlists (id, name, cards) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			cards = excluded.cards
	`)
	if _, err := r.db.ExecContext(ctx, query, playlist.ID, playlist.Name, cards); err != nil {
		if detail, ok := uniqueViolation(err); ok {
			return playlistConstraintError(detail, playlist.ID, playlist.Name)
		}
		return storageError("put playlist", err)
	}
	return nil
}

// Delete removes a playlist. The cards it references are not touched.
func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM playlists WHERE id = ?"), id); err != nil {
		return storageError("delete playlist", err)
	}
	return nil
}
