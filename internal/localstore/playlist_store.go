package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	bolt "go.etcd.io/bbolt"
)

// PlaylistStore keeps playlists as one JSON list under KeyPlaylists
type PlaylistStore struct {
	store *Store
}

// NewPlaylistStore wraps the local storage
func NewPlaylistStore(store *Store) *PlaylistStore {
	return &PlaylistStore{store: store}
}

// Get returns a playlist by id
func (p *PlaylistStore) Get(ctx context.Context, id string) (*models.Playlist, error) {
	all, err := p.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("playlist %s: %w", id, apperr.ErrNotFound)
}

// GetAll returns every playlist ordered by name
func (p *PlaylistStore) GetAll(_ context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := p.store.db.View(func(tx *bolt.Tx) error {
		var err error
		playlists, err = readPlaylists(tx.Bucket([]byte(BucketName)))
		return err
	})
	if err != nil {
		return nil, &apperr.StorageError{Op: "load playlists", Err: err}
	}
	sort.SliceStable(playlists, func(i, j int) bool {
		return strings.ToLower(playlists[i].Name) < strings.ToLower(playlists[j].Name)
	})
	return playlists, nil
}

// Add stores a new playlist. A taken id or name fails with *apperr.ConstraintError.
func (p *PlaylistStore) Add(_ context.Context, playlist *models.Playlist) error {
	return p.update("add playlist", func(all []models.Playlist) ([]models.Playlist, error) {
		for _, existing := range all {
			switch {
			case existing.ID == playlist.ID:
				return nil, &apperr.ConstraintError{Field: "id", Value: playlist.ID}
			case existing.Name == playlist.Name:
				return nil, &apperr.ConstraintError{Field: "name", Value: playlist.Name}
			}
		}
		return append(all, *playlist), nil
	})
}

// Put replaces a stored playlist
func (p *PlaylistStore) Put(_ context.Context, playlist *models.Playlist) error {
	return p.update("put playlist", func(all []models.Playlist) ([]models.Playlist, error) {
		found := -1
		for i, existing := range all {
			switch {
			case existing.ID == playlist.ID:
				found = i
			case existing.Name == playlist.Name:
				return nil, &apperr.ConstraintError{Field: "name", Value: playlist.Name}
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("playlist %s: %w", playlist.ID, apperr.ErrNotFound)
		}
		all[found] = *playlist
		return all, nil
	})
}

// Delete removes a playlist. Missing ids are ignored.
func (p *PlaylistStore) Delete(_ context.Context, id string) error {
	return p.update("delete playlist", func(all []models.Playlist) ([]models.Playlist, error) {
		kept := all[:0]
		for _, existing := range all {
			if existing.ID != id {
				kept = append(kept, existing)
			}
		}
		return kept, nil
	})
}

// update rewrites the playlist list. Constraint and not-found errors are
// returned as they are, anything else as a storage error.
func (p *PlaylistStore) update(op string, fn func([]models.Playlist) ([]models.Playlist, error)) error {
	var domainErr error
	err := p.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		all, err := readPlaylists(b)
		if err != nil {
			return err
		}
		next, err := fn(all)
		if err != nil {
			domainErr = err
			return err
		}
		return writePlaylists(b, next)
	})
	if domainErr != nil {
		return domainErr
	}
	if err != nil {
		return &apperr.StorageError{Op: op, Err: err}
	}
	return nil
}

func readPlaylists(b *bolt.Bucket) ([]models.Playlist, error) {
	v := b.Get([]byte(KeyPlaylists))
	if len(v) == 0 {
		return nil, nil
	}
	var playlists []models.Playlist
	if err := json.Unmarshal(v, &playlists); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", KeyPlaylists, err)
	}
	for i := range playlists {
		if playlists[i].Cards == nil {
			playlists[i].Cards = []string{}
		}
	}
	return playlists, nil
}

func writePlaylists(b *bolt.Bucket, playlists []models.Playlist) error {
	data, err := json.Marshal(playlists)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", KeyPlaylists, err)
	}
	return b.Put([]byte(KeyPlaylists), data)
}

// QuizResultStore keeps finished quiz scores under KeyQuizResults
type QuizResultStore struct {
	store *Store
}

// NewQuizResultStore wraps the local storage
func NewQuizResultStore(store *Store) *QuizResultStore {
	return &QuizResultStore{store: store}
}

// Create appends a result and assigns its id
func (q *QuizResultStore) Create(_ context.Context, result *models.QuizResult) error {
	err := q.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		results, err := readResults(b)
		if err != nil {
			return err
		}
		var next int64 = 1
		for _, r := range results {
			if r.ID >= next {
				next = r.ID + 1
			}
		}
		result.ID = next
		data, err := json.Marshal(append(results, *result))
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", KeyQuizResults, err)
		}
		return b.Put([]byte(KeyQuizResults), data)
	})
	if err != nil {
		return &apperr.StorageError{Op: "save quiz result", Err: err}
	}
	return nil
}

// GetAll returns the results, newest first
func (q *QuizResultStore) GetAll(_ context.Context) ([]models.QuizResult, error) {
	var results []models.QuizResult
	err := q.store.db.View(func(tx *bolt.Tx) error {
		var err error
		results, err = readResults(tx.Bucket([]byte(BucketName)))
		return err
	})
	if err != nil {
		return nil, &apperr.StorageError{Op: "load quiz results", Err: err}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func readResults(b *bolt.Bucket) ([]models.QuizResult, error) {
	v := b.Get([]byte(KeyQuizResults))
	if len(v) == 0 {
		return nil, nil
	}
	var results []models.QuizResult
	if err := json.Unmarshal(v, &results); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", KeyQuizResults, err)
	}
	return results, nil
}
