// Package localstore keeps the client-local state of the flashcard app in a
// bbolt file: the custom card list, the progress map and the API key, each
// stored as one serialized item. Bundled example cards are embedded and
// merged in on every read.
package localstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// Well-known names in client-local storage
const (
	BucketName     = "localStorage"
	KeyCustomCards = "customFlashcards"
	KeyProgress    = "flashcardProgress"
	KeyAPIKey      = "openai_api_key"
	KeyNotes       = "flashcardNotes"
	KeyPlaylists   = "playlists"
	KeyQuizResults = "quizResults"
)

//go:embed bundled.json
var bundledJSON []byte

// Store is the client-local key-value storage
type Store struct {
	db      *bolt.DB
	bundled []models.Card
}

// Open opens or creates the storage file
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create storage directory")
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open local storage")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create local storage bucket")
	}

	bundled, err := Bundled()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, bundled: bundled}, nil
}

// Close releases the storage file
func (s *Store) Close() error {
	return s.db.Close()
}

// GetItem returns the raw value stored under key
func (s *Store) GetItem(key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(BucketName)).Get([]byte(key)); v != nil {
			value = bytes.Clone(v)
		}
		return nil
	})
	if err != nil {
		return "", false, errors.Wrapf(err, "get %s", key)
	}
	return string(value), value != nil, nil
}

// SetItem stores value under key
func (s *Store) SetItem(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketName)).Put([]byte(key), []byte(value))
	})
	return errors.Wrapf(err, "set %s", key)
}

// RemoveItem deletes key
func (s *Store) RemoveItem(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketName)).Delete([]byte(key))
	})
	return errors.Wrapf(err, "remove %s", key)
}

// APIKey returns the saved OpenAI API key, or "" when none is saved
func (s *Store) APIKey() (string, error) {
	key, _, err := s.GetItem(KeyAPIKey)
	return key, err
}

// SetAPIKey saves the OpenAI API key. An empty key removes it.
func (s *Store) SetAPIKey(key string) error {
	if key == "" {
		return s.RemoveItem(KeyAPIKey)
	}
	return s.SetItem(KeyAPIKey, key)
}

// Progress returns the saved progress map keyed by card id
func (s *Store) Progress() (map[string]models.Progress, error) {
	var progress map[string]models.Progress
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		progress, err = readProgress(tx.Bucket([]byte(BucketName)))
		return err
	})
	return progress, err
}

// AppendCustomCards adds new cards after the existing custom cards. An id
// that is already taken fails with *apperr.ConstraintError and nothing is
// written.
func (s *Store) AppendCustomCards(cards []models.Card) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		existing, err := readCustom(b)
		if err != nil {
			return err
		}

		taken := make(map[string]bool, len(existing)+len(cards))
		for _, c := range existing {
			taken[c.ID] = true
		}
		added := make([]models.Card, 0, len(cards))
		for _, c := range cards {
			if taken[c.ID] || s.IsBundled(c.ID) {
				return &apperr.ConstraintError{Field: "id", Value: c.ID}
			}
			taken[c.ID] = true
			c.Progress = models.Progress{}
			added = append(added, c)
		}
		return writeCustom(b, append(existing, added...))
	})
}

// LoadCards returns the bundled cards followed by the custom cards, each
// carrying its saved progress
func (s *Store) LoadCards() ([]models.Card, error) {
	var cards []models.Card
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		custom, err := readCustom(b)
		if err != nil {
			return err
		}
		progress, err := readProgress(b)
		if err != nil {
			return err
		}
		notes, err := readNotes(b)
		if err != nil {
			return err
		}
		cards = merge(s.bundled, custom, progress, notes)
		return nil
	})
	return cards, err
}

// IsBundled reports whether id belongs to the embedded example deck
func (s *Store) IsBundled(id string) bool {
	for _, c := range s.bundled {
		if c.ID == id {
			return true
		}
	}
	return false
}

func merge(bundled, custom []models.Card, progress map[string]models.Progress, notes map[string]string) []models.Card {
	cards := make([]models.Card, 0, len(bundled)+len(custom))
	for _, c := range bundled {
		c.Notes = notes[c.ID]
		cards = append(cards, c)
	}
	cards = append(cards, custom...)
	for i := range cards {
		if p, ok := progress[cards[i].ID]; ok {
			cards[i].Progress = p
		}
	}
	return cards
}

func readNotes(b *bolt.Bucket) (map[string]string, error) {
	notes := map[string]string{}
	v := b.Get([]byte(KeyNotes))
	if len(v) == 0 {
		return notes, nil
	}
	if err := json.Unmarshal(v, &notes); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", KeyNotes, err)
	}
	return notes, nil
}

func writeNotes(b *bolt.Bucket, notes map[string]string) error {
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", KeyNotes, err)
	}
	return b.Put([]byte(KeyNotes), data)
}

func readProgress(b *bolt.Bucket) (map[string]models.Progress, error) {
	progress := map[string]models.Progress{}
	v := b.Get([]byte(KeyProgress))
	if len(v) == 0 {
		return progress, nil
	}
	if err := json.Unmarshal(v, &progress); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", KeyProgress, err)
	}
	return progress, nil
}

func writeProgress(b *bolt.Bucket, progress map[string]models.Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", KeyProgress, err)
	}
	return b.Put([]byte(KeyProgress), data)
}

func readCustom(b *bolt.Bucket) ([]models.Card, error) {
	v := b.Get([]byte(KeyCustomCards))
	if len(v) == 0 {
		return nil, nil
	}
	var stored []storedCard
	if err := json.Unmarshal(v, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", KeyCustomCards, err)
	}
	cards := make([]models.Card, 0, len(stored))
	for _, sc := range stored {
		card, err := sc.toModel()
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func writeCustom(b *bolt.Bucket, cards []models.Card) error {
	stored := make([]storedCard, len(cards))
	for i := range cards {
		stored[i] = fromModel(cards[i])
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", KeyCustomCards, err)
	}
	return b.Put([]byte(KeyCustomCards), data)
}

// Bundled decodes the embedded example deck
func Bundled() ([]models.Card, error) {
	var stored []storedCard
	if err := json.Unmarshal(bundledJSON, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse bundled cards: %w", err)
	}
	cards := make([]models.Card, 0, len(stored))
	for _, sc := range stored {
		card, err := sc.toModel()
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
