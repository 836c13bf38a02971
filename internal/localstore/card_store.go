package localstore

import (
	"context"
	"fmt"
	"time"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// ErrReadOnly is returned when a bundled card is deleted
var ErrReadOnly = errors.New("bundled cards cannot be deleted")

// CardStore exposes the local storage as a card store. Bundled cards only
// take progress and notes; custom cards are fully mutable.
type CardStore struct {
	store *Store
}

// NewCardStore wraps the local storage
func NewCardStore(store *Store) *CardStore {
	return &CardStore{store: store}
}

// Get returns a card by id
func (c *CardStore) Get(ctx context.Context, id string) (*models.Card, error) {
	cards, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].ID == id {
			return &cards[i], nil
		}
	}
	return nil, fmt.Errorf("card %s: %w", id, apperr.ErrNotFound)
}

// GetAll returns bundled cards followed by custom cards
func (c *CardStore) GetAll(_ context.Context) ([]models.Card, error) {
	cards, err := c.store.LoadCards()
	if err != nil {
		return nil, &apperr.StorageError{Op: "load cards", Err: err}
	}
	return cards, nil
}

// Put saves the card's progress and, for custom cards, the card itself
func (c *CardStore) Put(_ context.Context, card *models.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	bundled := c.store.IsBundled(card.ID)

	err := c.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))

		progress, err := readProgress(b)
		if err != nil {
			return err
		}
		if card.Progress.DueDate == "" {
			delete(progress, card.ID)
		} else {
			progress[card.ID] = card.Progress
		}
		if err := writeProgress(b, progress); err != nil {
			return err
		}

		if bundled {
			return putBundledNotes(b, card)
		}
		custom, err := readCustom(b)
		if err != nil {
			return err
		}

		stored := *card
		stored.Progress = models.Progress{}
		replaced := false
		for i := range custom {
			if custom[i].ID == card.ID {
				stored.CreatedAt = custom[i].CreatedAt
				custom[i] = stored
				replaced = true
				break
			}
		}
		if !replaced {
			custom = append(custom, stored)
		}
		return writeCustom(b, custom)
	})
	if err != nil {
		return &apperr.StorageError{Op: "put card", Err: err}
	}
	return nil
}

// AddCards appends new custom cards in one write. Taken ids fail with
// *apperr.ConstraintError.
func (c *CardStore) AddCards(_ context.Context, cards []models.Card) error {
	now := time.Now().UTC()
	for i := range cards {
		if err := cards[i].Validate(); err != nil {
			return err
		}
		if cards[i].CreatedAt.IsZero() {
			cards[i].CreatedAt = now
		}
	}
	err := c.store.AppendCustomCards(cards)
	var ce *apperr.ConstraintError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ce):
		return ce
	default:
		return &apperr.StorageError{Op: "add cards", Err: err}
	}
}

// putBundledNotes keeps the notes of a bundled card in the notes map
func putBundledNotes(b *bolt.Bucket, card *models.Card) error {
	notes, err := readNotes(b)
	if err != nil {
		return err
	}
	if card.Notes == "" {
		delete(notes, card.ID)
	} else {
		notes[card.ID] = card.Notes
	}
	return writeNotes(b, notes)
}

// Delete removes a custom card and its progress. Missing ids are ignored.
func (c *CardStore) Delete(_ context.Context, id string) error {
	if c.store.IsBundled(id) {
		return fmt.Errorf("card %s: %w", id, ErrReadOnly)
	}
	err := c.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		custom, err := readCustom(b)
		if err != nil {
			return err
		}
		kept := custom[:0]
		for _, card := range custom {
			if card.ID != id {
				kept = append(kept, card)
			}
		}
		if len(kept) == len(custom) {
			return nil
		}
		if err := writeCustom(b, kept); err != nil {
			return err
		}

		progress, err := readProgress(b)
		if err != nil {
			return err
		}
		delete(progress, id)
		return writeProgress(b, progress)
	})
	if err != nil {
		return &apperr.StorageError{Op: "delete card", Err: err}
	}
	return nil
}
