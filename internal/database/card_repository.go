package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	"github.com/jmoiron/sqlx"
)

// CardRepository handles database operations for cards
type CardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new repository instance
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{db: db}
}

// cardRow is the table layout of a card
type cardRow struct {
	ID              string         `db:"id"`
	Word            string         `db:"word"`
	POS             string         `db:"pos"`
	Definition      string         `db:"definition"`
	ExampleSentence string         `db:"example_sentence"`
	PronunciationUK string         `db:"pronunciation_uk"`
	PronunciationUS string         `db:"pronunciation_us"`
	ZhTraditional   string         `db:"zh_traditional"`
	AudioUK         string         `db:"audio_uk"`
	AudioUS         string         `db:"audio_us"`
	Image           []byte         `db:"image"`
	ImageType       string         `db:"image_type"`
	Notes           string         `db:"notes"`
	DueDate         sql.NullString `db:"due_date"`
	CreatedAt       time.Time      `db:"created_at"`
}

const cardColumns = `id, word, pos, definition, example_sentence, pronunciation_uk, pronunciation_us,
	zh_traditional, audio_uk, audio_us, image, image_type, notes, due_date, created_at`

func (r cardRow) toModel() (models.Card, error) {
	card := models.Card{
		ID:              r.ID,
		Word:            r.Word,
		Definition:      r.Definition,
		ExampleSentence: r.ExampleSentence,
		PronunciationUK: r.PronunciationUK,
		PronunciationUS: r.PronunciationUS,
		ZhTraditional:   r.ZhTraditional,
		AudioUK:         r.AudioUK,
		AudioUS:         r.AudioUS,
		Image:           r.Image,
		ImageType:       r.ImageType,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
	if r.DueDate.Valid {
		card.Progress.DueDate = r.DueDate.String
	}
	if r.POS != "" {
		if err := json.Unmarshal([]byte(r.POS), &card.POS); err != nil {
			return card, fmt.Errorf("failed to parse parts of speech of card %s: %w", r.ID, err)
		}
	}
	return card, nil
}

// Get returns a card by ID
func (r *CardRepository) Get(ctx context.Context, id string) (*models.Card, error) {
	var row cardRow
	query := r.db.Rebind("SELECT " + cardColumns + " FROM cards WHERE id = ?")
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, storageError("get card", err)
	}

	card, err := row.toModel()
	if err != nil {
		return nil, storageError("get card", err)
	}
	return &card, nil
}

// GetAll returns all cards in key order
func (r *CardRepository) GetAll(ctx context.Context) ([]models.Card, error) {
	var rows []cardRow
	err := r.db.SelectContext(ctx, &rows, "SELECT "+cardColumns+" FROM cards ORDER BY id")
	if err != nil {
		return nil, storageError("get cards", err)
	}

	cards := make([]models.Card, 0, len(rows))
	for _, row := range rows {
		card, err := row.toModel()
		if err != nil {
			return nil, storageError("get cards", err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Put inserts the card or replaces the stored card with the same ID.
// The creation time of an existing card is kept.
func (r *CardRepository) Put(ctx context.Context, card *models.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}

	pos, err := json.Marshal(card.POS)
	if err != nil {
		return fmt.Errorf("failed to marshal parts of speech: %w", err)
	}
	if card.POS == nil {
		pos = []byte("[]")
	}

	var dueDate sql.NullString
	if card.Progress.DueDate != "" {
		dueDate = sql.NullString{String: card.Progress.DueDate, Valid: true}
	}

	query := r.db.Rebind(`
		INSERT INTO cards (` + cardColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			word = excluded.word,
			pos = excluded.pos,
			definition = excluded.definition,
			example_sentence = excluded.example_sentence,
			pronunciation_uk = excluded.pronunciation_uk,
			pronunciation_us = excluded.pronunciation_us,
			zh_traditional = excluded.zh_traditional,
			audio_uk = excluded.audio_uk,
			audio_us = excluded.audio_us,
			image = excluded.image,
			image_type = excluded.image_type,
			notes = excluded.notes,
			due_date = excluded.due_date
	`)
	_, err = r.db.ExecContext(ctx, query,
		card.ID,
		card.Word,
		string(pos),
		card.Definition,
		card.ExampleSentence,
		card.PronunciationUK,
		card.PronunciationUS,
		card.ZhTraditional,
		card.AudioUK,
		card.AudioUS,
		card.Image,
		card.ImageType,
		card.Notes,
		dueDate,
		card.CreatedAt,
	)
	if err != nil {
		return storageError("put card", err)
	}
	return nil
}

// Delete removes a card. Deleting a missing card is not an error.
// Playlists referencing the card are left untouched.
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM cards WHERE id = ?"), id)
	if err != nil {
		return storageError("delete card", err)
	}
	return nil
}

// SearchCards searches for cards whose word or definition contains the pattern
func (r *CardRepository) SearchCards(ctx context.Context, pattern string) ([]models.Card, error) {
	like := "%" + pattern + "%"
	query := r.db.Rebind(`
		SELECT ` + cardColumns + ` FROM cards
		WHERE LOWER(word) LIKE LOWER(?) OR LOWER(definition) LIKE LOWER(?)
		ORDER BY word
	`)

	var rows []cardRow
	if err := r.db.SelectContext(ctx, &rows, query, like, like); err != nil {
		return nil, storageError("search cards", err)
	}

	cards := make([]models.Card, 0, len(rows))
	for _, row := range rows {
		card, err := row.toModel()
		if err != nil {
			return nil, storageError("search cards", err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}
