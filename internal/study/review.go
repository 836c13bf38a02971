package study

import (
	"context"
	"time"

	"github.com/example/flashcards/internal/spaced_repetition"
	"github.com/example/flashcards/pkg/models"
	"github.com/pkg/errors"
)

// ReviewCard schedules the card with the given outcome and persists it.
// Store failures are returned as *apperr.StorageError.
func ReviewCard(ctx context.Context, store CardStore, id string, outcome spaced_repetition.Outcome, today time.Time) (*models.Card, error) {
	card, err := store.Get(ctx, id)
	if err != nil {
		return nil, storeError("get card", err)
	}

	if err := spaced_repetition.Apply(card, outcome, today); err != nil {
		return nil, errors.Wrapf(err, "review %s", id)
	}

	if err := store.Put(ctx, card); err != nil {
		return nil, storeError("put card", err)
	}
	return card, nil
}

// CardsFromCandidates turns recognized words into new cards sharing one image.
// Candidates without a word are skipped.
func CardsFromCandidates(candidates []models.WordCandidate, image []byte, imageType string, newID func() string, now time.Time) []models.Card {
	cards := make([]models.Card, 0, len(candidates))
	for _, c := range candidates {
		if c.Word == "" {
			continue
		}
		cards = append(cards, models.Card{
			ID:         newID(),
			Word:       c.Word,
			POS:        c.POS,
			Definition: c.Definition,
			Image:      image,
			ImageType:  imageType,
			CreatedAt:  now,
		})
	}
	return cards
}
