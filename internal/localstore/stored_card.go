package localstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/flashcards/pkg/models"
)

// cardID accepts both numeric ids written by older clients and string ids
type cardID string

func (id *cardID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = cardID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("card id must be a string or a number: %w", err)
	}
	*id = cardID(n.String())
	return nil
}

// storedCard is the serialized form of a custom card. The image is kept as
// a data URL and progress lives in the separate progress map.
type storedCard struct {
	ID              cardID               `json:"id"`
	Word            string               `json:"word"`
	POS             models.PartsOfSpeech `json:"pos,omitempty"`
	Definition      string               `json:"definition"`
	ExampleSentence string               `json:"exampleSentence,omitempty"`
	PronunciationUK string               `json:"pronunciationUK,omitempty"`
	PronunciationUS string               `json:"pronunciationUS,omitempty"`
	ZhTraditional   string               `json:"zhTraditional,omitempty"`
	AudioUK         string               `json:"audioUK,omitempty"`
	AudioUS         string               `json:"audioUS,omitempty"`
	Image           string               `json:"image,omitempty"`
	Notes           string               `json:"notes"`
	CreatedAt       *time.Time           `json:"createdAt,omitempty"`
}

func (sc storedCard) toModel() (models.Card, error) {
	card := models.Card{
		ID:              string(sc.ID),
		Word:            sc.Word,
		POS:             sc.POS,
		Definition:      sc.Definition,
		ExampleSentence: sc.ExampleSentence,
		PronunciationUK: sc.PronunciationUK,
		PronunciationUS: sc.PronunciationUS,
		ZhTraditional:   sc.ZhTraditional,
		AudioUK:         sc.AudioUK,
		AudioUS:         sc.AudioUS,
		Notes:           sc.Notes,
	}
	if sc.CreatedAt != nil {
		card.CreatedAt = *sc.CreatedAt
	}
	if strings.HasPrefix(sc.Image, "data:") {
		if err := card.SetImageDataURL(sc.Image); err != nil {
			return card, fmt.Errorf("card %s: %w", card.ID, err)
		}
	}
	return card, nil
}

func fromModel(c models.Card) storedCard {
	sc := storedCard{
		ID:              cardID(c.ID),
		Word:            c.Word,
		POS:             c.POS,
		Definition:      c.Definition,
		ExampleSentence: c.ExampleSentence,
		PronunciationUK: c.PronunciationUK,
		PronunciationUS: c.PronunciationUS,
		ZhTraditional:   c.ZhTraditional,
		AudioUK:         c.AudioUK,
		AudioUS:         c.AudioUS,
		Image:           c.ImageDataURL(),
		Notes:           c.Notes,
	}
	if !c.CreatedAt.IsZero() {
		t := c.CreatedAt
		sc.CreatedAt = &t
	}
	return sc
}
