package models

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyWord is returned when a card without a word is stored
var ErrEmptyWord = errors.New("card word cannot be empty")

// Card represents a single vocabulary flashcard
type Card struct {
	ID              string        `json:"id" db:"id"`
	Word            string        `json:"word" db:"word"`
	POS             PartsOfSpeech `json:"pos" db:"pos"`
	Definition      string        `json:"definition" db:"definition"`
	ExampleSentence string        `json:"exampleSentence,omitempty" db:"example_sentence"`
	PronunciationUK string        `json:"pronunciationUK,omitempty" db:"pronunciation_uk"`
	PronunciationUS string        `json:"pronunciationUS,omitempty" db:"pronunciation_us"`
	ZhTraditional   string        `json:"zhTraditional,omitempty" db:"zh_traditional"`
	AudioUK         string        `json:"audioUK,omitempty" db:"audio_uk"`
	AudioUS         string        `json:"audioUS,omitempty" db:"audio_us"`
	Image           []byte        `json:"image,omitempty" db:"image"`
	ImageType       string        `json:"imageType,omitempty" db:"image_type"`
	Notes           string        `json:"notes" db:"notes"`
	Progress        Progress      `json:"progress"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
}

// Validate checks the fields every stored card must carry
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Word) == "" {
		return ErrEmptyWord
	}
	if c.ID == "" {
		return fmt.Errorf("card %q has no id", c.Word)
	}
	return nil
}

// SetImageDataURL stores a "data:<mime>;base64,<payload>" string as the card image
func (c *Card) SetImageDataURL(dataURL string) error {
	if dataURL == "" {
		c.Image, c.ImageType = nil, ""
		return nil
	}
	if !strings.HasPrefix(dataURL, "data:") {
		return fmt.Errorf("not a data URL")
	}
	header, payload, ok := strings.Cut(dataURL[len("data:"):], ",")
	if !ok {
		return fmt.Errorf("data URL has no payload")
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		c.Image, c.ImageType = []byte(payload), mime
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("failed to decode data URL: %w", err)
	}
	c.Image, c.ImageType = data, mime
	return nil
}

// ImageDataURL returns the card image as a data URL, or "" when the card has none
func (c *Card) ImageDataURL() string {
	if len(c.Image) == 0 {
		return ""
	}
	mime := c.ImageType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(c.Image)
}

// PartsOfSpeech holds one or more part-of-speech tags (n, v, adj, adv, ...).
// In JSON it accepts either a single string or an array of strings.
type PartsOfSpeech []string

// UnmarshalJSON accepts "n" as well as ["n", "v"]
func (p *PartsOfSpeech) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*p = nil
		} else {
			*p = PartsOfSpeech{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("pos must be a string or a list of strings: %w", err)
	}
	*p = many
	return nil
}

// posNames maps abbreviated tags to their full names
var posNames = map[string]string{
	"n":   "noun",
	"v":   "verb",
	"adj": "adjective",
	"adv": "adverb",
}

// FullNames returns display names for the tags, keeping unknown tags as they are
func (p PartsOfSpeech) FullNames() []string {
	names := make([]string, 0, len(p))
	for _, tag := range p {
		if name, ok := posNames[strings.ToLower(tag)]; ok {
			names = append(names, name)
		} else {
			names = append(names, tag)
		}
	}
	return names
}
