package models

// WordCandidate is a word recognized in an image, before it becomes a card
type WordCandidate struct {
	Word       string        `json:"word"`
	POS        PartsOfSpeech `json:"pos"`
	Definition string        `json:"definition"`
}
