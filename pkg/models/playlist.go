package models

// Playlist is a named, ordered list of card ids.
// Ids that no longer resolve to a card are kept and skipped when read.
type Playlist struct {
	ID    string   `json:"id" db:"id"`
	Name  string   `json:"name" db:"name"`
	Cards []string `json:"cards" db:"cards"`
}

// Contains reports whether the playlist references the card
func (p *Playlist) Contains(cardID string) bool {
	return p.indexOf(cardID) >= 0
}

// Add appends the card id. Duplicates are allowed.
func (p *Playlist) Add(cardID string) {
	p.Cards = append(p.Cards, cardID)
}

// Remove drops the first occurrence of the card id and reports whether one was found
func (p *Playlist) Remove(cardID string) bool {
	i := p.indexOf(cardID)
	if i < 0 {
		return false
	}
	p.Cards = append(p.Cards[:i:i], p.Cards[i+1:]...)
	return true
}

func (p *Playlist) indexOf(cardID string) int {
	for i, id := range p.Cards {
		if id == cardID {
			return i
		}
	}
	return -1
}
