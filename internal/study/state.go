package study

import (
	"time"

	"github.com/example/flashcards/internal/spaced_repetition"
	"github.com/example/flashcards/pkg/models"
	"github.com/pkg/errors"
)

// ErrNoCard is returned by commands that need a current card when the active set is empty
var ErrNoCard = errors.New("no card selected")

// State is everything the study view needs: the loaded cards in store
// order, the optional playlist filter, the active set derived from them
// and the cursor into the active set.
type State struct {
	Cards  []models.Card
	Filter *models.Playlist
	Active []models.Card
	Nav    Navigator
}

// NewState selects the active set and starts the cursor at the first card
func NewState(cards []models.Card, filter *models.Playlist) State {
	active := SelectActiveSet(cards, filter)
	return State{
		Cards:  cards,
		Filter: filter,
		Active: active,
		Nav:    NewNavigator(len(active)),
	}
}

// Current returns the card under the cursor
func (s State) Current() (models.Card, bool) {
	if s.Nav.Empty() || s.Nav.Index() >= len(s.Active) {
		return models.Card{}, false
	}
	return s.Active[s.Nav.Index()], true
}

// withCard returns a copy of the state with every copy of the card replaced
func (s State) withCard(card models.Card) State {
	s.Cards = replaceCard(s.Cards, card)
	s.Active = replaceCard(s.Active, card)
	return s
}

func replaceCard(cards []models.Card, card models.Card) []models.Card {
	out := make([]models.Card, len(cards))
	for i, c := range cards {
		if c.ID == card.ID {
			out[i] = card
		} else {
			out[i] = c
		}
	}
	return out
}

// Effect is a side effect requested by a command and carried out by the Session
type Effect interface {
	effect()
}

// PersistCard writes the card to the card store
type PersistCard struct {
	Card models.Card
}

// PersistCards writes new cards to the card store in one batch when the
// store supports it
type PersistCards struct {
	Cards []models.Card
}

// RemoveCard deletes the card from the card store
type RemoveCard struct {
	ID string
}

// Reload re-reads cards and the filter playlist from the stores
type Reload struct{}

// Render asks the adapter to redraw the current card
type Render struct{}

func (PersistCard) effect()  {}
func (PersistCards) effect() {}
func (RemoveCard) effect()   {}
func (Reload) effect()       {}
func (Render) effect()       {}

// Command is a user action. Apply never touches a store; it returns the
// next state and the effects that must succeed for that state to hold.
type Command interface {
	Apply(s State) (State, []Effect, error)
}

// Next shows the following card
type Next struct{}

func (Next) Apply(s State) (State, []Effect, error) {
	s.Nav = s.Nav.Next()
	return s, []Effect{Render{}}, nil
}

// Previous shows the preceding card
type Previous struct{}

func (Previous) Apply(s State) (State, []Effect, error) {
	s.Nav = s.Nav.Previous()
	return s, []Effect{Render{}}, nil
}

// JumpTo shows the card at Index of the active set
type JumpTo struct {
	Index int
}

func (c JumpTo) Apply(s State) (State, []Effect, error) {
	nav, err := s.Nav.JumpTo(c.Index)
	if err != nil {
		return s, nil, err
	}
	s.Nav = nav
	return s, []Effect{Render{}}, nil
}

// Review records an outcome for the current card. The cursor does not move.
type Review struct {
	Outcome spaced_repetition.Outcome
	Today   time.Time
}

func (c Review) Apply(s State) (State, []Effect, error) {
	card, ok := s.Current()
	if !ok {
		return s, nil, ErrNoCard
	}
	if err := spaced_repetition.Apply(&card, c.Outcome, c.Today); err != nil {
		return s, nil, errors.Wrapf(err, "review %s", card.ID)
	}
	return s.withCard(card), []Effect{PersistCard{Card: card}, Render{}}, nil
}

// SaveNotes replaces the notes of the current card
type SaveNotes struct {
	Notes string
}

func (c SaveNotes) Apply(s State) (State, []Effect, error) {
	card, ok := s.Current()
	if !ok {
		return s, nil, ErrNoCard
	}
	card.Notes = c.Notes
	return s.withCard(card), []Effect{PersistCard{Card: card}, Render{}}, nil
}

// ClearNotes empties the notes of the current card
type ClearNotes struct{}

func (ClearNotes) Apply(s State) (State, []Effect, error) {
	return SaveNotes{}.Apply(s)
}

// Delete removes the card at Index of the active set from the store.
// Playlists that reference it are left alone.
type Delete struct {
	Index int
}

func (c Delete) Apply(s State) (State, []Effect, error) {
	nav, err := s.Nav.OnDelete(c.Index)
	if err != nil {
		return s, nil, err
	}
	id := s.Active[c.Index].ID

	active := make([]models.Card, 0, len(s.Active)-1)
	active = append(active, s.Active[:c.Index]...)
	active = append(active, s.Active[c.Index+1:]...)

	cards := make([]models.Card, 0, len(s.Cards))
	for _, card := range s.Cards {
		if card.ID != id {
			cards = append(cards, card)
		}
	}

	s.Cards, s.Active, s.Nav = cards, active, nav
	return s, []Effect{RemoveCard{ID: id}, Render{}}, nil
}

// SetFilter restricts the active set to a playlist, in playlist order
type SetFilter struct {
	Playlist models.Playlist
}

func (c SetFilter) Apply(s State) (State, []Effect, error) {
	filter := c.Playlist
	filter.Cards = append([]string(nil), c.Playlist.Cards...)
	s.Filter = &filter
	s.Active = SelectActiveSet(s.Cards, s.Filter)
	s.Nav = s.Nav.OnFilterChange(len(s.Active))
	return s, []Effect{Render{}}, nil
}

// ClearFilter goes back to all cards ordered by due date
type ClearFilter struct{}

func (ClearFilter) Apply(s State) (State, []Effect, error) {
	s.Filter = nil
	s.Active = SelectActiveSet(s.Cards, nil)
	s.Nav = s.Nav.OnFilterChange(len(s.Active))
	return s, []Effect{Render{}}, nil
}

// AddCard stores a new card and reloads the active set
type AddCard struct {
	Card models.Card
}

func (c AddCard) Apply(s State) (State, []Effect, error) {
	if err := c.Card.Validate(); err != nil {
		return s, nil, err
	}
	return s, []Effect{PersistCard{Card: c.Card}, Reload{}, Render{}}, nil
}

// AddCards stores several new cards, such as the words found in one image
type AddCards struct {
	Cards []models.Card
}

func (c AddCards) Apply(s State) (State, []Effect, error) {
	if len(c.Cards) == 0 {
		return s, nil, nil
	}
	for _, card := range c.Cards {
		if err := card.Validate(); err != nil {
			return s, nil, err
		}
	}
	return s, []Effect{PersistCards{Cards: c.Cards}, Reload{}, Render{}}, nil
}
