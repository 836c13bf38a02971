package study

import (
	"context"
	"log/slog"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	"github.com/pkg/errors"
)

// Session owns the study state and carries out command effects against
// the stores. It is not safe for concurrent use; adapters serialize calls.
type Session struct {
	cards     CardStore
	playlists PlaylistStore
	state     State
	logger    *slog.Logger
	render    func(State)
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithRenderer registers a callback run after a command requests a redraw
func WithRenderer(render func(State)) Option {
	return func(s *Session) { s.render = render }
}

// NewSession creates an empty session. Call Load before dispatching commands.
func NewSession(cards CardStore, playlists PlaylistStore, opts ...Option) *Session {
	s := &Session{
		cards:     cards,
		playlists: playlists,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the committed state
func (s *Session) State() State {
	return s.state
}

// Load reads all cards and refreshes the filter playlist from the stores
func (s *Session) Load(ctx context.Context) error {
	next, err := s.reload(ctx, s.state)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Dispatch applies the command and runs its effects in order. The new state
// is committed only when every effect succeeded; otherwise the session keeps
// its previous state and the first failure is returned. Store writes made by
// earlier effects are not rolled back, so a failed reload after a write
// leaves the stored data ahead of the session until the next Load.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (State, error) {
	next, effects, err := cmd.Apply(s.state)
	if err != nil {
		return s.state, err
	}

	rendered := false
	for _, effect := range effects {
		switch e := effect.(type) {
		case PersistCard:
			card := e.Card
			if err := s.cards.Put(ctx, &card); err != nil {
				s.logger.Error("Failed to save card", "card", card.ID, "error", err)
				return s.state, storeError("put card", err)
			}
			next = next.withCard(card)
		case PersistCards:
			if err := s.addCards(ctx, e.Cards); err != nil {
				s.logger.Error("Failed to save cards", "count", len(e.Cards), "error", err)
				return s.state, storeError("add cards", err)
			}
		case RemoveCard:
			if err := s.cards.Delete(ctx, e.ID); err != nil {
				s.logger.Error("Failed to delete card", "card", e.ID, "error", err)
				return s.state, storeError("delete card", err)
			}
		case Reload:
			next, err = s.reload(ctx, next)
			if err != nil {
				if wrote(effects) {
					s.logger.Warn("Cards saved but the session could not reload", "error", err)
				}
				return s.state, err
			}
		case Render:
			rendered = true
		}
	}

	s.state = next
	s.logger.Debug("Command applied", "command", commandName(cmd), "position", next.Nav.String())
	if rendered && s.render != nil {
		s.render(next)
	}
	return next, nil
}

// addCards appends cards in one write when the store supports it
func (s *Session) addCards(ctx context.Context, cards []models.Card) error {
	if adder, ok := s.cards.(CardAdder); ok {
		return adder.AddCards(ctx, cards)
	}
	for i := range cards {
		card := cards[i]
		if err := s.cards.Put(ctx, &card); err != nil {
			return err
		}
	}
	return nil
}

// wrote reports whether effects include a store write
func wrote(effects []Effect) bool {
	for _, effect := range effects {
		switch effect.(type) {
		case PersistCard, PersistCards, RemoveCard:
			return true
		}
	}
	return false
}

// reload rebuilds base from the stores, keeping the cursor when it is still in range
func (s *Session) reload(ctx context.Context, base State) (State, error) {
	cards, err := s.cards.GetAll(ctx)
	if err != nil {
		return base, storeError("load cards", err)
	}

	filter := base.Filter
	filterChanged := false
	if filter != nil && s.playlists != nil {
		p, err := s.playlists.Get(ctx, filter.ID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			s.logger.Info("Filter playlist no longer exists", "playlist", filter.ID)
			filter, filterChanged = nil, true
		case err != nil:
			return base, storeError("load playlist", err)
		default:
			filter = p
		}
	}

	next := State{Cards: cards, Filter: filter}
	next.Active = SelectActiveSet(cards, filter)
	if filterChanged {
		next.Nav = base.Nav.OnFilterChange(len(next.Active))
	} else {
		next.Nav = base.Nav.Resize(len(next.Active))
	}
	return next, nil
}

func commandName(cmd Command) string {
	switch cmd.(type) {
	case Next:
		return "next"
	case Previous:
		return "previous"
	case JumpTo:
		return "jump"
	case Review:
		return "review"
	case SaveNotes:
		return "save-notes"
	case ClearNotes:
		return "clear-notes"
	case Delete:
		return "delete"
	case SetFilter:
		return "set-filter"
	case ClearFilter:
		return "clear-filter"
	case AddCard:
		return "add-card"
	case AddCards:
		return "add-cards"
	default:
		return "unknown"
	}
}
