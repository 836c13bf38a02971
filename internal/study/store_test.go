package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
)

// memCards is an in-memory CardStore keeping insertion order
type memCards struct {
	order   []string
	cards   map[string]models.Card
	failPut    error
	failGetAll error
	puts       int
}

func newMemCards(cards ...models.Card) *memCards {
	m := &memCards{cards: map[string]models.Card{}}
	for _, c := range cards {
		m.order = append(m.order, c.ID)
		m.cards[c.ID] = c
	}
	return m
}

func (m *memCards) Get(_ context.Context, id string) (*models.Card, error) {
	c, ok := m.cards[id]
	if !ok {
		return nil, fmt.Errorf("card %s: %w", id, apperr.ErrNotFound)
	}
	return &c, nil
}

func (m *memCards) GetAll(context.Context) ([]models.Card, error) {
	if m.failGetAll != nil {
		return nil, m.failGetAll
	}
	out := make([]models.Card, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.cards[id])
	}
	return out, nil
}

func (m *memCards) Put(_ context.Context, c *models.Card) error {
	if m.failPut != nil {
		return m.failPut
	}
	if err := c.Validate(); err != nil {
		return err
	}
	m.puts++
	if _, ok := m.cards[c.ID]; !ok {
		m.order = append(m.order, c.ID)
	}
	m.cards[c.ID] = *c
	return nil
}

func (m *memCards) Delete(_ context.Context, id string) error {
	if _, ok := m.cards[id]; !ok {
		return nil
	}
	delete(m.cards, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// batchCards adds a CardAdder to memCards
type batchCards struct {
	*memCards
	batches int
}

func (b *batchCards) AddCards(ctx context.Context, cards []models.Card) error {
	b.batches++
	for i := range cards {
		if err := b.memCards.Put(ctx, &cards[i]); err != nil {
			return err
		}
	}
	return nil
}

// memPlaylists is an in-memory PlaylistStore with unique names
type memPlaylists struct {
	order     []string
	playlists map[string]models.Playlist
	puts      int
}

func newMemPlaylists(playlists ...models.Playlist) *memPlaylists {
	m := &memPlaylists{playlists: map[string]models.Playlist{}}
	for _, p := range playlists {
		m.order = append(m.order, p.ID)
		m.playlists[p.ID] = p
	}
	return m
}

func (m *memPlaylists) Get(_ context.Context, id string) (*models.Playlist, error) {
	p, ok := m.playlists[id]
	if !ok {
		return nil, fmt.Errorf("playlist %s: %w", id, apperr.ErrNotFound)
	}
	p.Cards = append([]string(nil), p.Cards...)
	return &p, nil
}

func (m *memPlaylists) GetAll(context.Context) ([]models.Playlist, error) {
	out := make([]models.Playlist, 0, len(m.order))
	for _, id := range m.order {
		p := m.playlists[id]
		p.Cards = append([]string(nil), p.Cards...)
		out = append(out, p)
	}
	return out, nil
}

func (m *memPlaylists) Add(_ context.Context, p *models.Playlist) error {
	for _, existing := range m.playlists {
		if existing.Name == p.Name {
			return &apperr.ConstraintError{Field: "name", Value: p.Name}
		}
	}
	if _, ok := m.playlists[p.ID]; ok {
		return &apperr.ConstraintError{Field: "id", Value: p.ID}
	}
	m.order = append(m.order, p.ID)
	m.playlists[p.ID] = *p
	return nil
}

func (m *memPlaylists) Put(_ context.Context, p *models.Playlist) error {
	m.puts++
	if _, ok := m.playlists[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	cp := *p
	cp.Cards = append([]string(nil), p.Cards...)
	m.playlists[p.ID] = cp
	return nil
}

func (m *memPlaylists) Delete(_ context.Context, id string) error {
	delete(m.playlists, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

var errDiskFull = errors.New("disk full")

func dated(id, due string) models.Card {
	return models.Card{ID: id, Word: "word-" + id, Progress: models.Progress{DueDate: due}}
}

func ids(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}
