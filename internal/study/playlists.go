package study

import (
	"context"
	"log/slog"
	"strings"

	"github.com/example/flashcards/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrEmptyName is returned when a playlist is created without a name
var ErrEmptyName = errors.New("playlist name cannot be empty")

// PlaylistService manages playlists and card membership
type PlaylistService struct {
	cards     CardStore
	playlists PlaylistStore
	logger    *slog.Logger
	newID     func() string
}

// NewPlaylistService creates a playlist service over the stores
func NewPlaylistService(cards CardStore, playlists PlaylistStore, logger *slog.Logger) *PlaylistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaylistService{
		cards:     cards,
		playlists: playlists,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// CreatePlaylist adds an empty playlist. A taken name fails with *apperr.ConstraintError.
func (s *PlaylistService) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	p := &models.Playlist{ID: s.newID(), Name: name, Cards: []string{}}
	if err := s.playlists.Add(ctx, p); err != nil {
		return nil, storeError("add playlist", err)
	}
	s.logger.Info("Playlist created", "playlist", p.ID, "name", p.Name)
	return p, nil
}

// DeletePlaylist removes a playlist. The cards it referenced are kept.
func (s *PlaylistService) DeletePlaylist(ctx context.Context, id string) error {
	if err := s.playlists.Delete(ctx, id); err != nil {
		return storeError("delete playlist", err)
	}
	s.logger.Info("Playlist deleted", "playlist", id)
	return nil
}

// Playlists lists every playlist
func (s *PlaylistService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	playlists, err := s.playlists.GetAll(ctx)
	if err != nil {
		return nil, storeError("get playlists", err)
	}
	return playlists, nil
}

// Playlist returns a playlist by id
func (s *PlaylistService) Playlist(ctx context.Context, id string) (*models.Playlist, error) {
	p, err := s.playlists.Get(ctx, id)
	if err != nil {
		return nil, storeError("get playlist", err)
	}
	return p, nil
}

// PlaylistCards resolves the playlist's cards in playlist order, skipping missing ones
func (s *PlaylistService) PlaylistCards(ctx context.Context, id string) ([]models.Card, error) {
	p, err := s.Playlist(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.cards.GetAll(ctx)
	if err != nil {
		return nil, storeError("get cards", err)
	}
	return SelectActiveSet(all, p), nil
}

// Membership reports, for every playlist, whether it contains the card
func (s *PlaylistService) Membership(ctx context.Context, cardID string) (map[string]bool, error) {
	playlists, err := s.Playlists(ctx)
	if err != nil {
		return nil, err
	}
	checked := make(map[string]bool, len(playlists))
	for _, p := range playlists {
		checked[p.ID] = p.Contains(cardID)
	}
	return checked, nil
}

// SetMembership reconciles the card against every playlist: checked playlists
// that lack the card get it appended, unchecked ones that hold it lose the
// first occurrence. Only playlists that change are written.
func (s *PlaylistService) SetMembership(ctx context.Context, cardID string, checked map[string]bool) error {
	playlists, err := s.Playlists(ctx)
	if err != nil {
		return err
	}

	for i := range playlists {
		p := &playlists[i]
		changed := false
		switch {
		case checked[p.ID] && !p.Contains(cardID):
			p.Add(cardID)
			changed = true
		case !checked[p.ID] && p.Contains(cardID):
			changed = p.Remove(cardID)
		}
		if !changed {
			continue
		}
		if err := s.playlists.Put(ctx, p); err != nil {
			return storeError("put playlist", err)
		}
		s.logger.Debug("Playlist membership updated", "playlist", p.ID, "card", cardID, "member", checked[p.ID])
	}
	return nil
}

// RemoveFromPlaylist drops the first occurrence of the card from the playlist
func (s *PlaylistService) RemoveFromPlaylist(ctx context.Context, playlistID, cardID string) error {
	p, err := s.Playlist(ctx, playlistID)
	if err != nil {
		return err
	}
	if !p.Remove(cardID) {
		return nil
	}
	if err := s.playlists.Put(ctx, p); err != nil {
		return storeError("put playlist", err)
	}
	return nil
}
