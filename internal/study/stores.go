// Package study holds the flip-card study core: active-set selection,
// the navigation cursor, the session command loop and playlist membership.
// It talks to persistence only through the CardStore and PlaylistStore interfaces.
package study

import (
	"context"
	"errors"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
)

// CardStore is a persistent collection of cards keyed by id
type CardStore interface {
	Get(ctx context.Context, id string) (*models.Card, error)
	GetAll(ctx context.Context) ([]models.Card, error)
	Put(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id string) error
}

// CardAdder is implemented by card stores that can append new cards in a
// single write
type CardAdder interface {
	AddCards(ctx context.Context, cards []models.Card) error
}

// PlaylistStore is a persistent collection of playlists with unique names
type PlaylistStore interface {
	Get(ctx context.Context, id string) (*models.Playlist, error)
	GetAll(ctx context.Context) ([]models.Playlist, error)
	Add(ctx context.Context, playlist *models.Playlist) error
	Put(ctx context.Context, playlist *models.Playlist) error
	Delete(ctx context.Context, id string) error
}

// storeError makes sure a store failure reaches the caller as a StorageError.
// Not-found, constraint and validation errors are passed through as they are.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *apperr.StorageError
	var ce *apperr.ConstraintError
	switch {
	case errors.As(err, &se), errors.As(err, &ce),
		errors.Is(err, apperr.ErrNotFound), errors.Is(err, models.ErrEmptyWord):
		return err
	}
	return &apperr.StorageError{Op: op, Err: err}
}
