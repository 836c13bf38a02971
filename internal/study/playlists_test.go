package study

import (
	"context"
	"errors"
	"testing"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlaylist_DuplicateName(t *testing.T) {
	playlists := newMemPlaylists()
	svc := NewPlaylistService(newMemCards(), playlists, nil)
	ctx := context.Background()

	first, err := svc.CreatePlaylist(ctx, "Travel")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = svc.CreatePlaylist(ctx, "  Travel ")
	var ce *apperr.ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Travel", ce.Value)

	all, err := svc.Playlists(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Travel", all[0].Name)
}

func TestCreatePlaylist_EmptyName(t *testing.T) {
	svc := NewPlaylistService(newMemCards(), newMemPlaylists(), nil)
	_, err := svc.CreatePlaylist(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestSetMembership_ReconcilesCheckboxes(t *testing.T) {
	playlists := newMemPlaylists(
		models.Playlist{ID: "p1", Name: "Travel", Cards: []string{"x"}},
		models.Playlist{ID: "p2", Name: "Food", Cards: []string{"a", "x", "a"}},
		models.Playlist{ID: "p3", Name: "Verbs", Cards: []string{"a"}},
	)
	svc := NewPlaylistService(newMemCards(), playlists, nil)
	ctx := context.Background()

	err := svc.SetMembership(ctx, "a", map[string]bool{"p1": true, "p3": true})
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "a"}, playlists.playlists["p1"].Cards)
	assert.Equal(t, []string{"x", "a"}, playlists.playlists["p2"].Cards, "only the first occurrence is removed")
	assert.Equal(t, []string{"a"}, playlists.playlists["p3"].Cards)
	assert.Equal(t, 2, playlists.puts, "unchanged playlists are not written")

	checked, err := svc.Membership(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p1": true, "p2": true, "p3": true}, checked)
}

func TestPlaylistCards_SkipsHoles(t *testing.T) {
	cards := newMemCards(dated("a", ""), dated("b", ""))
	playlists := newMemPlaylists(models.Playlist{ID: "p", Name: "Travel", Cards: []string{"b", "deleted", "a"}})
	svc := NewPlaylistService(cards, playlists, nil)

	got, err := svc.PlaylistCards(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(got))

	_, err = svc.PlaylistCards(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveFromPlaylistAndDelete(t *testing.T) {
	cards := newMemCards(dated("a", ""))
	playlists := newMemPlaylists(models.Playlist{ID: "p", Name: "Travel", Cards: []string{"a", "b", "a"}})
	svc := NewPlaylistService(cards, playlists, nil)
	ctx := context.Background()

	require.NoError(t, svc.RemoveFromPlaylist(ctx, "p", "a"))
	assert.Equal(t, []string{"b", "a"}, playlists.playlists["p"].Cards)

	require.NoError(t, svc.RemoveFromPlaylist(ctx, "p", "zzz"))
	assert.Equal(t, 1, playlists.puts)

	require.NoError(t, svc.DeletePlaylist(ctx, "p"))
	assert.Empty(t, playlists.playlists)
	assert.Contains(t, cards.cards, "a", "deleting a playlist keeps its cards")
}
