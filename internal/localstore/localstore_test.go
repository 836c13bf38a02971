package localstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "local", "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func customCards(t *testing.T, s *Store) []models.Card {
	t.Helper()
	var cards []models.Card
	require.NoError(t, s.db.View(func(tx *bolt.Tx) error {
		var err error
		cards, err = readCustom(tx.Bucket([]byte(BucketName)))
		return err
	}))
	return cards
}

func TestBundled(t *testing.T) {
	cards, err := Bundled()
	require.NoError(t, err)
	require.NotEmpty(t, cards)
	assert.Equal(t, "1", cards[0].ID)
	assert.Equal(t, "abandon", cards[0].Word)
	assert.Equal(t, models.PartsOfSpeech{"n", "v"}, cards[1].POS)
}

func TestItems(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.GetItem("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetAPIKey("sk-test"))
	key, err := s.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)

	require.NoError(t, s.SetAPIKey(""))
	key, err = s.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "", key)
}

func TestLoadCards_MergesLegacyData(t *testing.T) {
	s := openStore(t)

	custom := `[{"id":1712345678901,"word":"apple","pos":"n","definition":"a fruit","image":"data:image/png;base64,iVBORw=="}]`
	require.NoError(t, s.SetItem(KeyCustomCards, custom))
	require.NoError(t, s.SetItem(KeyProgress, `{"1712345678901":{"dueDate":"2024-01-04"},"2":{"dueDate":"2024-01-02"}}`))

	cards, err := s.LoadCards()
	require.NoError(t, err)

	bundled, _ := Bundled()
	require.Len(t, cards, len(bundled)+1)

	last := cards[len(cards)-1]
	assert.Equal(t, "1712345678901", last.ID)
	assert.Equal(t, "2024-01-04", last.Progress.DueDate)
	assert.Equal(t, "image/png", last.ImageType)
	assert.NotEmpty(t, last.Image)
	assert.Equal(t, "2024-01-02", cards[1].Progress.DueDate)
}

func TestCardStore_CustomCardLifecycle(t *testing.T) {
	s := openStore(t)
	store := NewCardStore(s)
	ctx := context.Background()

	card := &models.Card{ID: "c1", Word: "travel", Definition: "go on a trip", Image: []byte{1, 2, 3}, ImageType: "image/jpeg"}
	require.NoError(t, store.Put(ctx, card))

	card.Progress.DueDate = "2024-01-04"
	card.Notes = "trip vs travel"
	require.NoError(t, store.Put(ctx, card))

	got, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-04", got.Progress.DueDate)
	assert.Equal(t, "trip vs travel", got.Notes)
	assert.Equal(t, []byte{1, 2, 3}, got.Image)

	custom := customCards(t, s)
	require.Len(t, custom, 1, "upsert does not duplicate")
	assert.Empty(t, custom[0].Progress.DueDate, "progress lives in the progress map")

	require.NoError(t, store.Delete(ctx, "c1"))
	require.NoError(t, store.Delete(ctx, "c1"))
	_, err = store.Get(ctx, "c1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	progress, err := s.Progress()
	require.NoError(t, err)
	assert.NotContains(t, progress, "c1")
}

func TestCardStore_BundledCards(t *testing.T) {
	s := openStore(t)
	store := NewCardStore(s)
	ctx := context.Background()

	card, err := store.Get(ctx, "3")
	require.NoError(t, err)
	card.Progress.DueDate = "2024-02-01"
	card.Notes = "sounds like candy"
	card.Word = "changed"
	require.NoError(t, store.Put(ctx, card))

	got, err := store.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "candid", got.Word, "bundled content is read-only")
	assert.Equal(t, "2024-02-01", got.Progress.DueDate)
	assert.Equal(t, "sounds like candy", got.Notes)

	assert.Empty(t, customCards(t, s))

	err = store.Delete(ctx, "3")
	assert.True(t, errors.Is(err, ErrReadOnly))
}

func TestCardStore_PutRejectsEmptyWord(t *testing.T) {
	store := NewCardStore(openStore(t))
	err := store.Put(context.Background(), &models.Card{ID: "x"})
	assert.ErrorIs(t, err, models.ErrEmptyWord)
}

func TestAppendCustomCards(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.AppendCustomCards([]models.Card{{ID: "a", Word: "apple"}}))
	require.NoError(t, s.AppendCustomCards([]models.Card{{ID: "b", Word: "banana"}}))

	custom := customCards(t, s)
	require.Len(t, custom, 2)
	assert.Equal(t, "banana", custom[1].Word)
}

func TestAppendCustomCards_RejectsTakenIDs(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.AppendCustomCards([]models.Card{{ID: "a", Word: "apple"}}))

	var ce *apperr.ConstraintError
	err := s.AppendCustomCards([]models.Card{{ID: "b", Word: "banana"}, {ID: "a", Word: "again"}})
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, "a", ce.Value)

	err = s.AppendCustomCards([]models.Card{{ID: "1", Word: "bundled id"}})
	assert.True(t, errors.As(err, &ce))

	custom := customCards(t, s)
	require.Len(t, custom, 1, "a rejected batch writes nothing")
}

func TestCardStore_AddCards(t *testing.T) {
	s := openStore(t)
	store := NewCardStore(s)
	ctx := context.Background()

	cards := []models.Card{
		{ID: "x1", Word: "lamp", Image: []byte{1}, ImageType: "image/jpeg"},
		{ID: "x2", Word: "desk", Image: []byte{1}, ImageType: "image/jpeg"},
	}
	require.NoError(t, store.AddCards(ctx, cards))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	bundled, _ := Bundled()
	require.Len(t, all, len(bundled)+2)
	assert.Equal(t, "desk", all[len(all)-1].Word)
	assert.False(t, all[len(all)-1].CreatedAt.IsZero())

	err = store.AddCards(ctx, []models.Card{{ID: "x3"}})
	assert.ErrorIs(t, err, models.ErrEmptyWord)
}

func TestCorruptItemIsStorageError(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.SetItem(KeyProgress, "{not json"))

	_, err := NewCardStore(s).GetAll(context.Background())
	var se *apperr.StorageError
	assert.True(t, errors.As(err, &se))
}
