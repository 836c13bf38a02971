package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestConnect_CreatesDataDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "flashcards.db")
	db, err := Connect(DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	assert.DirExists(t, filepath.Dir(path))
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect("mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestSqliteDir(t *testing.T) {
	assert.Equal(t, "", sqliteDir(":memory:"))
	assert.Equal(t, "", sqliteDir("file::memory:?cache=shared"))
	assert.Equal(t, "", sqliteDir("flashcards.db"))
	assert.Equal(t, "data", sqliteDir("data/flashcards.db"))
	assert.Equal(t, "data", sqliteDir("file:data/flashcards.db?_busy_timeout=5000"))
}

func TestCardRepository_PutAndGet(t *testing.T) {
	repo := NewCardRepository(setupDB(t))
	ctx := context.Background()

	card := &models.Card{
		ID:              "c1",
		Word:            "apple",
		POS:             models.PartsOfSpeech{"n"},
		Definition:      "a round fruit",
		ExampleSentence: "She ate an apple.",
		Image:           []byte{0x89, 'P', 'N', 'G'},
		ImageType:       "image/png",
	}
	require.NoError(t, repo.Put(ctx, card))
	assert.False(t, card.CreatedAt.IsZero(), "creation time is set on first put")

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "apple", got.Word)
	assert.Equal(t, models.PartsOfSpeech{"n"}, got.POS)
	assert.Equal(t, card.Image, got.Image)
	assert.Equal(t, "", got.Progress.DueDate)
	assert.Equal(t, "", got.Notes)
}

func TestCardRepository_PutUpsertsAndKeepsCreatedAt(t *testing.T) {
	repo := NewCardRepository(setupDB(t))
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Put(ctx, &models.Card{ID: "c1", Word: "apple", CreatedAt: created}))

	update := &models.Card{ID: "c1", Word: "apple", Notes: "remember me", CreatedAt: time.Now().UTC()}
	update.Progress.DueDate = "2024-01-04"
	require.NoError(t, repo.Put(ctx, update))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-04", got.Progress.DueDate)
	assert.Equal(t, "remember me", got.Notes)
	assert.True(t, created.Equal(got.CreatedAt), "created_at must survive upserts, got %v", got.CreatedAt)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCardRepository_PutRejectsEmptyWord(t *testing.T) {
	repo := NewCardRepository(setupDB(t))
	err := repo.Put(context.Background(), &models.Card{ID: "c1", Word: "  "})
	assert.ErrorIs(t, err, models.ErrEmptyWord)
}

func TestCardRepository_GetMissing(t *testing.T) {
	repo := NewCardRepository(setupDB(t))
	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCardRepository_DeleteAndGetAllOrder(t *testing.T) {
	repo := NewCardRepository(setupDB(t))
	ctx := context.Background()

	for _, id := range []string{"b", "c", "a"} {
		require.NoError(t, repo.Put(ctx, &models.Card{ID: id, Word: "word-" + id}))
	}
	require.NoError(t, repo.Delete(ctx, "c"))
	require.NoError(t, repo.Delete(ctx, "missing"))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestCardRepository_SearchCards(t *testing.T) {
	repo := NewCardRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &models.Card{ID: "1", Word: "Travel", Definition: "go on a trip"}))
	require.NoError(t, repo.Put(ctx, &models.Card{ID: "2", Word: "apple", Definition: "fruit"}))

	found, err := repo.SearchCards(ctx, "travel")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].ID)
}

func TestPlaylistRepository_AddDuplicateNameFails(t *testing.T) {
	repo := NewPlaylistRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &models.Playlist{ID: "p1", Name: "Travel"}))
	err := repo.Add(ctx, &models.Playlist{ID: "p2", Name: "Travel"})

	var ce *apperr.ConstraintError
	require.True(t, errors.As(err, &ce), "expected ConstraintError, got %v", err)
	assert.Equal(t, "name", ce.Field)
	assert.Equal(t, "Travel", ce.Value)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	count := 0
	for _, p := range all {
		if p.Name == "Travel" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestPlaylistRepository_PutKeepsOrderAndDuplicates(t *testing.T) {
	repo := NewPlaylistRepository(setupDB(t))
	ctx := context.Background()

	p := &models.Playlist{ID: "p1", Name: "Verbs"}
	require.NoError(t, repo.Add(ctx, p))

	p.Cards = []string{"c3", "c1", "c3", "gone"}
	require.NoError(t, repo.Put(ctx, p))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c1", "c3", "gone"}, got.Cards)
}

func TestPlaylistRepository_PutRenameConflict(t *testing.T) {
	repo := NewPlaylistRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &models.Playlist{ID: "p1", Name: "Travel"}))
	require.NoError(t, repo.Add(ctx, &models.Playlist{ID: "p2", Name: "Food"}))

	err := repo.Put(ctx, &models.Playlist{ID: "p2", Name: "Travel"})
	var ce *apperr.ConstraintError
	assert.True(t, errors.As(err, &ce))
}

func TestPlaylistRepository_DeleteAndMissing(t *testing.T) {
	repo := NewPlaylistRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &models.Playlist{ID: "p1", Name: "Travel"}))
	require.NoError(t, repo.Delete(ctx, "p1"))

	_, err := repo.Get(ctx, "p1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQuizResultRepository_CreateAndList(t *testing.T) {
	repo := NewQuizResultRepository(setupDB(t))
	ctx := context.Background()

	first := &models.QuizResult{Total: 5, Correct: 3, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	second := &models.QuizResult{Total: 5, Correct: 5, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	results, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 5, results[0].Correct, "newest first")
}

func TestStatisticsRepository_QuizSummary(t *testing.T) {
	db := setupDB(t)
	results := NewQuizResultRepository(db)
	stats := NewStatisticsRepository(db)
	ctx := context.Background()

	empty, err := stats.QuizSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.QuizSummary{}, empty)

	require.NoError(t, results.Create(ctx, &models.QuizResult{Total: 5, Correct: 3, CreatedAt: time.Now().UTC()}))
	require.NoError(t, results.Create(ctx, &models.QuizResult{Total: 5, Correct: 4, CreatedAt: time.Now().UTC()}))

	summary, err := stats.QuizSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Quizzes)
	assert.Equal(t, 10, summary.Questions)
	assert.Equal(t, 7, summary.Correct)
	assert.Equal(t, 4, summary.Best)
	assert.InDelta(t, 0.7, summary.Accuracy, 1e-9)
}
