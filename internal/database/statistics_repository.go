package database

import (
	"context"

	"github.com/example/flashcards/pkg/models"
	"github.com/jmoiron/sqlx"
)

// StatisticsRepository computes aggregates over quiz results in SQL
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// QuizSummary aggregates every stored quiz result
func (r *StatisticsRepository) QuizSummary(ctx context.Context) (models.QuizSummary, error) {
	var summary models.QuizSummary
	err := r.db.GetContext(ctx, &summary, `
		SELECT
			COUNT(*) AS quizzes,
			COALESCE(SUM(total), 0) AS questions,
			COALESCE(SUM(correct), 0) AS correct,
			COALESCE(MAX(correct), 0) AS best
		FROM quiz_results
	`)
	if err != nil {
		return models.QuizSummary{}, storageError("get quiz summary", err)
	}
	return summary.WithAccuracy(), nil
}
