package database

import (
	"context"
	"time"

	"github.com/example/flashcards/pkg/models"
	"github.com/jmoiron/sqlx"
)

// QuizResultRepository handles database operations for quiz results
type QuizResultRepository struct {
	db *sqlx.DB
}

// NewQuizResultRepository creates a new repository instance
func NewQuizResultRepository(db *sqlx.DB) *QuizResultRepository {
	return &QuizResultRepository{db: db}
}

// Create inserts a new quiz result
func (r *QuizResultRepository) Create(ctx context.Context, result *models.QuizResult) error {
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	// PostgreSQL returns the generated id, SQLite reports it through the result
	if r.db.DriverName() == DriverPostgres {
		err := r.db.QueryRowContext(ctx,
			"INSERT INTO quiz_results (total, correct, created_at) VALUES ($1, $2, $3) RETURNING id",
			result.Total, result.Correct, result.CreatedAt,
		).Scan(&result.ID)
		if err != nil {
			return storageError("create quiz result", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO quiz_results (total, correct, created_at) VALUES (?, ?, ?)",
		result.Total, result.Correct, result.CreatedAt,
	)
	if err != nil {
		return storageError("create quiz result", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageError("get last insert ID", err)
	}
	result.ID = id
	return nil
}

// GetAll returns all quiz results, newest first
func (r *QuizResultRepository) GetAll(ctx context.Context) ([]models.QuizResult, error) {
	var results []models.QuizResult
	err := r.db.SelectContext(ctx, &results, "SELECT id, total, correct, created_at FROM quiz_results ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, storageError("get quiz results", err)
	}
	return results, nil
}
