// Package quiz runs multiple-choice quizzes generated from the card deck
// and keeps a history of scores.
package quiz

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/internal/study"
	"github.com/example/flashcards/pkg/models"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidAnswer is returned for a question or option index that does not exist
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrFinished is returned when a finished quiz is answered or finished again
	ErrFinished = errors.New("quiz already finished")
	// ErrNoGenerator is returned by Start when no generator is configured
	ErrNoGenerator = errors.New("quiz generation is not configured")
)

// Generator produces quiz questions from cards
type Generator interface {
	GenerateQuiz(ctx context.Context, cards []models.Card, minCount int) ([]models.Question, error)
}

// ResultStore keeps finished quiz scores
type ResultStore interface {
	Create(ctx context.Context, result *models.QuizResult) error
	GetAll(ctx context.Context) ([]models.QuizResult, error)
}

// Summarizer aggregates quiz results where they are stored
type Summarizer interface {
	QuizSummary(ctx context.Context) (models.QuizSummary, error)
}

// Module handles quiz functionality
type Module struct {
	cards     study.CardStore
	generator Generator
	results   ResultStore
	logger    *slog.Logger
	now       func() time.Time

	// MinCards is the smallest deck a quiz can be started from
	MinCards int
	// Summarizer is optional; without it Summary reads the whole history
	Summarizer Summarizer
}

// NewModule creates a new quiz module
func NewModule(cards study.CardStore, generator Generator, results ResultStore, logger *slog.Logger) *Module {
	if logger == nil {
		logger = slog.Default()
	}
	return &Module{
		cards:     cards,
		generator: generator,
		results:   results,
		logger:    logger,
		now:       time.Now,
		MinCards:  models.QuestionCount,
	}
}

// Start loads the deck and generates a quiz. Decks smaller than MinCards
// are refused before the generator is called.
func (m *Module) Start(ctx context.Context) (*Quiz, error) {
	if m.generator == nil {
		return nil, ErrNoGenerator
	}
	cards, err := m.cards.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load cards")
	}
	if len(cards) < m.MinCards {
		return nil, &apperr.InsufficientDataError{Have: len(cards), Need: m.MinCards}
	}

	questions, err := m.generator.GenerateQuiz(ctx, cards, m.MinCards)
	if err != nil {
		return nil, errors.Wrap(err, "generate quiz")
	}

	m.logger.Info("Quiz started", "questions", len(questions), "deck_size", len(cards))
	return &Quiz{
		Questions: questions,
		StartedAt: m.now(),
		answers:   make(map[int]int, len(questions)),
		module:    m,
	}, nil
}

// History lists finished quizzes, newest first
func (m *Module) History(ctx context.Context) ([]models.QuizResult, error) {
	if m.results == nil {
		return nil, nil
	}
	results, err := m.results.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load quiz history")
	}
	return results, nil
}

// Summary aggregates the quiz history
func (m *Module) Summary(ctx context.Context) (models.QuizSummary, error) {
	if m.Summarizer != nil {
		summary, err := m.Summarizer.QuizSummary(ctx)
		return summary, errors.Wrap(err, "summarize quiz history")
	}
	results, err := m.History(ctx)
	if err != nil {
		return models.QuizSummary{}, err
	}
	return models.Summarize(results), nil
}

// Quiz is one quiz in progress
type Quiz struct {
	Questions []models.Question
	StartedAt time.Time

	answers  map[int]int
	finished bool
	module   *Module
}

// Answer records the chosen option for a question. Answering again replaces the choice.
func (q *Quiz) Answer(question, option int) error {
	if q.finished {
		return ErrFinished
	}
	if question < 0 || question >= len(q.Questions) {
		return errors.Wrapf(ErrInvalidAnswer, "question %d", question)
	}
	if option < 0 || option >= len(q.Questions[question].Options) {
		return errors.Wrapf(ErrInvalidAnswer, "option %d of question %d", option, question)
	}
	q.answers[question] = option
	return nil
}

// Answers returns a copy of the recorded answers keyed by question index
func (q *Quiz) Answers() map[int]int {
	out := make(map[int]int, len(q.answers))
	for k, v := range q.answers {
		out[k] = v
	}
	return out
}

// Finished reports whether the quiz was scored
func (q *Quiz) Finished() bool {
	return q.finished
}

// Finish scores the quiz and saves the result. Every question must be answered.
func (q *Quiz) Finish(ctx context.Context) (*models.QuizResult, error) {
	if q.finished {
		return nil, ErrFinished
	}
	correct, err := Score(q.Questions, q.answers)
	if err != nil {
		return nil, err
	}

	result := &models.QuizResult{
		Total:     len(q.Questions),
		Correct:   correct,
		CreatedAt: q.module.now().UTC(),
	}
	if q.module.results != nil {
		if err := q.module.results.Create(ctx, result); err != nil {
			return nil, errors.Wrap(err, "save quiz result")
		}
	}
	q.finished = true

	q.module.logger.Info("Quiz finished",
		"correct", result.Correct,
		"total", result.Total,
		"duration", q.module.now().Sub(q.StartedAt))
	return result, nil
}

// Score counts exact matches between answers and the correct options.
// It fails with *apperr.IncompleteAnswersError unless every question is answered.
func Score(questions []models.Question, answers map[int]int) (int, error) {
	answered := 0
	for i := range questions {
		if _, ok := answers[i]; ok {
			answered++
		}
	}
	if answered < len(questions) {
		return 0, &apperr.IncompleteAnswersError{Answered: answered, Total: len(questions)}
	}

	correct := 0
	for i, q := range questions {
		if answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	return correct, nil
}
