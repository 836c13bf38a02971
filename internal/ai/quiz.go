package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/pkg/models"
	"github.com/sashabaranov/go-openai"
)

const quizSystemPrompt = `You are a quiz generator. Generate a JSON response with exactly this structure: ` +
	`{"questions": [{"question": "question text", "options": ["option1", "option2", "option3", "option4"], "correctAnswer": 0}]}. ` +
	`Create 5 questions based on the flashcard content.`

// quizCard is what the model sees of a card
type quizCard struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// QuizGenerator builds multiple-choice quizzes from a random sample of cards
type QuizGenerator struct {
	client  *Client
	policy  RetryPolicy
	shuffle func(n int, swap func(i, j int))
	logger  *slog.Logger
}

// NewQuizGenerator creates a generator using the client's retry policy
func NewQuizGenerator(client *Client) *QuizGenerator {
	return &QuizGenerator{
		client:  client,
		policy:  client.config.Retry,
		shuffle: rand.Shuffle,
		logger:  client.logger,
	}
}

// GenerateQuiz samples up to five cards, asks the model for a quiz about
// them and validates the answer. minCount <= 0 means models.QuestionCount.
// Every endpoint is tried within an attempt; after the last attempt the
// error is a *apperr.QuizGenerationError holding the last cause.
func (g *QuizGenerator) GenerateQuiz(ctx context.Context, cards []models.Card, minCount int) ([]models.Question, error) {
	if minCount <= 0 {
		minCount = models.QuestionCount
	}
	if len(cards) < minCount {
		return nil, &apperr.InsufficientDataError{Have: len(cards), Need: minCount}
	}

	sample := SampleCards(cards, models.QuestionCount, g.shuffle)
	req, err := g.request(sample)
	if err != nil {
		return nil, err
	}

	var questions []models.Question
	attempts, err := g.policy.Do(ctx, g.logger, func(ctx context.Context) error {
		var lastErr error
		for _, ep := range g.client.endpoints {
			content, err := g.client.completeAt(ctx, ep, req)
			if err == nil {
				questions, err = ParseQuiz(content)
				if err == nil {
					return nil
				}
			}
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			g.logger.Warn("Quiz endpoint failed", "endpoint", ep.url, "error", err)
		}
		return lastErr
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &apperr.QuizGenerationError{Attempts: attempts, Err: err}
	}

	g.logger.Info("Quiz generated", "questions", len(questions), "attempts", attempts)
	return questions, nil
}

func (g *QuizGenerator) request(sample []models.Card) (openai.ChatCompletionRequest, error) {
	content := make([]quizCard, len(sample))
	for i, c := range sample {
		content[i] = quizCard{Word: c.Word, Definition: c.Definition, Example: c.ExampleSentence}
	}
	payload, err := json.Marshal(content)
	if err != nil {
		return openai.ChatCompletionRequest{}, fmt.Errorf("failed to encode flashcards: %w", err)
	}

	return openai.ChatCompletionRequest{
		Model: g.client.config.QuizModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: quizSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Create a quiz in JSON format based on these flashcards: " + string(payload)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}, nil
}

// SampleCards returns the first n cards of a shuffled copy, or all of them
// when there are fewer than n. The input slice is not modified.
func SampleCards(cards []models.Card, n int, shuffle func(n int, swap func(i, j int))) []models.Card {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	shuffled := make([]models.Card, len(cards))
	copy(shuffled, cards)
	shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

type rawQuiz struct {
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Question      string            `json:"question"`
	Options       []json.RawMessage `json:"options"`
	CorrectAnswer json.RawMessage   `json:"correctAnswer"`
}

// ParseQuiz decodes and validates a quiz reply: exactly five questions,
// each with text, four string options and an integer answer in [0,4)
func ParseQuiz(content string) ([]models.Question, error) {
	var raw rawQuiz
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, &apperr.MalformedResponseError{Reason: "quiz is not valid JSON", Err: err}
	}
	if len(raw.Questions) != models.QuestionCount {
		return nil, &apperr.MalformedResponseError{
			Reason: fmt.Sprintf("expected %d questions, got %d", models.QuestionCount, len(raw.Questions)),
		}
	}

	questions := make([]models.Question, 0, len(raw.Questions))
	for i, rq := range raw.Questions {
		q, err := rq.validate()
		if err != nil {
			return nil, &apperr.MalformedResponseError{Reason: fmt.Sprintf("question %d: %s", i+1, err)}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (rq rawQuestion) validate() (models.Question, error) {
	q := models.Question{Question: strings.TrimSpace(rq.Question)}
	if q.Question == "" {
		return q, fmt.Errorf("missing question text")
	}
	if len(rq.Options) != models.OptionCount {
		return q, fmt.Errorf("expected %d options, got %d", models.OptionCount, len(rq.Options))
	}
	for j, opt := range rq.Options {
		var s string
		if isNull(opt) || json.Unmarshal(opt, &s) != nil {
			return q, fmt.Errorf("option %d is not a string", j+1)
		}
		q.Options = append(q.Options, s)
	}
	if len(rq.CorrectAnswer) == 0 || isNull(rq.CorrectAnswer) {
		return q, fmt.Errorf("missing correctAnswer")
	}
	if err := json.Unmarshal(rq.CorrectAnswer, &q.CorrectAnswer); err != nil {
		return q, fmt.Errorf("correctAnswer is not an integer")
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= models.OptionCount {
		return q, fmt.Errorf("correctAnswer %d out of range", q.CorrectAnswer)
	}
	return q, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
