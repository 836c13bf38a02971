package models

import "time"

// QuestionCount is the number of questions in a generated quiz
const QuestionCount = 5

// OptionCount is the number of answer options per question
const OptionCount = 4

// Question is a single multiple-choice quiz question
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// QuizResult records the outcome of a finished quiz
type QuizResult struct {
	ID        int64     `json:"id" db:"id"`
	Total     int       `json:"total" db:"total"`
	Correct   int       `json:"correct" db:"correct"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DeckStatistics summarizes the review state of a card collection
type DeckStatistics struct {
	Total    int `json:"total"`
	DueToday int `json:"dueToday"`
	Unseen   int `json:"unseen"`
	Upcoming int `json:"upcoming"`
}

// QuizSummary aggregates the quiz history
type QuizSummary struct {
	Quizzes   int     `json:"quizzes" db:"quizzes"`
	Questions int     `json:"questions" db:"questions"`
	Correct   int     `json:"correct" db:"correct"`
	Best      int     `json:"best" db:"best"`
	Accuracy  float64 `json:"accuracy" db:"-"`
}

// Summarize computes the summary of results
func Summarize(results []QuizResult) QuizSummary {
	var s QuizSummary
	for _, r := range results {
		s.Quizzes++
		s.Questions += r.Total
		s.Correct += r.Correct
		if r.Correct > s.Best {
			s.Best = r.Correct
		}
	}
	s.computeAccuracy()
	return s
}

func (s *QuizSummary) computeAccuracy() {
	if s.Questions > 0 {
		s.Accuracy = float64(s.Correct) / float64(s.Questions)
	}
}

// WithAccuracy fills Accuracy from the counters
func (s QuizSummary) WithAccuracy() QuizSummary {
	s.computeAccuracy()
	return s
}
