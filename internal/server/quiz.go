package server

import (
	"net/http"

	"github.com/example/flashcards/pkg/models"
	"github.com/pkg/errors"
)

var errNoQuiz = errors.New("no quiz in progress")

// questionView hides the correct answer until the quiz is finished
type questionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type quizView struct {
	Questions []questionView `json:"questions"`
	Answers   map[int]int    `json:"answers"`
}

type quizResultView struct {
	Result    *models.QuizResult `json:"result"`
	Questions []models.Question  `json:"questions"`
	Answers   map[int]int        `json:"answers"`
}

func (s *Server) HandleStartQuiz(w http.ResponseWriter, r *http.Request) {
	if s.deps.Quizzes == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	q, err := s.deps.Quizzes.Start(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.quizMu.Lock()
	s.quiz = q
	s.quizMu.Unlock()

	view := quizView{Questions: make([]questionView, len(q.Questions)), Answers: q.Answers()}
	for i, question := range q.Questions {
		view.Questions[i] = questionView{Question: question.Question, Options: question.Options}
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Question int `json:"question"`
		Option   int `json:"option"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.quizMu.Lock()
	defer s.quizMu.Unlock()
	if s.quiz == nil {
		s.writeError(w, r, errNoQuiz)
		return
	}
	if err := s.quiz.Answer(body.Question, body.Option); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.quiz.Answers())
}

func (s *Server) HandleFinishQuiz(w http.ResponseWriter, r *http.Request) {
	s.quizMu.Lock()
	defer s.quizMu.Unlock()
	q := s.quiz
	if q == nil {
		s.writeError(w, r, errNoQuiz)
		return
	}
	result, err := q.Finish(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.quiz = nil
	writeJSON(w, http.StatusOK, quizResultView{Result: result, Questions: q.Questions, Answers: q.Answers()})
}

func (s *Server) HandleQuizHistory(w http.ResponseWriter, r *http.Request) {
	if s.deps.Quizzes == nil {
		writeJSON(w, http.StatusOK, []models.QuizResult{})
		return
	}
	results, err := s.deps.Quizzes.History(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if results == nil {
		results = []models.QuizResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleQuizSummary returns aggregate scores over the quiz history
func (s *Server) HandleQuizSummary(w http.ResponseWriter, r *http.Request) {
	if s.deps.Quizzes == nil {
		writeJSON(w, http.StatusOK, models.QuizSummary{})
		return
	}
	summary, err := s.deps.Quizzes.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
