// Package server exposes the study session, playlists, quizzes and the AI
// helpers as a JSON API.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/example/flashcards/internal/ai"
	"github.com/example/flashcards/internal/apperr"
	"github.com/example/flashcards/internal/excel"
	"github.com/example/flashcards/internal/localstore"
	"github.com/example/flashcards/internal/quiz"
	"github.com/example/flashcards/internal/spaced_repetition"
	"github.com/example/flashcards/internal/study"
	"github.com/example/flashcards/pkg/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Analyzer recognizes words in an image
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) ([]models.WordCandidate, error)
}

// Assistant answers questions about words
type Assistant interface {
	Ask(ctx context.Context, message string) (ai.Reply, error)
}

// Importer loads cards from a spreadsheet
type Importer interface {
	Import(ctx context.Context, config excel.ImportConfig) (*excel.ImportResult, error)
}

// Deps are the services behind the API. Analyzer, Assistant and Importer may be nil.
type Deps struct {
	Session   *study.Session
	Playlists *study.PlaylistService
	Quizzes   *quiz.Module
	Analyzer  Analyzer
	Assistant Assistant
	Importer  Importer
}

// Server handles API requests. Handlers that touch the session or the
// playlists run under mu because the session is single threaded. Calls to
// the language model run outside it.
type Server struct {
	mu     sync.Mutex
	deps   Deps
	quizMu sync.Mutex
	quiz   *quiz.Quiz
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a server over deps
func New(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		deps:   deps,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Router returns the API routes
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/state", s.locked(s.HandleState)).Methods("GET")
	api.HandleFunc("/next", s.locked(s.HandleNext)).Methods("POST")
	api.HandleFunc("/previous", s.locked(s.HandlePrevious)).Methods("POST")
	api.HandleFunc("/jump", s.locked(s.HandleJump)).Methods("POST")
	api.HandleFunc("/review", s.locked(s.HandleReview)).Methods("POST")
	api.HandleFunc("/notes", s.locked(s.HandleSaveNotes)).Methods("PUT")
	api.HandleFunc("/notes", s.locked(s.HandleClearNotes)).Methods("DELETE")
	api.HandleFunc("/active/{index:[0-9]+}", s.locked(s.HandleDeleteActive)).Methods("DELETE")
	api.HandleFunc("/filter", s.locked(s.HandleSetFilter)).Methods("PUT")
	api.HandleFunc("/filter", s.locked(s.HandleClearFilter)).Methods("DELETE")
	api.HandleFunc("/cards", s.locked(s.HandleAddCard)).Methods("POST")
	api.HandleFunc("/cards/{id}/playlists", s.locked(s.HandleMembership)).Methods("GET")
	api.HandleFunc("/cards/{id}/playlists", s.locked(s.HandleSetMembership)).Methods("PUT")

	api.HandleFunc("/playlists", s.locked(s.HandleListPlaylists)).Methods("GET")
	api.HandleFunc("/playlists", s.locked(s.HandleCreatePlaylist)).Methods("POST")
	api.HandleFunc("/playlists/{id}", s.locked(s.HandleDeletePlaylist)).Methods("DELETE")
	api.HandleFunc("/playlists/{id}/cards", s.locked(s.HandlePlaylistCards)).Methods("GET")
	api.HandleFunc("/playlists/{id}/cards/{card}", s.locked(s.HandleRemoveFromPlaylist)).Methods("DELETE")

	// The quiz and AI handlers take their own locks around shared state only
	api.HandleFunc("/quiz", s.HandleStartQuiz).Methods("POST")
	api.HandleFunc("/quiz/answers", s.HandleAnswer).Methods("POST")
	api.HandleFunc("/quiz/finish", s.HandleFinishQuiz).Methods("POST")
	api.HandleFunc("/quiz/history", s.HandleQuizHistory).Methods("GET")
	api.HandleFunc("/quiz/summary", s.HandleQuizSummary).Methods("GET")

	api.HandleFunc("/analyze", s.HandleAnalyze).Methods("POST")
	api.HandleFunc("/analyze/cards", s.locked(s.HandleAddCandidates)).Methods("POST")
	api.HandleFunc("/ask", s.HandleAsk).Methods("POST")
	api.HandleFunc("/import", s.HandleImport).Methods("POST")
	return router
}

// Run serves the API on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("HTTP server stopped")
		return nil
	}
}

// locked runs h while holding the session lock
func (s *Server) locked(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, r)
	}
}

// errBadRequest marks request bodies that could not be read
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// statusFor maps error kinds to HTTP status codes
func statusFor(err error) int {
	var (
		constraint   *apperr.ConstraintError
		insufficient *apperr.InsufficientDataError
		incomplete   *apperr.IncompleteAnswersError
		generation   *apperr.QuizGenerationError
		network      *apperr.NetworkError
		timeout      *apperr.TimeoutError
		malformed    *apperr.MalformedResponseError
	)
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &constraint):
		return http.StatusConflict
	case errors.As(err, &insufficient),
		errors.As(err, &incomplete),
		errors.Is(err, study.ErrNoCard),
		errors.Is(err, study.ErrIndexOutOfRange),
		errors.Is(err, study.ErrEmptyName),
		errors.Is(err, models.ErrEmptyWord),
		errors.Is(err, spaced_repetition.ErrUnknownOutcome),
		errors.Is(err, quiz.ErrInvalidAnswer),
		errors.Is(err, quiz.ErrFinished),
		errors.Is(err, quiz.ErrNoGenerator),
		errors.Is(err, errNoQuiz),
		errors.Is(err, errUnavailable),
		errors.Is(err, ai.ErrEmptyMessage),
		errors.Is(err, ai.ErrMissingAPIKey),
		errors.Is(err, localstore.ErrReadOnly):
		return http.StatusUnprocessableEntity
	case errors.As(err, &generation),
		errors.As(err, &network),
		errors.As(err, &timeout),
		errors.As(err, &malformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrapf(errBadRequest, "decode body: %v", err)
	}
	return nil
}

func errBadRequestf(format string, args ...any) error {
	return errors.Wrapf(errBadRequest, format, args...)
}
