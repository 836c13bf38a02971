package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/example/flashcards/internal/spaced_repetition"
	"github.com/example/flashcards/internal/study"
	"github.com/example/flashcards/pkg/models"
	"github.com/gorilla/mux"
)

type cardView struct {
	models.Card
	Image    string   `json:"image,omitempty"`
	POSNames []string `json:"posNames"`
}

func newCardView(c models.Card) cardView {
	return cardView{Card: c, Image: c.ImageDataURL(), POSNames: c.POS.FullNames()}
}

type stateView struct {
	Position string                `json:"position"`
	Index    int                   `json:"index"`
	Total    int                   `json:"total"`
	Card     *cardView             `json:"card"`
	Filter   *models.Playlist      `json:"filter"`
	Stats    models.DeckStatistics `json:"stats"`
}

func (s *Server) stateView(st study.State) stateView {
	view := stateView{
		Position: st.Nav.String(),
		Index:    st.Nav.Index(),
		Total:    st.Nav.Len(),
		Filter:   st.Filter,
		Stats:    spaced_repetition.Statistics(st.Cards, s.now()),
	}
	if card, ok := st.Current(); ok {
		cv := newCardView(card)
		view.Card = &cv
	}
	return view
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, cmd study.Command) {
	st, err := s.deps.Session.Dispatch(r.Context(), cmd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.stateView(st))
}

func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stateView(s.deps.Session.State()))
}

func (s *Server) HandleNext(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, study.Next{})
}

func (s *Server) HandlePrevious(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, study.Previous{})
}

func (s *Server) HandleJump(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Index int `json:"index"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.dispatch(w, r, study.JumpTo{Index: body.Index})
}

func (s *Server) HandleReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Outcome string `json:"outcome"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	outcome, err := spaced_repetition.ParseOutcome(body.Outcome)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.dispatch(w, r, study.Review{Outcome: outcome, Today: s.now()})
}

func (s *Server) HandleSaveNotes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.dispatch(w, r, study.SaveNotes{Notes: body.Notes})
}

func (s *Server) HandleClearNotes(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, study.ClearNotes{})
}

func (s *Server) HandleDeleteActive(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.writeError(w, r, study.ErrIndexOutOfRange)
		return
	}
	s.dispatch(w, r, study.Delete{Index: index})
}

func (s *Server) HandleSetFilter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlaylistID string `json:"playlistId"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.deps.Playlists.Playlist(r.Context(), body.PlaylistID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.dispatch(w, r, study.SetFilter{Playlist: *p})
}

func (s *Server) HandleClearFilter(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, study.ClearFilter{})
}

type cardInput struct {
	Word            string               `json:"word"`
	POS             models.PartsOfSpeech `json:"pos"`
	Definition      string               `json:"definition"`
	ExampleSentence string               `json:"exampleSentence"`
	PronunciationUK string               `json:"pronunciationUK"`
	PronunciationUS string               `json:"pronunciationUS"`
	ZhTraditional   string               `json:"zhTraditional"`
	AudioUK         string               `json:"audioUK"`
	AudioUS         string               `json:"audioUS"`
	Image           string               `json:"image"`
	Notes           string               `json:"notes"`
}

func (s *Server) HandleAddCard(w http.ResponseWriter, r *http.Request) {
	var in cardInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	card := models.Card{
		ID:              s.newID(),
		Word:            strings.TrimSpace(in.Word),
		POS:             in.POS,
		Definition:      in.Definition,
		ExampleSentence: in.ExampleSentence,
		PronunciationUK: in.PronunciationUK,
		PronunciationUS: in.PronunciationUS,
		ZhTraditional:   in.ZhTraditional,
		AudioUK:         strings.TrimSpace(in.AudioUK),
		AudioUS:         strings.TrimSpace(in.AudioUS),
		Notes:           in.Notes,
		CreatedAt:       s.now().UTC(),
	}
	if err := card.SetImageDataURL(in.Image); err != nil {
		s.writeError(w, r, errBadRequestf("image: %v", err))
		return
	}

	st, err := s.deps.Session.Dispatch(r.Context(), study.AddCard{Card: card})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Card  cardView  `json:"card"`
		State stateView `json:"state"`
	}{newCardView(card), s.stateView(st)})
}
