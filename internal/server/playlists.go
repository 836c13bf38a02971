package server

import (
	"net/http"

	"github.com/example/flashcards/pkg/models"
	"github.com/gorilla/mux"
)

// refresh reloads the session after playlists changed underneath it
func (s *Server) refresh(r *http.Request) {
	if err := s.deps.Session.Load(r.Context()); err != nil {
		s.logger.Warn("Failed to reload session", "error", err)
	}
}

func (s *Server) HandleListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.deps.Playlists.Playlists(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) HandleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.deps.Playlists.CreatePlaylist(r.Context(), body.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) HandleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Playlists.DeletePlaylist(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.refresh(r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandlePlaylistCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.deps.Playlists.PlaylistCards(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]cardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, newCardView(c))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) HandleRemoveFromPlaylist(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.deps.Playlists.RemoveFromPlaylist(r.Context(), vars["id"], vars["card"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.refresh(r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleMembership(w http.ResponseWriter, r *http.Request) {
	membership, err := s.deps.Playlists.Membership(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, membership)
}

func (s *Server) HandleSetMembership(w http.ResponseWriter, r *http.Request) {
	var checked map[string]bool
	if err := decode(r, &checked); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Playlists.SetMembership(r.Context(), mux.Vars(r)["id"], checked); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.refresh(r)
	w.WriteHeader(http.StatusNoContent)
}
