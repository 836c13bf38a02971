package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/flashcards/internal/excel"
	"github.com/example/flashcards/internal/study"
	"github.com/example/flashcards/pkg/models"
	"github.com/pkg/errors"
)

// maxUpload bounds image and spreadsheet uploads
const maxUpload = 10 << 20

var errUnavailable = errors.New("feature is not configured, set an OpenAI API key")

// readUpload returns the named multipart file, or the raw body for other content types
func readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile(field)
		if err != nil {
			return nil, "", errBadRequestf("%s: %v", field, err)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errBadRequestf("read %s: %v", field, err)
		}
		return data, header.Filename, nil
	}

	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", errBadRequestf("read body: %v", err)
	}
	return data, "", nil
}

func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.deps.Analyzer == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	image, _, err := readUpload(w, r, "image")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(image) == 0 {
		s.writeError(w, r, errBadRequestf("image is empty"))
		return
	}

	candidates, err := s.deps.Analyzer.Analyze(r.Context(), image)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if candidates == nil {
		candidates = []models.WordCandidate{}
	}
	writeJSON(w, http.StatusOK, candidates)
}

// HandleAddCandidates turns the words the user kept from an analysis into cards
func (s *Server) HandleAddCandidates(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Image      string                 `json:"image"`
		Candidates []models.WordCandidate `json:"candidates"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	var img models.Card
	if err := img.SetImageDataURL(body.Image); err != nil {
		s.writeError(w, r, errBadRequestf("image: %v", err))
		return
	}

	cards := study.CardsFromCandidates(body.Candidates, img.Image, img.ImageType, s.newID, s.now().UTC())
	st, err := s.deps.Session.Dispatch(r.Context(), study.AddCards{Cards: cards})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Cards added from image", "count", len(cards))

	writeJSON(w, http.StatusCreated, struct {
		Added int       `json:"added"`
		State stateView `json:"state"`
	}{len(cards), s.stateView(st)})
}

func (s *Server) HandleAsk(w http.ResponseWriter, r *http.Request) {
	if s.deps.Assistant == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	reply, err := s.deps.Assistant.Ask(r.Context(), body.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) HandleImport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Importer == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	data, name, err := readUpload(w, r, "file")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ext := strings.ToLower(filepath.Ext(name))
	if name == "" {
		ext = "." + strings.TrimPrefix(strings.ToLower(r.URL.Query().Get("format")), ".")
	}
	if ext != ".xlsx" && ext != ".csv" {
		s.writeError(w, r, errBadRequestf("unsupported file type %q", ext))
		return
	}

	tmp, err := os.CreateTemp("", "flashcards-import-*"+ext)
	if err != nil {
		s.writeError(w, r, errors.Wrap(err, "create temp file"))
		return
	}
	defer os.Remove(tmp.Name())
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.writeError(w, r, errors.Wrap(err, "write temp file"))
		return
	}

	cfg := excel.DefaultImportConfig()
	cfg.FilePath = tmp.Name()
	if sheet := r.URL.Query().Get("sheet"); sheet != "" {
		cfg.SheetName = sheet
	}
	result, err := s.deps.Importer.Import(r.Context(), cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mu.Lock()
	s.refresh(r)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, result)
}
