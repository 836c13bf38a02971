package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/flashcards/internal/study"
	"github.com/example/flashcards/pkg/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath              string // Path to the Excel or CSV file
	WordColumn            string // Column with the word
	POSColumn             string // Column with the part of speech, e.g. "n" or "n, v"
	DefinitionColumn      string // Column with the definition
	ExampleColumn         string // Column with an example sentence
	PronunciationUKColumn string // Column with the UK pronunciation
	PronunciationUSColumn string // Column with the US pronunciation
	ZhTraditionalColumn   string // Column with the Traditional Chinese translation
	PlaylistColumn        string // Column with the playlist name
	SheetName             string // Name of the sheet to import
	StartRow              int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:            "A",
		POSColumn:             "B",
		DefinitionColumn:      "C",
		ExampleColumn:         "D",
		PronunciationUKColumn: "E",
		PronunciationUSColumn: "F",
		ZhTraditionalColumn:   "G",
		PlaylistColumn:        "H",
		SheetName:             "Sheet1",
		StartRow:              2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed   int      `json:"totalProcessed"`
	PlaylistsCreated int      `json:"playlistsCreated"`
	Created          int      `json:"created"`
	Updated          int      `json:"updated"`
	Skipped          int      `json:"skipped"`
	Errors           []string `json:"errors"`
}

// Importer loads cards from spreadsheets into the card store. Rows naming a
// playlist also add the card to that playlist, creating it when needed.
type Importer struct {
	cards     study.CardStore
	playlists study.PlaylistStore
	logger    *slog.Logger
	newID     func() string
}

// NewImporter creates an importer. playlists may be nil to ignore playlist columns.
func NewImporter(cards study.CardStore, playlists study.PlaylistStore, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{cards: cards, playlists: playlists, logger: logger, newID: uuid.NewString}
}

// rowData holds extracted card information from one row
type rowData struct {
	Word            string
	POS             string
	Definition      string
	Example         string
	PronunciationUK string
	PronunciationUS string
	ZhTraditional   string
	Playlist        string
}

// importRun carries lookups shared by all rows of one import
type importRun struct {
	*Importer
	ctx       context.Context
	result    *ImportResult
	byWord    map[string]models.Card
	playlists map[string]*models.Playlist
}

// Import imports cards from an Excel or CSV file
func (im *Importer) Import(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	run, err := im.newRun(ctx)
	if err != nil {
		return nil, err
	}

	// Check the file extension
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		err = run.importFromCSV(config)
	} else {
		err = run.importFromExcel(config)
	}
	if err != nil {
		return nil, err
	}

	im.logger.Info("Import finished",
		"file", config.FilePath,
		"processed", run.result.TotalProcessed,
		"created", run.result.Created,
		"updated", run.result.Updated,
		"skipped", run.result.Skipped,
		"errors", len(run.result.Errors))
	return run.result, nil
}

func (im *Importer) newRun(ctx context.Context) (*importRun, error) {
	run := &importRun{
		Importer:  im,
		ctx:       ctx,
		result:    &ImportResult{Errors: make([]string, 0)},
		byWord:    make(map[string]models.Card),
		playlists: make(map[string]*models.Playlist),
	}

	// Get all existing cards for reference
	existing, err := im.cards.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing cards: %w", err)
	}
	for _, c := range existing {
		run.byWord[strings.ToLower(c.Word)] = c
	}

	if im.playlists != nil {
		playlists, err := im.playlists.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get existing playlists: %w", err)
		}
		for i := range playlists {
			run.playlists[strings.ToLower(playlists[i].Name)] = &playlists[i]
		}
	}
	return run, nil
}

// importFromExcel imports cards from an Excel file
func (run *importRun) importFromExcel(config ImportConfig) error {
	// Open Excel file
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	// Get rows from Excel
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		run.processRow(extractRow(row, config), i+1)
	}
	return nil
}

// importFromCSV imports cards from a CSV file. A row holding only a first
// cell starts a section; following rows go to the playlist of that name.
func (run *importRun) importFromCSV(config ImportConfig) error {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return run.readCSV(file, config)
}

func (run *importRun) readCSV(r io.Reader, config ImportConfig) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	rowNum := 0
	section := ""
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading CSV: %w", err)
		}
		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		if name, ok := sectionHeader(row); ok {
			section = name
			continue
		}

		data := extractRow(row, config)
		if data.Playlist == "" {
			data.Playlist = section
		}
		run.processRow(data, rowNum)
	}
	return nil
}

// sectionHeader reports whether the row is a section title like `Travel,,`
func sectionHeader(row []string) (string, bool) {
	if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
		return "", false
	}
	for _, cell := range row[1:] {
		if strings.TrimSpace(cell) != "" {
			return "", false
		}
	}
	return strings.Trim(strings.TrimSpace(row[0]), "\""), len(row) > 1
}

func extractRow(row []string, config ImportConfig) rowData {
	cell := func(column string) string {
		if column == "" {
			return ""
		}
		if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	return rowData{
		Word:            cell(config.WordColumn),
		POS:             cell(config.POSColumn),
		Definition:      cell(config.DefinitionColumn),
		Example:         cell(config.ExampleColumn),
		PronunciationUK: cell(config.PronunciationUKColumn),
		PronunciationUS: cell(config.PronunciationUSColumn),
		ZhTraditional:   cell(config.ZhTraditionalColumn),
		Playlist:        cell(config.PlaylistColumn),
	}
}

// processRow handles the common logic for a row from any source
func (run *importRun) processRow(data rowData, rowNum int) {
	data.Word = cleanWord(data.Word)
	if data.Word == "" {
		run.result.Skipped++
		return
	}
	run.result.TotalProcessed++

	if err := run.saveCard(data); err != nil {
		run.result.Errors = append(run.result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
	}
}

func (run *importRun) saveCard(data rowData) error {
	key := strings.ToLower(data.Word)
	card, exists := run.byWord[key]
	if !exists {
		card = models.Card{ID: run.newID(), Word: data.Word, CreatedAt: time.Now().UTC()}
	}

	// Existing cards keep progress and notes; empty cells keep old values
	if pos := parsePOS(data.POS); len(pos) > 0 {
		card.POS = pos
	}
	setIfNotEmpty(&card.Definition, data.Definition)
	setIfNotEmpty(&card.ExampleSentence, data.Example)
	setIfNotEmpty(&card.PronunciationUK, data.PronunciationUK)
	setIfNotEmpty(&card.PronunciationUS, data.PronunciationUS)
	setIfNotEmpty(&card.ZhTraditional, data.ZhTraditional)

	if err := run.cards.Put(run.ctx, &card); err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	run.byWord[key] = card
	if exists {
		run.result.Updated++
	} else {
		run.result.Created++
	}

	if data.Playlist != "" && run.Importer.playlists != nil {
		if err := run.addToPlaylist(data.Playlist, card.ID); err != nil {
			return fmt.Errorf("failed to process playlist: %w", err)
		}
	}
	return nil
}

// addToPlaylist gets a playlist by name or creates it, then appends the card once
func (run *importRun) addToPlaylist(name, cardID string) error {
	key := strings.ToLower(name)
	p, ok := run.playlists[key]
	if !ok {
		p = &models.Playlist{ID: run.newID(), Name: name, Cards: []string{}}
		if err := run.Importer.playlists.Add(run.ctx, p); err != nil {
			return err
		}
		run.playlists[key] = p
		run.result.PlaylistsCreated++
	}
	if p.Contains(cardID) {
		return nil
	}
	p.Add(cardID)
	return run.Importer.playlists.Put(run.ctx, p)
}

func setIfNotEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// parsePOS splits "n, v" or "n/v" into tags
func parsePOS(s string) models.PartsOfSpeech {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == ';' || r == ' '
	})
	if len(fields) == 0 {
		return nil
	}
	return models.PartsOfSpeech(fields)
}

// cleanWord removes extra information in parentheses, e.g. "go (went, gone)"
func cleanWord(word string) string {
	indexOpenParen := strings.Index(word, "(")
	if indexOpenParen > 0 {
		return strings.TrimSpace(word[:indexOpenParen])
	}
	return strings.TrimSpace(word)
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
