// Package importer ingests course material from delimited files. It reads
// CSV and XLSX sheets, matches columns by header name, and creates items
// with their scheduling fields at the starting state, one transaction per
// file.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/platform/logger"
	"github.com/kioku-app/kioku/internal/store"
)

var (
	// ErrEmptyFile indicates the file contained no data rows.
	ErrEmptyFile = errors.New("file contains no data rows")

	// ErrUnsupportedFormat indicates the file extension is not importable.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMissingColumns indicates the required columns could not be found.
	ErrMissingColumns = errors.New("required columns not found")
)

// Result summarizes a completed import.
type Result struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Importer creates course items from CSV and XLSX files.
type Importer struct {
	db         *sqlx.DB
	words      store.WordStore
	clozes     store.ClozeSentenceStore
	characters store.CharacterStore
	logger     *slog.Logger
}

// NewImporter creates a new Importer.
func NewImporter(
	db *sqlx.DB,
	words store.WordStore,
	clozes store.ClozeSentenceStore,
	characters store.CharacterStore,
	logger *slog.Logger,
) *Importer {
	if db == nil {
		panic("db cannot be nil")
	}
	if words == nil {
		panic("words cannot be nil")
	}
	if clozes == nil {
		panic("clozes cannot be nil")
	}
	if characters == nil {
		panic("characters cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Importer{
		db:         db,
		words:      words,
		clozes:     clozes,
		characters: characters,
		logger:     logger.With(slog.String("component", "importer")),
	}
}

// ImportWords reads native/target pairs from the file and creates words in
// their initial state, immediately due. The whole file is committed in one
// transaction so a parse failure never leaves a partial course behind.
func (i *Importer) ImportWords(ctx context.Context, courseID uuid.UUID, path string) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, i.logger)

	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	cols, rows := matchColumns(rows, wordColumnSets)
	if cols == nil {
		return nil, fmt.Errorf("%w: need native and target columns", ErrMissingColumns)
	}

	result := &Result{}
	words := make([]*domain.Word, 0, len(rows))
	for n, row := range rows {
		native := cellAt(row, cols[0])
		target := cellAt(row, cols[1])
		if native == "" || target == "" {
			result.Skipped++
			continue
		}

		level := levelAt(row, cols[2])
		word, err := domain.NewWord(courseID, native, target, level)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", n+1, err))
			continue
		}
		words = append(words, word)
	}
	if len(words) == 0 {
		return nil, ErrEmptyFile
	}

	err = store.RunInTransaction(ctx, i.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return i.words.WithTx(tx).CreateMultiple(ctx, words)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save imported words: %w", err)
	}

	result.Created = len(words)
	log.Info("imported words",
		slog.String("course_id", courseID.String()),
		slog.String("file", filepath.Base(path)),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

// ImportSentences reads native/target sentence pairs and creates cloze
// sentences at the seed stage. The cloze text and answer are derived once
// here by blanking one random whitespace token of the target; rng is
// supplied by the caller so runs are reproducible.
func (i *Importer) ImportSentences(
	ctx context.Context,
	courseID uuid.UUID,
	path string,
	rng *rand.Rand,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, i.logger)

	if rng == nil {
		panic("rng cannot be nil")
	}

	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	cols, rows := matchColumns(rows, sentenceColumnSets)
	if cols == nil {
		return nil, fmt.Errorf("%w: need native and target columns", ErrMissingColumns)
	}

	result := &Result{}
	sentences := make([]*domain.ClozeSentence, 0, len(rows))
	for n, row := range rows {
		native := cellAt(row, cols[0])
		target := cellAt(row, cols[1])
		if native == "" || target == "" {
			result.Skipped++
			continue
		}

		clozeText, answer := DeriveCloze(target, rng)
		sentence, err := domain.NewClozeSentence(courseID, native, target, clozeText, answer)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", n+1, err))
			continue
		}
		sentences = append(sentences, sentence)
	}
	if len(sentences) == 0 {
		return nil, ErrEmptyFile
	}

	err = store.RunInTransaction(ctx, i.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return i.clozes.WithTx(tx).CreateMultiple(ctx, sentences)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save imported sentences: %w", err)
	}

	result.Created = len(sentences)
	log.Info("imported cloze sentences",
		slog.String("course_id", courseID.String()),
		slog.String("file", filepath.Base(path)),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

// ImportCharacters reads glyph/meaning/reading rows and creates characters
// in the locked stage. The reading column may be absent for languages
// without a separate pronunciation axis.
func (i *Importer) ImportCharacters(ctx context.Context, courseID uuid.UUID, path string) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, i.logger)

	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	cols, rows := matchColumns(rows, characterColumnSets)
	if cols == nil {
		return nil, fmt.Errorf("%w: need glyph and meaning columns", ErrMissingColumns)
	}

	result := &Result{}
	characters := make([]*domain.Character, 0, len(rows))
	for n, row := range rows {
		glyph := cellAt(row, cols[0])
		meaning := cellAt(row, cols[1])
		if glyph == "" || meaning == "" {
			result.Skipped++
			continue
		}

		reading := cellAt(row, cols[2])
		level := levelAt(row, cols[3])
		character, err := domain.NewCharacter(courseID, glyph, meaning, reading, level)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", n+1, err))
			continue
		}
		characters = append(characters, character)
	}
	if len(characters) == 0 {
		return nil, ErrEmptyFile
	}

	err = store.RunInTransaction(ctx, i.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return i.characters.WithTx(tx).CreateMultiple(ctx, characters)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save imported characters: %w", err)
	}

	result.Created = len(characters)
	log.Info("imported characters",
		slog.String("course_id", courseID.String()),
		slog.String("file", filepath.Base(path)),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

// DeriveCloze blanks one random whitespace-delimited token of the sentence
// and returns the blanked text together with the removed token. A
// single-token sentence has its whole token blanked.
func DeriveCloze(target string, rng *rand.Rand) (clozeText, answer string) {
	tokens := strings.Fields(target)
	if len(tokens) == 0 {
		return "", ""
	}

	pick := 0
	if len(tokens) > 1 {
		pick = rng.Intn(len(tokens))
	}
	answer = tokens[pick]
	tokens[pick] = "___"
	return strings.Join(tokens, " "), answer
}

// readRows loads every row of the file. CSV files are read directly, XLSX
// files through their first sheet.
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return rows, nil
}

// Column synonym sets per import kind, in result order. The first two sets
// of each kind are required, the rest optional.
var (
	wordColumnSets = [][]string{
		{"native", "english", "meaning", "translation", "front"},
		{"target", "word", "term", "back"},
		{"level", "grade"},
	}
	sentenceColumnSets = [][]string{
		{"native", "english", "meaning", "translation", "front"},
		{"target", "sentence", "back"},
	}
	characterColumnSets = [][]string{
		{"glyph", "character", "kanji", "hanzi", "symbol"},
		{"meaning", "native", "english", "translation"},
		{"reading", "pronunciation", "kana", "pinyin"},
		{"level", "grade"},
	}
)

// matchColumns resolves column indexes from the header row. The first two
// column sets are required; the rest are optional and resolve to -1 when
// absent. A file whose first row matches no known header is treated as
// headerless with the columns in declaration order.
func matchColumns(rows [][]string, sets [][]string) ([]int, [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	cols := make([]int, len(sets))
	matched := false
	for s, synonyms := range sets {
		cols[s] = -1
		for h, cell := range header {
			name := strings.ToLower(strings.TrimSpace(cell))
			for _, synonym := range synonyms {
				if name == synonym {
					cols[s] = h
					matched = true
					break
				}
			}
			if cols[s] >= 0 {
				break
			}
		}
	}

	if !matched {
		// Headerless file: positional columns.
		for s := range cols {
			cols[s] = s
		}
		if len(header) < 2 {
			return nil, nil
		}
		return cols, rows
	}

	if cols[0] < 0 || cols[1] < 0 {
		return nil, nil
	}
	return cols, rows[1:]
}

// cellAt returns the trimmed cell at the given index, empty when the column
// is optional or the row is short.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// levelAt parses an optional course-level cell, defaulting to 1.
func levelAt(row []string, idx int) int {
	cell := cellAt(row, idx)
	if cell == "" {
		return 1
	}
	level, err := strconv.Atoi(cell)
	if err != nil || level < 1 {
		return 1
	}
	return level
}
