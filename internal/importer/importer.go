// Package importer loads course content (themes, lessons, questions and
// options) from a spreadsheet or CSV file into the store.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/qirim/qirim/internal/logging"
	"github.com/qirim/qirim/internal/store"
)

// ImportConfig describes where the data is and which columns hold what.
// Each data row is one question. Option columns start at FirstOption and
// run to the end of the row.
type ImportConfig struct {
	FilePath     string
	SheetName    string // empty means the first sheet
	StartRow     int    // 1-based; rows above are headers
	ThemeNumber  string
	ThemeName    string
	LessonNumber string
	LessonName   string
	Question     string
	Correct      string // 1-based option index or a letter A..Z
	FirstOption  string
}

// DefaultImportConfig returns the layout written by `qirim import --template`.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		StartRow:     2,
		ThemeNumber:  "A",
		ThemeName:    "B",
		LessonNumber: "C",
		LessonName:   "D",
		Question:     "E",
		Correct:      "F",
		FirstOption:  "G",
	}
}

// Header is the header row matching DefaultImportConfig.
var Header = []string{"theme_number", "theme_name", "lesson_number", "lesson_name", "question", "correct", "option_1", "option_2", "option_3", "option_4"}

// RowError reports a rejected row.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

// ImportResult summarizes an import.
type ImportResult struct {
	Rows      int
	Themes    int
	Lessons   int
	Questions int
	Errors    []RowError
}

// Lesson is one parsed lesson with its questions in file order.
type Lesson struct {
	ThemeNumber int
	ThemeName   string
	Number      int
	Name        string
	Questions   []store.NewQuestion
}

// Importer writes parsed lessons through a store.
type Importer struct {
	st  *store.Store
	log *slog.Logger
}

// New creates an Importer.
func New(st *store.Store, logger *slog.Logger) *Importer {
	return &Importer{st: st, log: logging.OrDiscard(logger)}
}

// Import reads cfg.FilePath and replaces every lesson it mentions in one
// transaction. Rejected rows are reported in the result and do not abort
// the import.
func (im *Importer) Import(ctx context.Context, cfg ImportConfig) (*ImportResult, error) {
	rows, err := ReadRows(cfg)
	if err != nil {
		return nil, err
	}
	lessons, rowErrs, err := Parse(rows, cfg)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Rows: max(len(rows)-(cfg.StartRow-1), 0), Errors: rowErrs}
	themes := make(map[int]int64)
	repo := im.st.Course()

	err = im.st.InTx(ctx, func(q store.Querier) error {
		for _, l := range lessons {
			themeID, ok := themes[l.ThemeNumber]
			if !ok {
				id, err := repo.UpsertTheme(ctx, q, l.ThemeNumber, l.ThemeName)
				if err != nil {
					return err
				}
				themes[l.ThemeNumber] = id
				themeID = id
			}
			if _, err := repo.ReplaceLesson(ctx, q, themeID, l.Number, l.Name, l.Questions); err != nil {
				return err
			}
			res.Questions += len(l.Questions)
		}
		return nil
	})
	if err != nil {
		im.log.Error("import failed", "file", cfg.FilePath, "err", err)
		return nil, fmt.Errorf("import %s: %w", filepath.Base(cfg.FilePath), err)
	}

	res.Themes = len(themes)
	res.Lessons = len(lessons)
	im.log.Info("course imported", "file", cfg.FilePath, "themes", res.Themes,
		"lessons", res.Lessons, "questions", res.Questions, "rejected_rows", len(res.Errors))
	return res, nil
}

// ReadRows returns every row of the file. Files ending in .csv are read as
// CSV, everything else as a workbook.
func ReadRows(cfg ImportConfig) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(cfg.FilePath), ".csv") {
		f, err := os.Open(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		return readCSV(f)
	}

	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

type columns struct {
	themeNumber, themeName, lessonNumber, lessonName, question, correct, firstOption int
}

func resolveColumns(cfg ImportConfig) (columns, error) {
	var c columns
	targets := []struct {
		name string
		dst  *int
	}{
		{cfg.ThemeNumber, &c.themeNumber},
		{cfg.ThemeName, &c.themeName},
		{cfg.LessonNumber, &c.lessonNumber},
		{cfg.LessonName, &c.lessonName},
		{cfg.Question, &c.question},
		{cfg.Correct, &c.correct},
		{cfg.FirstOption, &c.firstOption},
	}
	for _, t := range targets {
		n, err := excelize.ColumnNameToNumber(t.name)
		if err != nil {
			return columns{}, fmt.Errorf("column %q: %w", t.name, err)
		}
		*t.dst = n - 1
	}
	return c, nil
}

// Parse groups data rows into lessons keyed by (theme number, lesson
// number), in order of first appearance. Invalid rows are returned as
// RowErrors.
func Parse(rows [][]string, cfg ImportConfig) ([]Lesson, []RowError, error) {
	cols, err := resolveColumns(cfg)
	if err != nil {
		return nil, nil, err
	}
	start := max(cfg.StartRow, 1)

	type key struct{ theme, lesson int }
	index := make(map[key]int)
	var lessons []Lesson
	var rowErrs []RowError

	for i := start - 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		l, q, err := parseRow(row, cols)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: i + 1, Err: err})
			continue
		}
		k := key{l.ThemeNumber, l.Number}
		pos, ok := index[k]
		if !ok {
			pos = len(lessons)
			index[k] = pos
			lessons = append(lessons, l)
		}
		lessons[pos].Questions = append(lessons[pos].Questions, q)
	}
	return lessons, rowErrs, nil
}

func parseRow(row []string, c columns) (Lesson, store.NewQuestion, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	themeNum, err := positive(cell(c.themeNumber), "theme number")
	if err != nil {
		return Lesson{}, store.NewQuestion{}, err
	}
	lessonNum, err := positive(cell(c.lessonNumber), "lesson number")
	if err != nil {
		return Lesson{}, store.NewQuestion{}, err
	}
	l := Lesson{ThemeNumber: themeNum, ThemeName: cell(c.themeName), Number: lessonNum, Name: cell(c.lessonName)}
	if l.ThemeName == "" || l.Name == "" {
		return Lesson{}, store.NewQuestion{}, errors.New("theme and lesson names are required")
	}

	text := cell(c.question)
	if text == "" {
		return Lesson{}, store.NewQuestion{}, errors.New("question text is required")
	}

	var opts []string
	for i := c.firstOption; i < len(row); i++ {
		if v := strings.TrimSpace(row[i]); v != "" {
			opts = append(opts, v)
		}
	}
	if len(opts) < 2 {
		return Lesson{}, store.NewQuestion{}, fmt.Errorf("need at least 2 options, got %d", len(opts))
	}

	correct, err := correctIndex(cell(c.correct), len(opts))
	if err != nil {
		return Lesson{}, store.NewQuestion{}, err
	}

	q := store.NewQuestion{Text: text, Options: make([]store.NewOption, len(opts))}
	for i, o := range opts {
		q.Options[i] = store.NewOption{Text: o, Correct: i == correct}
	}
	return l, q, nil
}

func positive(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s %q is not a positive integer", what, s)
	}
	return n, nil
}

// correctIndex accepts "2" or "B" and returns a 0-based index below n.
func correctIndex(s string, n int) (int, error) {
	idx := -1
	if v, err := strconv.Atoi(s); err == nil {
		idx = v - 1
	} else if len(s) == 1 {
		if c := strings.ToUpper(s)[0]; c >= 'A' && c <= 'Z' {
			idx = int(c - 'A')
		}
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("correct answer %q does not name one of %d options", s, n)
	}
	return idx, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteTemplate creates a workbook at path with the default header and one
// sample row.
func WriteTemplate(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	sample := []string{"1", "Selâmlaşuv", "1", "Salam", "How do you say \"thank you\"?", "2", "Hayırlı kün", "Sağ ol", "Hoş keldiñiz", "Sağlıqnen qalıñız"}
	for i, row := range [][]string{Header, sample} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("write template row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}
