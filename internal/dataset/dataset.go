// Package dataset loads question banks from the semicolon-separated CSV and
// XLSX files teachers maintain, one file per school level.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kuisku/kuisku/internal/quiz"
)

// Columns every dataset must carry, in the order the template uses.
var Columns = []string{"TOPIK", "SOAL", "OPSI_A", "OPSI_B", "OPSI_C", "OPSI_D", "JAWABAN"}

// KnownLevels are the levels a filename prefix may name.
var KnownLevels = []string{"SD", "SMP", "SMA"}

// UnknownLevel is used when neither the filename nor the caller names a level.
const UnknownLevel = "Unknown"

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Row is one accepted dataset row.
type Row struct {
	// Line is the 1-based line (CSV) or row number (XLSX), header included.
	Line  int
	Topic string
	quiz.ValidatedItem
}

// RowError describes a rejected row.
type RowError struct {
	Row      int    `json:"row"`
	Question string `json:"question,omitempty"`
	Error    string `json:"error"`
}

// Report summarizes a load or verify pass.
type Report struct {
	TotalRows   int        `json:"total_rows"`
	SuccessRows int        `json:"success_rows"`
	FailedRows  int        `json:"failed_rows"`
	Corrected   int        `json:"corrected,omitempty"`
	Errors      []RowError `json:"errors"`
}

func (r *Report) fail(row int, question, msg string) {
	r.FailedRows++
	r.Errors = append(r.Errors, RowError{Row: row, Question: question, Error: msg})
}

var levelPrefixRe = regexp.MustCompile(`^([A-Za-z]+)_`)

// LevelFromFilename returns the level named by a "SD_", "SMP_" or "SMA_"
// filename prefix, else fallback upper-cased, else UnknownLevel.
func LevelFromFilename(path, fallback string) string {
	if m := levelPrefixRe.FindStringSubmatch(filepath.Base(path)); m != nil {
		prefix := strings.ToUpper(m[1])
		for _, l := range KnownLevels {
			if prefix == l {
				return l
			}
		}
	}
	if f := strings.ToUpper(strings.TrimSpace(fallback)); f != "" {
		return f
	}
	return UnknownLevel
}

// Load reads the dataset at path, choosing the format by extension.
func Load(path string) ([]Row, *Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(f)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV parses a semicolon-separated dataset.
func ReadCSV(r io.Reader) ([]Row, *Report, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRecords(records)
}

// ReadXLSX parses the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([]Row, *Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("excel workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	return parseRecords(records)
}

func parseRecords(records [][]string) ([]Row, *Report, error) {
	if len(records) == 0 {
		return nil, nil, errors.New("dataset is empty")
	}

	header := map[string]int{}
	for i, h := range records[0] {
		h = strings.TrimPrefix(h, "\ufeff")
		header[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	for _, col := range Columns {
		if _, ok := header[col]; !ok {
			return nil, nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	report := &Report{Errors: make([]RowError, 0)}
	var rows []Row
	for i := 1; i < len(records); i++ {
		record := records[i]
		if blank(record) {
			continue
		}
		line := i + 1
		report.TotalRows++

		get := func(key string) string {
			idx := header[key]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		item := quiz.ValidatedItem{
			Question:      get("SOAL"),
			Options:       []string{get("OPSI_A"), get("OPSI_B"), get("OPSI_C"), get("OPSI_D")},
			CorrectAnswer: get("JAWABAN"),
		}
		if err := item.Check(); err != nil {
			report.fail(line, item.Question, err.Error())
			continue
		}

		report.SuccessRows++
		rows = append(rows, Row{Line: line, Topic: get("TOPIK"), ValidatedItem: item})
	}
	return rows, report, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Items returns the validated items of rows.
func Items(rows []Row) []quiz.ValidatedItem {
	out := make([]quiz.ValidatedItem, len(rows))
	for i, r := range rows {
		out[i] = r.ValidatedItem
	}
	return out
}
