package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"github.com/example/vocabquiz/pkg/models"
)

// ErrUnsupportedFormat is returned for files that are not csv, json or xlsx
var ErrUnsupportedFormat = errors.New("unsupported import format")

// Format is the encoding of an import file
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	XLSX Format = "xlsx"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	WordColumn         string // Column with the word
	PhoneticColumn     string // Column with the pronunciation
	PartOfSpeechColumn string // Column with the part of speech
	MeaningColumn      string // Column with the meaning
	SheetName          string // Sheet to read, the first sheet when empty
	SkipHeader         bool   // Skip the first row of csv and xlsx files
}

// DefaultImportConfig returns the four column layout: word, phonetic, part of speech, meaning
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:         "A",
		PhoneticColumn:     "B",
		PartOfSpeechColumn: "C",
		MeaningColumn:      "D",
		SkipHeader:         true,
	}
}

// RowError describes a row that could not be turned into a vocabulary item
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e RowError) String() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d: %s %s", e.Row, e.Field, e.Message)
}

// ParseResult holds the items read from a file and the rows that were rejected
type ParseResult struct {
	TotalProcessed int
	Items          []models.VocabularyItem
	Errors         []RowError
}

type entry struct {
	Word         string `json:"word" validate:"required,max=100"`
	Phonetic     string `json:"phonetic" validate:"max=100"`
	PartOfSpeech string `json:"partOfSpeech" validate:"max=50"`
	Meaning      string `json:"meaning" validate:"required,max=500"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".json":
		return JSON, nil
	case ".xlsx":
		return XLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// ParseFile reads vocabulary from a csv, json or xlsx file
func ParseFile(path string, config ImportConfig) (*ParseResult, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	return Parse(file, format, config)
}

// Parse reads vocabulary in the given format. Invalid rows are reported in
// the result; only unreadable input returns an error.
func Parse(r io.Reader, format Format, config ImportConfig) (*ParseResult, error) {
	switch format {
	case CSV:
		return parseCSV(r, config)
	case JSON:
		return parseJSON(r)
	case XLSX:
		return parseXLSX(r, config)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func parseCSV(r io.Reader, config ImportConfig) (*ParseResult, error) {
	columns, err := config.columns()
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	result := &ParseResult{}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("error reading CSV: %w", err)
			}
			result.TotalProcessed++
			result.Errors = append(result.Errors, RowError{Row: parseErr.Line, Message: parseErr.Err.Error()})
			continue
		}

		if rowNum == 1 && config.SkipHeader {
			continue
		}
		line, _ := reader.FieldPos(0)
		result.addRow(line, columns.pick(row))
	}

	return result, nil
}

func parseXLSX(r io.Reader, config ImportConfig) (*ParseResult, error) {
	columns, err := config.columns()
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ParseResult{}
	for i, row := range rows {
		if i == 0 && config.SkipHeader {
			continue
		}
		result.addRow(i+1, columns.pick(row))
	}
	return result, nil
}

// parseJSON accepts an array whose elements are either objects with
// word/phonetic/partOfSpeech/meaning keys or four-element string arrays
func parseJSON(r io.Reader) (*ParseResult, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	result := &ParseResult{}
	for i, element := range raw {
		rowNum := i + 1
		trimmed := bytes.TrimSpace(element)

		var e entry
		var err error
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var cells []string
			if err = json.Unmarshal(trimmed, &cells); err == nil {
				e = defaultColumns.pick(cells)
			}
		} else {
			err = json.Unmarshal(trimmed, &e)
		}
		if err != nil {
			result.TotalProcessed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: fmt.Sprintf("malformed entry: %v", err)})
			continue
		}
		result.addRow(rowNum, e)
	}
	return result, nil
}

func (p *ParseResult) addRow(rowNum int, e entry) {
	e.Word = strings.TrimSpace(e.Word)
	e.Phonetic = strings.TrimSpace(e.Phonetic)
	e.PartOfSpeech = strings.TrimSpace(e.PartOfSpeech)
	e.Meaning = strings.TrimSpace(e.Meaning)

	// Blank lines are not rows
	if e == (entry{}) {
		return
	}
	p.TotalProcessed++

	if err := validate.Struct(e); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			p.Errors = append(p.Errors, RowError{Row: rowNum, Message: err.Error()})
			return
		}
		for _, fe := range fieldErrs {
			p.Errors = append(p.Errors, RowError{Row: rowNum, Field: fe.Field(), Message: describe(fe)})
		}
		return
	}

	p.Items = append(p.Items, models.VocabularyItem{
		Word:         e.Word,
		Phonetic:     e.Phonetic,
		PartOfSpeech: e.PartOfSpeech,
		Meaning:      e.Meaning,
	})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return fmt.Sprintf("must satisfy %s constraint", fe.Tag())
}

type columnIndexes struct {
	word, phonetic, partOfSpeech, meaning int
}

var defaultColumns = columnIndexes{word: 0, phonetic: 1, partOfSpeech: 2, meaning: 3}

func (c ImportConfig) columns() (columnIndexes, error) {
	var idx columnIndexes
	targets := []struct {
		name   string
		letter string
		dst    *int
	}{
		{"word", c.WordColumn, &idx.word},
		{"phonetic", c.PhoneticColumn, &idx.phonetic},
		{"part of speech", c.PartOfSpeechColumn, &idx.partOfSpeech},
		{"meaning", c.MeaningColumn, &idx.meaning},
	}

	for _, t := range targets {
		if t.letter == "" {
			*t.dst = -1
			continue
		}
		n, err := excelize.ColumnNameToNumber(t.letter)
		if err != nil {
			return idx, fmt.Errorf("invalid %s column %q: %w", t.name, t.letter, err)
		}
		*t.dst = n - 1
	}
	return idx, nil
}

func (c columnIndexes) pick(row []string) entry {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}
	return entry{
		Word:         cell(c.word),
		Phonetic:     cell(c.phonetic),
		PartOfSpeech: cell(c.partOfSpeech),
		Meaning:      cell(c.meaning),
	}
}
