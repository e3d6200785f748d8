package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMissingYearColumn = errors.New("csv header has no year column")
	ErrInvalidYear       = errors.New("invalid year")
)

// combinedNameColumn is the single "last, first" name column some exports use.
const combinedNameColumn = "last_name, first_name"

// LoadWarning records a cell that could not be converted and was coerced.
type LoadWarning struct {
	Line   int    `json:"line"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Result string `json:"result"`
}

func (w LoadWarning) String() string {
	return fmt.Sprintf("line %d: column %s: %q coerced to %s", w.Line, w.Column, w.Value, w.Result)
}

type columnIndex map[string]int

func (c columnIndex) get(row []string, name string) (string, bool) {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

// ParseCSV reads batting lines from r. Float cells follow numeric coercion: blank is 0,
// unparseable text is NaN, except batting_avg which falls back to 0. Integer cells that
// cannot be read become 0. Each coercion of a non-blank cell produces a LoadWarning.
func ParseCSV(r io.Reader) (*Table, []LoadWarning, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyTable
		}
		return nil, nil, fmt.Errorf("reading csv header: %w", err)
	}

	cols := make(columnIndex, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	if _, ok := cols["year"]; !ok {
		return nil, nil, ErrMissingYearColumn
	}

	var (
		records  []Record
		warnings []LoadWarning
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlankRow(row) {
			continue
		}

		p := rowParser{cols: cols, row: row, line: line}
		rec, err := p.record()
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
		warnings = append(warnings, p.warnings...)
	}

	if len(records) == 0 {
		return nil, warnings, ErrEmptyTable
	}

	return NewTable(records), warnings, nil
}

type rowParser struct {
	cols     columnIndex
	row      []string
	line     int
	warnings []LoadWarning
}

func (p *rowParser) record() (Record, error) {
	var rec Record

	yearText, _ := p.cols.get(p.row, "year")
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return Record{}, fmt.Errorf("line %d: %w %q", p.line, ErrInvalidYear, yearText)
	}
	rec.Year = year

	rec.FirstName, _ = p.cols.get(p.row, "first_name")
	rec.LastName, _ = p.cols.get(p.row, "last_name")
	if combined, ok := p.cols.get(p.row, combinedNameColumn); ok && rec.FirstName == "" &&
		rec.LastName == "" {
		last, first, _ := strings.Cut(combined, ",")
		rec.LastName = strings.TrimSpace(last)
		rec.FirstName = strings.TrimSpace(first)
	}

	rec.AtBats = p.integer("ab")
	rec.PlateApps = p.integer("pa")
	rec.BattingAvg = p.float(string(FieldBattingAvg), 0)
	rec.SwingPercent = p.float(string(FieldSwingPercent), math.NaN())
	rec.KPercent = p.float(string(FieldKPercent), math.NaN())
	rec.BBPercent = p.float(string(FieldBBPercent), math.NaN())
	rec.SlgPercent = p.float(string(FieldSlgPercent), math.NaN())
	rec.OnBasePercent = p.float(string(FieldOnBasePercent), math.NaN())
	rec.HomeRun = p.integer(string(FieldHomeRun))
	rec.Walk = p.integer(string(FieldWalk))
	rec.Strikeout = p.integer(string(FieldStrikeout))
	rec.Single = p.integer(string(FieldSingle))
	rec.Double = p.integer(string(FieldDouble))
	rec.Triple = p.integer(string(FieldTriple))

	return rec, nil
}

// float converts a cell, returning invalid for unparseable text. Blank or absent cells are 0.
func (p *rowParser) float(column string, invalid float64) float64 {
	text, _ := p.cols.get(p.row, column)
	if text == "" {
		return 0
	}

	// NaN and Inf spellings parse but cannot be plotted.
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.warn(column, text, strconv.FormatFloat(invalid, 'f', -1, 64))
		return invalid
	}
	return f
}

func (p *rowParser) integer(column string) int {
	text, _ := p.cols.get(p.row, column)
	if text == "" {
		return 0
	}

	n, err := strconv.Atoi(text)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			p.warn(column, text, "0")
			return 0
		}
		n = int(f)
	}
	if n < 0 {
		p.warn(column, text, "0")
		return 0
	}
	return n
}

func (p *rowParser) warn(column, value, result string) {
	p.warnings = append(p.warnings, LoadWarning{
		Line:   p.line,
		Column: column,
		Value:  value,
		Result: result,
	})
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
