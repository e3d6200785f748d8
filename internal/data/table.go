package data

import (
	"BattingNarrativeApi/internal/validator"
	"errors"
	"slices"
)

var ErrEmptyTable = errors.New("table contains no records")

// Table is the read-only set of records loaded at startup. Record IDs are their positions.
type Table struct {
	records []Record
	years   []int
	byYear  map[int][]int
}

// NewTable copies records, assigning each its row position as ID.
func NewTable(records []Record) *Table {
	t := &Table{
		records: make([]Record, len(records)),
		byYear:  make(map[int][]int),
	}

	for i, r := range records {
		r.ID = i
		t.records[i] = r
		if _, seen := t.byYear[r.Year]; !seen {
			t.years = append(t.years, r.Year)
		}
		t.byYear[r.Year] = append(t.byYear[r.Year], i)
	}

	return t
}

func (t *Table) Len() int {
	return len(t.records)
}

func (t *Table) Records() []Record {
	return slices.Clone(t.records)
}

// Years returns the distinct years in first-occurrence order.
func (t *Table) Years() []int {
	return slices.Clone(t.years)
}

func (t *Table) HasYear(year int) bool {
	_, ok := t.byYear[year]
	return ok
}

// ForYear returns the year's records in table order.
func (t *Table) ForYear(year int) []Record {
	idx := t.byYear[year]
	out := make([]Record, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.records[i])
	}
	return out
}

func (t *Table) Player(id int) (Record, bool) {
	if id < 0 || id >= len(t.records) {
		return Record{}, false
	}
	return t.records[id], true
}

func ValidateYear(v *validator.Validator, t *Table, year *int) {
	if year == nil {
		v.AddError("year", "must be provided")
		return
	}
	v.Check(t.HasYear(*year), "year", "must be a year present in the data")
}

func ValidatePlayerID(v *validator.Validator, t *Table, id *int) {
	if id == nil {
		v.AddError("player_id", "must be provided")
		return
	}
	v.Check(*id >= 0, "player_id", "must not be negative")
	if _, ok := t.Player(*id); !ok {
		v.AddError("player_id", "must be a player present in the data")
	}
}

// Get is Player with ErrRecordNotFound for unknown ids.
func (t *Table) Get(id int) (Record, error) {
	r, ok := t.Player(id)
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return r, nil
}
