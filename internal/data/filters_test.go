package data

import (
	"BattingNarrativeApi/internal/assert"
	"BattingNarrativeApi/internal/validator"
	"math"
	"testing"
)

func filterTable() []Record {
	return NewTable([]Record{
		{Year: 2019, LastName: "A", BattingAvg: 0.250, HomeRun: 10},
		{Year: 2019, LastName: "B", BattingAvg: math.NaN(), HomeRun: 30},
		{Year: 2019, LastName: "C", BattingAvg: 0.300, HomeRun: 30},
		{Year: 2019, LastName: "D", BattingAvg: 0.200, HomeRun: 5},
	}).Records()
}

func lastNames(records []Record) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.LastName
	}
	return names
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		filters  Filters
		want     []string
		lastPage int
	}{
		{
			name:     "By id",
			filters:  Filters{Page: 1, PageSize: 10, Sort: "id"},
			want:     []string{"A", "B", "C", "D"},
			lastPage: 1,
		},
		{
			name:     "Descending average NaN last",
			filters:  Filters{Page: 1, PageSize: 10, Sort: "-batting_avg"},
			want:     []string{"C", "A", "D", "B"},
			lastPage: 1,
		},
		{
			name:     "Ascending average NaN last",
			filters:  Filters{Page: 1, PageSize: 10, Sort: "batting_avg"},
			want:     []string{"D", "A", "C", "B"},
			lastPage: 1,
		},
		{
			name:     "Ties keep table order",
			filters:  Filters{Page: 1, PageSize: 2, Sort: "-home_run"},
			want:     []string{"B", "C"},
			lastPage: 2,
		},
		{
			name:     "Second page",
			filters:  Filters{Page: 2, PageSize: 3, Sort: "id"},
			want:     []string{"D"},
			lastPage: 2,
		},
		{
			name:     "Past the end",
			filters:  Filters{Page: 5, PageSize: 3, Sort: "id"},
			want:     []string{},
			lastPage: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filters.SortSafelist = RecordSortSafelist()
			page, meta := Paginate(filterTable(), tt.filters)
			assert.StringSliceEqual(t, lastNames(page), tt.want)
			assert.Equal(t, meta.LastPage, tt.lastPage)
			assert.Equal(t, meta.TotalRecords, 4)
		})
	}
}

func TestValidateFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		errKey  string
	}{
		{"Valid", Filters{Page: 1, PageSize: 20, Sort: "-home_run"}, ""},
		{"Zero page", Filters{Page: 0, PageSize: 20, Sort: "id"}, "page"},
		{"Large page size", Filters{Page: 1, PageSize: 101, Sort: "id"}, "page_size"},
		{"Unknown sort", Filters{Page: 1, PageSize: 20, Sort: "salary"}, "sort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filters.SortSafelist = RecordSortSafelist()
			v := validator.New()
			ValidateFilters(v, tt.filters)
			if tt.errKey == "" {
				assert.Equal(t, v.Valid(), true)
				return
			}
			_, ok := v.Errors[tt.errKey]
			assert.Equal(t, ok, true)
		})
	}
}
