package data

import (
	"BattingNarrativeApi/internal/validator"
	"cmp"
	"math"
	"slices"
	"strings"
)

type Filters struct {
	Page         int
	PageSize     int
	Sort         string
	SortSafelist []string
}

type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records,omitempty"`
}

// RecordSortSafelist permits "id" and every record field, ascending or with a "-" prefix
// for descending.
func RecordSortSafelist() []string {
	safelist := []string{"id", "-id"}
	for _, f := range Fields() {
		safelist = append(safelist, string(f), "-"+string(f))
	}
	return safelist
}

func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(f.PageSize <= 100, "page_size", "must be a maximum of 100")
	v.Check(validator.PermittedValue(f.Sort, f.SortSafelist...), "sort", "invalid sort value")
}

func (f Filters) sortColumn() string {
	for _, safeValue := range f.SortSafelist {
		if f.Sort == safeValue {
			return strings.TrimPrefix(f.Sort, "-")
		}
	}

	panic("unsafe sort parameter: " + f.Sort)
}

func (f Filters) sortDirection() int {
	if strings.HasPrefix(f.Sort, "-") {
		return -1
	}
	return 1
}

func (f Filters) limit() int {
	return f.PageSize
}

func (f Filters) offset() int {
	return (f.Page - 1) * f.PageSize
}

func calculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}

	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     int(math.Ceil(float64(totalRecords) / float64(pageSize))),
		TotalRecords: totalRecords,
	}
}

// Paginate sorts records by the filter's column and returns one page. Ties keep table
// order and NaN values sort last in both directions.
func Paginate(records []Record, f Filters) ([]Record, Metadata) {
	sorted := slices.Clone(records)

	column := f.sortColumn()
	dir := f.sortDirection()
	if column == "id" {
		slices.SortStableFunc(sorted, func(a, b Record) int {
			return dir * cmp.Compare(a.ID, b.ID)
		})
	} else {
		get, _ := Field(column).Getter()
		slices.SortStableFunc(sorted, func(a, b Record) int {
			x, y := get(a), get(b)
			switch xn, yn := math.IsNaN(x), math.IsNaN(y); {
			case xn && yn:
				return 0
			case xn:
				return 1
			case yn:
				return -1
			}
			return dir * cmp.Compare(x, y)
		})
	}

	metadata := calculateMetadata(len(sorted), f.Page, f.PageSize)

	start := min(f.offset(), len(sorted))
	end := min(start+f.limit(), len(sorted))

	return sorted[start:end], metadata
}
