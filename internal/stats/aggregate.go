package stats

import (
	"BattingNarrativeApi/internal/data"
	"encoding/json"
	"errors"
	"math"
)

var ErrEmptySubset = errors.New("no numeric values in subset")

// YearAggregate is the league mean batting average for one year.
type YearAggregate struct {
	Year    int     `json:"year"`
	AvgAVG  float64 `json:"avg_avg"`
	Players int     `json:"players"`
}

func (y YearAggregate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year    int      `json:"year"`
		AvgAVG  *float64 `json:"avg_avg"`
		Players int      `json:"players"`
	}{y.Year, data.Finite(y.AvgAVG), y.Players})
}

// YearlyAverages returns one entry per distinct year in first-occurrence order. A NaN
// batting average poisons its year's mean.
func YearlyAverages(records []data.Record) []YearAggregate {
	index := make(map[int]int)
	sums := make([]float64, 0)
	out := make([]YearAggregate, 0)

	for _, r := range records {
		i, seen := index[r.Year]
		if !seen {
			i = len(out)
			index[r.Year] = i
			out = append(out, YearAggregate{Year: r.Year})
			sums = append(sums, 0)
		}
		sums[i] += r.BattingAvg
		out[i].Players++
	}

	for i := range out {
		out[i].AvgAVG = sums[i] / float64(out[i].Players)
	}

	return out
}

// ForYear filters records to one year, keeping table order.
func ForYear(records []data.Record, year int) []data.Record {
	out := make([]data.Record, 0)
	for _, r := range records {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

// Mean is the arithmetic mean of field. NaN values propagate.
func Mean(records []data.Record, field data.Field) (float64, error) {
	get, err := field.Getter()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, ErrEmptySubset
	}

	var sum float64
	for _, r := range records {
		sum += get(r)
	}

	return sum / float64(len(records)), nil
}

// Extent returns the minimum and maximum of field, ignoring NaN and infinite values.
func Extent(records []data.Record, field data.Field) (min, max float64, err error) {
	get, err := field.Getter()
	if err != nil {
		return 0, 0, err
	}

	found := false
	for _, r := range records {
		v := get(r)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !found {
			min, max, found = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if !found {
		return 0, 0, ErrEmptySubset
	}

	return min, max, nil
}

// MaxBy returns the record with the largest field value. Ties go to the earliest record and
// non-finite values never win.
func MaxBy(records []data.Record, field data.Field) (data.Record, error) {
	get, err := field.Getter()
	if err != nil {
		return data.Record{}, err
	}

	best := -1
	var bestValue float64
	for i, r := range records {
		v := get(r)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if best == -1 || v > bestValue {
			best, bestValue = i, v
		}
	}

	if best == -1 {
		return data.Record{}, ErrEmptySubset
	}

	return records[best], nil
}
