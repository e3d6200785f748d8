package stats

import (
	"BattingNarrativeApi/internal/data"
	"encoding/json"
)

// Leaders holds the annotated leaders of a drill-down year.
type Leaders struct {
	HomeRun   data.Record `json:"home_run"`
	Walk      data.Record `json:"walk"`
	Strikeout data.Record `json:"strikeout"`
}

func FindLeaders(records []data.Record) (Leaders, error) {
	var (
		l   Leaders
		err error
	)

	if l.HomeRun, err = MaxBy(records, data.FieldHomeRun); err != nil {
		return Leaders{}, err
	}
	if l.Walk, err = MaxBy(records, data.FieldWalk); err != nil {
		return Leaders{}, err
	}
	if l.Strikeout, err = MaxBy(records, data.FieldStrikeout); err != nil {
		return Leaders{}, err
	}

	return l, nil
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// YearSummary is everything the drill-down scene needs about one year.
type YearSummary struct {
	Year       int     `json:"year"`
	Players    int     `json:"players"`
	AvgAVG     float64 `json:"avg_avg"`
	SwingRange Range   `json:"swing_percent"`
	AvgRange   Range   `json:"batting_avg"`
	Leaders    Leaders `json:"leaders"`
}

func (s YearSummary) MarshalJSON() ([]byte, error) {
	type alias YearSummary
	return json.Marshal(struct {
		alias
		AvgAVG *float64 `json:"avg_avg"`
	}{alias(s), data.Finite(s.AvgAVG)})
}

// SummarizeYear aggregates the records of year. It returns ErrEmptySubset when the year has
// no records or no plottable values.
func SummarizeYear(records []data.Record, year int) (YearSummary, error) {
	subset := ForYear(records, year)

	mean, err := Mean(subset, data.FieldBattingAvg)
	if err != nil {
		return YearSummary{}, err
	}

	s := YearSummary{Year: year, Players: len(subset), AvgAVG: mean}

	if s.SwingRange.Min, s.SwingRange.Max, err = Extent(subset, data.FieldSwingPercent); err != nil {
		return YearSummary{}, err
	}
	if s.AvgRange.Min, s.AvgRange.Max, err = Extent(subset, data.FieldBattingAvg); err != nil {
		return YearSummary{}, err
	}
	if s.Leaders, err = FindLeaders(subset); err != nil {
		return YearSummary{}, err
	}

	return s, nil
}

type HitType string

const (
	HitSingle  HitType = "single"
	HitDouble  HitType = "double"
	HitTriple  HitType = "triple"
	HitHomeRun HitType = "home_run"
)

// HitShare is one slice of a player's hit-type distribution.
type HitShare struct {
	Type    HitType `json:"type"`
	Count   int     `json:"count"`
	Share   float64 `json:"share"`
	Percent string  `json:"percent"`
}

// HitDistribution splits a player's hits by type. Shares are 0 for a player without hits.
func HitDistribution(r data.Record) []HitShare {
	shares := []HitShare{
		{Type: HitSingle, Count: r.Single},
		{Type: HitDouble, Count: r.Double},
		{Type: HitTriple, Count: r.Triple},
		{Type: HitHomeRun, Count: r.HomeRun},
	}

	total := r.Single + r.Double + r.Triple + r.HomeRun
	for i := range shares {
		if total > 0 {
			shares[i].Share = float64(shares[i].Count) / float64(total)
		}
		shares[i].Percent = float64ToPercent(shares[i].Share)
	}

	return shares
}

func (h HitType) Label() string {
	switch h {
	case HitSingle:
		return "Singles"
	case HitDouble:
		return "Doubles"
	case HitTriple:
		return "Triples"
	case HitHomeRun:
		return "Home Runs"
	default:
		return string(h)
	}
}
