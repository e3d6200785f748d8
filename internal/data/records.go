package data

import (
	"errors"
	"fmt"
)

var ErrUnknownField = errors.New("unknown field")

// Record is one player's season batting line.
type Record struct {
	ID            int     `json:"id"`
	Year          int     `json:"year"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	AtBats        int     `json:"ab"`
	PlateApps     int     `json:"pa"`
	BattingAvg    float64 `json:"batting_avg"`
	SwingPercent  float64 `json:"swing_percent"`
	KPercent      float64 `json:"k_percent"`
	BBPercent     float64 `json:"bb_percent"`
	SlgPercent    float64 `json:"slg_percent"`
	OnBasePercent float64 `json:"on_base_percent"`
	HomeRun       int     `json:"home_run"`
	Walk          int     `json:"walk"`
	Strikeout     int     `json:"strikeout"`
	Single        int     `json:"single"`
	Double        int     `json:"double"`
	Triple        int     `json:"triple"`
}

func (r Record) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
	}
}

// Field names a numeric column of a Record. Names match the CSV headers.
type Field string

const (
	FieldBattingAvg    Field = "batting_avg"
	FieldSwingPercent  Field = "swing_percent"
	FieldKPercent      Field = "k_percent"
	FieldBBPercent     Field = "bb_percent"
	FieldSlgPercent    Field = "slg_percent"
	FieldOnBasePercent Field = "on_base_percent"
	FieldHomeRun       Field = "home_run"
	FieldWalk          Field = "walk"
	FieldStrikeout     Field = "strikeout"
	FieldSingle        Field = "single"
	FieldDouble        Field = "double"
	FieldTriple        Field = "triple"
	FieldAtBats        Field = "ab"
	FieldPlateApps     Field = "pa"
)

var fieldGetters = map[Field]func(r Record) float64{
	FieldBattingAvg:    func(r Record) float64 { return r.BattingAvg },
	FieldSwingPercent:  func(r Record) float64 { return r.SwingPercent },
	FieldKPercent:      func(r Record) float64 { return r.KPercent },
	FieldBBPercent:     func(r Record) float64 { return r.BBPercent },
	FieldSlgPercent:    func(r Record) float64 { return r.SlgPercent },
	FieldOnBasePercent: func(r Record) float64 { return r.OnBasePercent },
	FieldHomeRun:       func(r Record) float64 { return float64(r.HomeRun) },
	FieldWalk:          func(r Record) float64 { return float64(r.Walk) },
	FieldStrikeout:     func(r Record) float64 { return float64(r.Strikeout) },
	FieldSingle:        func(r Record) float64 { return float64(r.Single) },
	FieldDouble:        func(r Record) float64 { return float64(r.Double) },
	FieldTriple:        func(r Record) float64 { return float64(r.Triple) },
	FieldAtBats:        func(r Record) float64 { return float64(r.AtBats) },
	FieldPlateApps:     func(r Record) float64 { return float64(r.PlateApps) },
}

func (f Field) Valid() bool {
	_, ok := fieldGetters[f]
	return ok
}

// Getter returns the accessor for f, or ErrUnknownField.
func (f Field) Getter() (func(r Record) float64, error) {
	get, ok := fieldGetters[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return get, nil
}

func (r Record) Value(f Field) (float64, error) {
	get, err := f.Getter()
	if err != nil {
		return 0, err
	}
	return get(r), nil
}

// Fields lists every numeric field in CSV column order.
func Fields() []Field {
	return []Field{
		FieldAtBats, FieldPlateApps, FieldBattingAvg, FieldSwingPercent, FieldKPercent,
		FieldBBPercent, FieldSlgPercent, FieldOnBasePercent, FieldHomeRun, FieldWalk,
		FieldStrikeout, FieldSingle, FieldDouble, FieldTriple,
	}
}
