package data

import (
	"encoding/json"
	"math"
)

// Finite returns nil for NaN and infinities so they encode as JSON null.
func Finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	return json.Marshal(struct {
		alias
		BattingAvg    *float64 `json:"batting_avg"`
		SwingPercent  *float64 `json:"swing_percent"`
		KPercent      *float64 `json:"k_percent"`
		BBPercent     *float64 `json:"bb_percent"`
		SlgPercent    *float64 `json:"slg_percent"`
		OnBasePercent *float64 `json:"on_base_percent"`
		Name          string   `json:"name"`
	}{
		alias:         alias(r),
		BattingAvg:    Finite(r.BattingAvg),
		SwingPercent:  Finite(r.SwingPercent),
		KPercent:      Finite(r.KPercent),
		BBPercent:     Finite(r.BBPercent),
		SlgPercent:    Finite(r.SlgPercent),
		OnBasePercent: Finite(r.OnBasePercent),
		Name:          r.FullName(),
	})
}
