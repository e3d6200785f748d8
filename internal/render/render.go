package render

import (
	"BattingNarrativeApi/internal/data"
	"BattingNarrativeApi/internal/scene"
	"BattingNarrativeApi/internal/stats"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var ErrNothingToDraw = errors.New("scene has no drawable values")

// Render computes the Frame for s over table.
func Render(s scene.State, table *data.Table) (Frame, error) {
	switch s.Kind() {
	case scene.PlayerDetail:
		player, _ := s.Player()
		return playerDetail(player), nil
	case scene.DrillDown:
		year, _ := s.Year()
		return drillDown(year, table.ForYear(year))
	default:
		return overview(table.Records())
	}
}

func overview(records []data.Record) (Frame, error) {
	aggs := stats.YearlyAverages(records)
	if len(aggs) == 0 {
		return Frame{}, ErrNothingToDraw
	}

	f := Frame{
		Scene:    scene.Overview,
		Title:    "League Batting Average by Year",
		Subtitle: "Select a year to see how its hitters swung",
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		XAxis:    Axis{Label: "Year"},
		YAxis:    Axis{Label: "Batting Average", Average: true},
	}

	top := 0.0
	for _, agg := range aggs {
		bar := Bar{
			Label:  strconv.Itoa(agg.Year),
			Value:  agg.AvgAVG,
			Text:   stats.FormatAverage(agg.AvgAVG),
			Target: yearTarget(agg.Year),
		}
		if math.IsNaN(agg.AvgAVG) || math.IsInf(agg.AvgAVG, 0) {
			bar.Value = 0
			bar.Missing = true
		}
		top = math.Max(top, bar.Value)
		f.Bars = append(f.Bars, bar)
	}

	f.YAxis.Max = top * 1.1
	if f.YAxis.Max == 0 {
		f.YAxis.Max = 1
	}

	return f, nil
}

func drillDown(year int, records []data.Record) (Frame, error) {
	summary, err := stats.SummarizeYear(records, year)
	if err != nil {
		return Frame{}, fmt.Errorf("year %d: %w", year, err)
	}

	f := Frame{
		Scene: scene.DrillDown,
		Title: fmt.Sprintf("Swing Rate vs Batting Average, %d", year),
		Subtitle: fmt.Sprintf("%d hitters, league average %s. Select a hitter for their hit mix",
			summary.Players, stats.FormatAverage(summary.AvgAVG)),
		Width:  DefaultWidth,
		Height: DefaultHeight,
		XAxis:  Axis{Label: "Swing %"},
		YAxis:  Axis{Label: "Batting Average", Average: true},
		Back:   &Target{Action: ActionBack},
	}
	f.XAxis.Min, f.XAxis.Max = padRange(summary.SwingRange.Min, summary.SwingRange.Max)
	f.YAxis.Min, f.YAxis.Max = padRange(summary.AvgRange.Min, summary.AvgRange.Max)

	for _, r := range records {
		if math.IsNaN(r.SwingPercent) || math.IsNaN(r.BattingAvg) {
			continue
		}
		f.Points = append(f.Points, Point{
			X:      r.SwingPercent,
			Y:      r.BattingAvg,
			Label:  r.FullName(),
			Target: playerTarget(r.ID),
		})
	}
	if len(f.Points) == 0 {
		return Frame{}, fmt.Errorf("year %d: %w", year, ErrNothingToDraw)
	}

	leaders := []struct {
		title string
		r     data.Record
		count int
	}{
		{"HR leader", summary.Leaders.HomeRun, summary.Leaders.HomeRun.HomeRun},
		{"BB leader", summary.Leaders.Walk, summary.Leaders.Walk.Walk},
		{"K leader", summary.Leaders.Strikeout, summary.Leaders.Strikeout.Strikeout},
	}
	for _, l := range leaders {
		if math.IsNaN(l.r.SwingPercent) || math.IsNaN(l.r.BattingAvg) {
			continue
		}
		f.Annotations = append(f.Annotations, Annotation{
			X:     l.r.SwingPercent,
			Y:     l.r.BattingAvg,
			Label: fmt.Sprintf("%s: %s (%d)", l.title, l.r.FullName(), l.count),
		})
	}

	return f, nil
}

func playerDetail(player data.Record) Frame {
	f := Frame{
		Scene: scene.PlayerDetail,
		Title: fmt.Sprintf("%s, %d: Hits by Type", player.FullName(), player.Year),
		Subtitle: fmt.Sprintf("AVG %s | OBP %s | SLG %s",
			stats.FormatAverage(player.BattingAvg),
			stats.FormatAverage(player.OnBasePercent),
			stats.FormatAverage(player.SlgPercent)),
		Width:  DefaultWidth,
		Height: DefaultHeight,
		XAxis:  Axis{Label: "Hit Type"},
		YAxis:  Axis{Label: "Hits"},
		Back:   &Target{Action: ActionBack},
	}

	top := 0.0
	for _, share := range stats.HitDistribution(player) {
		f.Bars = append(f.Bars, Bar{
			Label: share.Type.Label(),
			Value: float64(share.Count),
			Text:  fmt.Sprintf("%d (%s)", share.Count, share.Percent),
		})
		top = math.Max(top, float64(share.Count))
	}

	f.YAxis.Max = math.Ceil(top * 1.1)
	if f.YAxis.Max == 0 {
		f.YAxis.Max = 1
	}

	return f
}
