package render

import (
	"BattingNarrativeApi/internal/stats"
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	barColor     = drawing.ColorFromHex("1f77b4")
	missingColor = drawing.ColorFromHex("c7c7c7")
	pointColor   = drawing.ColorFromHex("ff7f0e")
	canvasColor  = drawing.ColorFromHex("fafafa")
)

// SVG draws f as an SVG document.
func SVG(f Frame) ([]byte, error) {
	var buf bytes.Buffer

	var err error
	switch {
	case len(f.Bars) > 0:
		err = barChart(f).Render(chart.SVG, &buf)
	case len(f.Points) > 0:
		err = scatterChart(f).Render(chart.SVG, &buf)
	default:
		return nil, ErrNothingToDraw
	}
	if err != nil {
		return nil, fmt.Errorf("drawing %s: %w", f.Scene, err)
	}

	return buf.Bytes(), nil
}

func title(f Frame) string {
	if f.Subtitle == "" {
		return f.Title
	}
	return f.Title + " (" + f.Subtitle + ")"
}

func formatter(a Axis) chart.ValueFormatter {
	if a.Average {
		return func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return stats.FormatAverage(f)
			}
			return ""
		}
	}
	return chart.FloatValueFormatter
}

func barChart(f Frame) chart.BarChart {
	slot := (f.Width - 120) / len(f.Bars)
	barWidth := max(slot*7/10, 1)
	spacing := max(slot-barWidth, 1)

	bars := make([]chart.Value, 0, len(f.Bars))
	for _, b := range f.Bars {
		color := barColor
		if b.Missing {
			color = missingColor
		}
		bars = append(bars, chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}

	return chart.BarChart{
		Title:      title(f),
		Width:      f.Width,
		Height:     f.Height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: canvasColor,
		},
		YAxis: chart.YAxis{
			Name:           f.YAxis.Label,
			Range:          &chart.ContinuousRange{Min: f.YAxis.Min, Max: f.YAxis.Max},
			ValueFormatter: formatter(f.YAxis),
		},
		Bars: bars,
	}
}

func scatterChart(f Frame) chart.Chart {
	xs := make([]float64, 0, len(f.Points))
	ys := make([]float64, 0, len(f.Points))
	for _, p := range f.Points {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Hitters",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    pointColor,
			},
		},
	}

	if len(f.Annotations) > 0 {
		notes := make([]chart.Value2, 0, len(f.Annotations))
		for _, a := range f.Annotations {
			notes = append(notes, chart.Value2{XValue: a.X, YValue: a.Y, Label: a.Label})
		}
		series = append(series, chart.AnnotationSeries{Annotations: notes})
	}

	return chart.Chart{
		Title:  title(f),
		Width:  f.Width,
		Height: f.Height,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: canvasColor,
		},
		XAxis: chart.XAxis{
			Name:           f.XAxis.Label,
			Range:          &chart.ContinuousRange{Min: f.XAxis.Min, Max: f.XAxis.Max},
			ValueFormatter: formatter(f.XAxis),
		},
		YAxis: chart.YAxis{
			Name:           f.YAxis.Label,
			Range:          &chart.ContinuousRange{Min: f.YAxis.Min, Max: f.YAxis.Max},
			ValueFormatter: formatter(f.YAxis),
		},
		Series: series,
	}
}
