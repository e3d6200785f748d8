// Package render turns a navigation state into drawing commands (a Frame) and draws
// Frames as SVG. Computing a Frame has no side effects, so scenes can be checked without a
// drawing surface.
package render

import (
	"BattingNarrativeApi/internal/scene"
	"math"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 500
)

type Action string

const (
	ActionSelectYear   Action = "select_year"
	ActionSelectPlayer Action = "select_player"
	ActionBack         Action = "back"
)

// Target is what a click on an element should do.
type Target struct {
	Action   Action `json:"action"`
	Year     *int   `json:"year,omitempty"`
	PlayerID *int   `json:"player_id,omitempty"`
}

type Axis struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	// Average formats ticks as batting averages (.300) instead of plain numbers.
	Average bool `json:"average"`
}

type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	// Missing marks a bar whose value could not be computed; Value is then 0.
	Missing bool    `json:"missing,omitempty"`
	Text    string  `json:"text"`
	Target  *Target `json:"target,omitempty"`
}

type Point struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Label  string  `json:"label"`
	Target *Target `json:"target,omitempty"`
}

type Annotation struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// Frame is the full description of one scene.
type Frame struct {
	Scene       scene.Kind   `json:"scene"`
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	XAxis       Axis         `json:"x_axis"`
	YAxis       Axis         `json:"y_axis"`
	Bars        []Bar        `json:"bars,omitempty"`
	Points      []Point      `json:"points,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Back        *Target      `json:"back,omitempty"`
}

func yearTarget(year int) *Target {
	return &Target{Action: ActionSelectYear, Year: &year}
}

func playerTarget(id int) *Target {
	return &Target{Action: ActionSelectPlayer, PlayerID: &id}
}

// padRange widens [min, max] by 5% each side, and by a fixed margin when min == max so a
// single value still spans the axis.
func padRange(min, max float64) (float64, float64) {
	span := max - min
	if span == 0 {
		pad := math.Max(math.Abs(min)*0.05, 0.01)
		return min - pad, max + pad
	}
	return min - span*0.05, max + span*0.05
}
