package view

import (
	"fmt"
	"math"

	"github.com/i474232898/lunar-insights/internal/weather"
)

// Direction classifies a pressure delta.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Steady  Direction = "steady"
)

// PressureDelta compares the current reading with one historical reading.
type PressureDelta struct {
	Label     string    `json:"label"`
	Value     float64   `json:"value"` // historical reading, inHg
	Delta     float64   `json:"delta"` // current - value, rounded to 0.01
	Direction Direction `json:"direction"`
	Text      string    `json:"text"` // "+0.05", "-0.05" or "0.00"
}

// ComputeDeltas returns one PressureDelta per historical reading, newest
// first. The delta is rounded before it is classified so values that round
// to zero are always Steady.
func ComputeDeltas(current float64, history weather.PressureHistory) []PressureDelta {
	points := []struct {
		label string
		value float64
	}{
		{"2h ago", history.Past2h},
		{"6h ago", history.Past6h},
		{"12h ago", history.Past12h},
		{"24h ago", history.Past24h},
	}

	out := make([]PressureDelta, 0, len(points))
	for _, p := range points {
		delta := roundHundredths(current - p.value)
		d := PressureDelta{Label: p.label, Value: p.value, Delta: delta}
		switch {
		case delta > 0:
			d.Direction = Rising
			d.Text = fmt.Sprintf("+%.2f", delta)
		case delta < 0:
			d.Direction = Falling
			d.Text = fmt.Sprintf("%.2f", delta)
		default:
			d.Direction = Steady
			d.Text = "0.00"
		}
		out = append(out, d)
	}
	return out
}

func roundHundredths(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		// Drop the sign of negative zero.
		return 0
	}
	return r
}
