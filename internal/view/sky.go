package view

import "math"

// Canvas is the logical drawing area of the moon position chart.
type Canvas struct {
	Width     float64 `json:"width"`     // pixels spanning azimuth 0..360
	Height    float64 `json:"height"`    // total chart height including ground
	HorizonY  float64 `json:"horizonY"`  // y of altitude 0
	SkyExtent float64 `json:"skyExtent"` // pixels per 90° of altitude
}

// DefaultCanvas matches the 400x150 horizon chart.
var DefaultCanvas = Canvas{Width: 400, Height: 150, HorizonY: 110, SkyExtent: 90}

// SkyPoint is a projected position on the chart.
type SkyPoint struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	BelowHorizon bool    `json:"belowHorizon"`
}

// Project maps azimuth/altitude to chart coordinates. Azimuth 0 and 360 are
// both valid and land on the left and right edges. Out-of-range or NaN input
// is clamped, never rejected.
func (c Canvas) Project(azimuth, altitude float64) SkyPoint {
	azimuth = clampFinite(azimuth, 0, 360)
	altitude = clampFinite(altitude, -90, 90)

	return SkyPoint{
		X:            azimuth / 360 * c.Width,
		Y:            c.HorizonY - altitude/90*c.SkyExtent,
		BelowHorizon: altitude < 0,
	}
}

// AzimuthMarker is a labelled vertical guide on the chart.
type AzimuthMarker struct {
	Label   string  `json:"label"`
	Degrees float64 `json:"degrees"`
	X       float64 `json:"x"`
}

// AltitudeLine is a labelled horizontal guide on the chart.
type AltitudeLine struct {
	Degrees float64 `json:"degrees"`
	Y       float64 `json:"y"`
}

// Markers returns the N/E/S/W guides, with north drawn on both edges.
func (c Canvas) Markers() []AzimuthMarker {
	dirs := []struct {
		label string
		deg   float64
	}{{"N", 0}, {"E", 90}, {"S", 180}, {"W", 270}, {"N", 360}}

	out := make([]AzimuthMarker, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, AzimuthMarker{Label: d.label, Degrees: d.deg, X: c.Project(d.deg, 0).X})
	}
	return out
}

// GridLines returns the 30° and 60° altitude guides.
func (c Canvas) GridLines() []AltitudeLine {
	return []AltitudeLine{
		{Degrees: 30, Y: c.Project(0, 30).Y},
		{Degrees: 60, Y: c.Project(0, 60).Y},
	}
}

func clampFinite(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return lo
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
