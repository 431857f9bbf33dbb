package view

import "github.com/i474232898/lunar-insights/internal/weather"

// Compass is what the wind glyph needs: a rotation and the oracle's labels.
// The cardinal label is never derived locally so it cannot disagree with the
// oracle's.
type Compass struct {
	RotationDegrees float64 `json:"rotationDegrees"`
	Cardinal        string  `json:"cardinal"`
	Speed           float64 `json:"speed"`
	Gust            float64 `json:"gust"`
}

// ProjectCompass returns the rotation for a wind direction, identity mapped.
func ProjectCompass(direction float64) float64 {
	return direction
}

func NewCompass(w weather.WindData) Compass {
	return Compass{
		RotationDegrees: ProjectCompass(w.Direction),
		Cardinal:        w.Cardinal,
		Speed:           w.Speed,
		Gust:            w.Gust,
	}
}
