// Package view derives render-ready values from a weather snapshot. Every
// function here is pure; nothing is computed that the oracle did not supply.
package view

import (
	"time"
	"unicode/utf8"

	"github.com/i474232898/lunar-insights/internal/weather"
)

const maxSourceTitle = 30

type MoonView struct {
	Phase        string    `json:"phase"`
	Kind         MoonPhase `json:"kind"`
	Glyph        string    `json:"glyph"`
	Illumination float64   `json:"illumination"`
	Azimuth      float64   `json:"azimuth"`
	Altitude     float64   `json:"altitude"`
	Moonrise     string    `json:"moonrise"`
	Moonset      string    `json:"moonset"`
	Position     SkyPoint  `json:"position"`
}

type SkyChart struct {
	Canvas    Canvas          `json:"canvas"`
	Markers   []AzimuthMarker `json:"markers"`
	GridLines []AltitudeLine  `json:"gridLines"`
}

type FishingView struct {
	Majors []string `json:"majors"`
	Minors []string `json:"minors"`
	Rating Rating   `json:"rating"`
}

type TidePanel struct {
	Station string              `json:"station"`
	Events  []weather.TideEvent `json:"events"`
}

type SourceLink struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Dashboard is everything the render layer draws for one snapshot.
type Dashboard struct {
	LocationName   string                `json:"locationName"`
	Temperature    float64               `json:"temperature"`
	Humidity       float64               `json:"humidity"`
	Pressure       float64               `json:"pressure"`
	PressureTrend  weather.PressureTrend `json:"pressureTrend"`
	PressureDeltas []PressureDelta       `json:"pressureDeltas"`
	Condition      string                `json:"condition"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	Moon           MoonView              `json:"moon"`
	Sky            SkyChart              `json:"sky"`
	Wind           Compass               `json:"wind"`
	Fishing        FishingView           `json:"fishing"`
	Tides          *TidePanel            `json:"tides,omitempty"` // nil when there is no coastal data
	Sources        []SourceLink          `json:"sources"`
}

// Build derives the Dashboard for s on canvas c.
func Build(s weather.WeatherSnapshot, c Canvas) Dashboard {
	kind := ClassifyPhase(s.Moon.Phase)

	d := Dashboard{
		LocationName:   s.LocationName,
		Temperature:    s.Temperature,
		Humidity:       s.Humidity,
		Pressure:       s.Pressure,
		PressureTrend:  s.PressureTrend,
		PressureDeltas: ComputeDeltas(s.Pressure, s.PressureHistory),
		Condition:      s.Condition,
		UpdatedAt:      s.Timestamp,
		Moon: MoonView{
			Phase:        s.Moon.Phase,
			Kind:         kind,
			Glyph:        kind.Glyph(),
			Illumination: s.Moon.Illumination,
			Azimuth:      s.Moon.Azimuth,
			Altitude:     s.Moon.Altitude,
			Moonrise:     s.Moon.Moonrise,
			Moonset:      s.Moon.Moonset,
			Position:     c.Project(s.Moon.Azimuth, s.Moon.Altitude),
		},
		Sky: SkyChart{
			Canvas:    c,
			Markers:   c.Markers(),
			GridLines: c.GridLines(),
		},
		Wind: NewCompass(s.Wind),
		Fishing: FishingView{
			Majors: s.Fishing.Majors,
			Minors: s.Fishing.Minors,
			Rating: NewRating(s.Fishing.Rating),
		},
		Sources: make([]SourceLink, 0, len(s.Sources)),
	}

	if s.HasTides() {
		d.Tides = &TidePanel{Station: s.Tide.Station, Events: s.Tide.Events}
	}

	for _, src := range s.Sources {
		d.Sources = append(d.Sources, SourceLink{Title: truncate(src.Title, maxSourceTitle), URI: src.URI})
	}
	return d
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
