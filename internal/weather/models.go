package weather

import (
	"fmt"
	"strings"
	"time"
)

// PressureTrend is the oracle's own classification of the recent barometric trend.
type PressureTrend string

const (
	PressureRising  PressureTrend = "rising"
	PressureFalling PressureTrend = "falling"
	PressureSteady  PressureTrend = "steady"
)

// TideType tags a tide event as a high or low water mark.
type TideType string

const (
	TideHigh TideType = "High"
	TideLow  TideType = "Low"
)

// QueryKind discriminates the two shapes of LocationQuery.
type QueryKind string

const (
	QueryCoords QueryKind = "coords"
	QueryZip    QueryKind = "zip"
)

// LocationQuery identifies the place an oracle request is for.
// Construct it with NewCoordsQuery or NewZipQuery; the zero value is not a valid query.
type LocationQuery struct {
	kind QueryKind
	lat  float64
	lng  float64
	zip  string
}

// NewCoordsQuery builds a query for a latitude/longitude pair.
func NewCoordsQuery(lat, lng float64) LocationQuery {
	return LocationQuery{kind: QueryCoords, lat: lat, lng: lng}
}

// NewZipQuery builds a query for a postal code. The code is trimmed and must
// start with at least five digits.
func NewZipQuery(code string) (LocationQuery, error) {
	code = strings.TrimSpace(code)
	if err := validateZip(code); err != nil {
		return LocationQuery{}, err
	}
	return LocationQuery{kind: QueryZip, zip: code}, nil
}

func (q LocationQuery) Kind() QueryKind { return q.kind }

// Coords returns the coordinates and true for a coords query.
func (q LocationQuery) Coords() (lat, lng float64, ok bool) {
	return q.lat, q.lng, q.kind == QueryCoords
}

// Zip returns the postal code and true for a zip query.
func (q LocationQuery) Zip() (string, bool) {
	return q.zip, q.kind == QueryZip
}

// Describe renders the query the way it is phrased to the oracle.
func (q LocationQuery) Describe() string {
	switch q.kind {
	case QueryZip:
		return "ZIP code " + q.zip
	case QueryCoords:
		return fmt.Sprintf("coordinates %g, %g", q.lat, q.lng)
	default:
		return "unknown location"
	}
}

// PressureHistory holds barometric readings (inHg) taken before the current one.
type PressureHistory struct {
	Past2h  float64 `json:"past2h"`
	Past6h  float64 `json:"past6h"`
	Past12h float64 `json:"past12h"`
	Past24h float64 `json:"past24h"`
}

type MoonData struct {
	Phase        string  `json:"phase"`
	Illumination float64 `json:"illumination"` // percent
	Azimuth      float64 `json:"azimuth"`      // degrees, [0,360)
	Altitude     float64 `json:"altitude"`     // degrees, [-90,90]
	Moonrise     string  `json:"moonrise"`
	Moonset      string  `json:"moonset"`
}

type WindData struct {
	Speed     float64 `json:"speed"` // mph
	Gust      float64 `json:"gust"`  // mph
	Direction float64 `json:"direction"`
	Cardinal  string  `json:"cardinal"`
}

// FishingTimes carries the solunar activity windows as display strings.
type FishingTimes struct {
	Majors []string `json:"majors"`
	Minors []string `json:"minors"`
	Rating string   `json:"rating"`
}

type TideEvent struct {
	Type   TideType `json:"type"`
	Time   string   `json:"time"`
	Height string   `json:"height"`
}

type TideData struct {
	Station string      `json:"station"`
	Events  []TideEvent `json:"events"`
}

// Source is a provenance link returned alongside an oracle answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// WeatherSnapshot is one normalized oracle answer. It is never mutated after
// DecodeSnapshot returns it.
type WeatherSnapshot struct {
	LocationName    string          `json:"locationName"`
	Temperature     float64         `json:"temperature"` // °F
	Humidity        float64         `json:"humidity"`    // percent
	Pressure        float64         `json:"pressure"`    // inHg
	PressureTrend   PressureTrend   `json:"pressureTrend"`
	PressureHistory PressureHistory `json:"pressureHistory"`
	Condition       string          `json:"condition"`
	Timestamp       time.Time       `json:"timestamp"` // capture time, always UTC
	Moon            MoonData        `json:"moonData"`
	Wind            WindData        `json:"windData"`
	Fishing         FishingTimes    `json:"fishingTimes"`
	Tide            *TideData       `json:"tideData,omitempty"`
	Sources         []Source        `json:"sources"`
}

// HasTides reports whether the snapshot carries any coastal tide events.
func (s WeatherSnapshot) HasTides() bool {
	return s.Tide != nil && len(s.Tide.Events) > 0
}
