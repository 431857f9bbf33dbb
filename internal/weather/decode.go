package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var zipPattern = regexp.MustCompile(`^\d{5}`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validator exposes the shared validator (with the zipcode tag registered) to
// request binding code.
func Validator() *validator.Validate {
	return validate
}

func validateZip(code string) error {
	if err := validate.Var(code, "required,zipcode"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidZip, code)
	}
	return nil
}

// oracleResponse mirrors the oracle's JSON document. Pointers distinguish a
// missing field from a legitimate zero value.
type oracleResponse struct {
	LocationName    *string          `json:"locationName" validate:"required"`
	Temperature     *float64         `json:"temperature" validate:"required"`
	Humidity        *float64         `json:"humidity" validate:"required"`
	Pressure        *float64         `json:"pressure" validate:"required"`
	PressureTrend   *string          `json:"pressureTrend" validate:"required,oneof=rising falling steady"`
	PressureHistory *oracleHistory   `json:"pressureHistory" validate:"required"`
	Condition       *string          `json:"condition" validate:"required"`
	MoonData        *oracleMoon      `json:"moonData" validate:"required"`
	WindData        *oracleWind      `json:"windData" validate:"required"`
	FishingTimes    *oracleFishing   `json:"fishingTimes" validate:"required"`
	TideData        *oracleTideTable `json:"tideData"`
}

type oracleHistory struct {
	Past2h  *float64 `json:"past2h" validate:"required"`
	Past6h  *float64 `json:"past6h" validate:"required"`
	Past12h *float64 `json:"past12h" validate:"required"`
	Past24h *float64 `json:"past24h" validate:"required"`
}

type oracleMoon struct {
	Phase        *string  `json:"phase" validate:"required"`
	Illumination *float64 `json:"illumination" validate:"required"`
	Azimuth      *float64 `json:"azimuth" validate:"required"`
	Altitude     *float64 `json:"altitude" validate:"required"`
	Moonrise     *string  `json:"moonrise" validate:"required"`
	Moonset      *string  `json:"moonset" validate:"required"`
}

type oracleWind struct {
	Speed     *float64 `json:"speed" validate:"required"`
	Gust      *float64 `json:"gust" validate:"required"`
	Direction *float64 `json:"direction" validate:"required"`
	Cardinal  *string  `json:"cardinal" validate:"required"`
}

type oracleFishing struct {
	Majors []string `json:"majors" validate:"required"`
	Minors []string `json:"minors" validate:"required"`
	Rating *string  `json:"rating" validate:"required"`
}

type oracleTideTable struct {
	Station string            `json:"station"`
	Events  []oracleTideEvent `json:"events" validate:"dive"`
}

type oracleTideEvent struct {
	Type   string `json:"type" validate:"oneof=High Low"`
	Time   string `json:"time"`
	Height string `json:"height"`
}

// DecodeSnapshot parses and validates an oracle answer and builds the
// immutable snapshot from it. capturedAt becomes the snapshot timestamp; the
// oracle never assigns one.
func DecodeSnapshot(body []byte, sources []Source, capturedAt time.Time) (WeatherSnapshot, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return WeatherSnapshot{}, fmt.Errorf("%w: empty body", ErrOracleResponseInvalid)
	}

	var raw oracleResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return WeatherSnapshot{}, fmt.Errorf("%w: %v", ErrOracleResponseInvalid, err)
	}

	canonicalize(&raw)

	if err := validate.Struct(raw); err != nil {
		return WeatherSnapshot{}, fmt.Errorf("%w: %v", ErrOracleResponseInvalid, err)
	}

	return raw.toSnapshot(sources, capturedAt), nil
}

// canonicalize fixes casing the oracle is loose about before validation.
func canonicalize(raw *oracleResponse) {
	if raw.PressureTrend != nil {
		t := strings.ToLower(strings.TrimSpace(*raw.PressureTrend))
		raw.PressureTrend = &t
	}
	if raw.TideData == nil {
		return
	}
	for i := range raw.TideData.Events {
		ev := &raw.TideData.Events[i]
		switch strings.ToLower(strings.TrimSpace(ev.Type)) {
		case "high":
			ev.Type = string(TideHigh)
		case "low":
			ev.Type = string(TideLow)
		}
	}
}

func (r oracleResponse) toSnapshot(sources []Source, capturedAt time.Time) WeatherSnapshot {
	snap := WeatherSnapshot{
		LocationName:  *r.LocationName,
		Temperature:   *r.Temperature,
		Humidity:      clamp(*r.Humidity, 0, 100),
		Pressure:      *r.Pressure,
		PressureTrend: PressureTrend(*r.PressureTrend),
		PressureHistory: PressureHistory{
			Past2h:  *r.PressureHistory.Past2h,
			Past6h:  *r.PressureHistory.Past6h,
			Past12h: *r.PressureHistory.Past12h,
			Past24h: *r.PressureHistory.Past24h,
		},
		Condition: *r.Condition,
		Timestamp: capturedAt.UTC(),
		Moon: MoonData{
			Phase:        *r.MoonData.Phase,
			Illumination: clamp(*r.MoonData.Illumination, 0, 100),
			Azimuth:      WrapDegrees(*r.MoonData.Azimuth),
			Altitude:     clamp(*r.MoonData.Altitude, -90, 90),
			Moonrise:     *r.MoonData.Moonrise,
			Moonset:      *r.MoonData.Moonset,
		},
		Wind: WindData{
			Speed:     *r.WindData.Speed,
			Gust:      *r.WindData.Gust,
			Direction: WrapDegrees(*r.WindData.Direction),
			Cardinal:  *r.WindData.Cardinal,
		},
		Fishing: FishingTimes{
			Majors: append([]string(nil), r.FishingTimes.Majors...),
			Minors: append([]string(nil), r.FishingTimes.Minors...),
			Rating: *r.FishingTimes.Rating,
		},
		Sources: normalizeSources(sources),
	}

	if r.TideData != nil {
		tide := &TideData{Station: r.TideData.Station}
		for _, ev := range r.TideData.Events {
			tide.Events = append(tide.Events, TideEvent{
				Type:   TideType(ev.Type),
				Time:   ev.Time,
				Height: ev.Height,
			})
		}
		snap.Tide = tide
	}

	return snap
}

func normalizeSources(in []Source) []Source {
	out := make([]Source, 0, len(in))
	for _, s := range in {
		if s.Title == "" {
			s.Title = "Search Source"
		}
		if s.URI == "" {
			s.URI = "#"
		}
		out = append(out, s)
	}
	return out
}

// WrapDegrees folds an angle into [0,360). NaN and infinities map to 0.
func WrapDegrees(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -1e-15 + 360 rounds to 360.
	if deg >= 360 {
		deg = 0
	}
	return deg
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
