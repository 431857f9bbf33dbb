package weather

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{
  "locationName": "Beverly Hills, CA",
  "temperature": 0,
  "humidity": 55,
  "pressure": 29.95,
  "pressureTrend": "Falling",
  "pressureHistory": {"past2h": 30.00, "past6h": 29.98, "past12h": 29.90, "past24h": 29.95},
  "condition": "Clear",
  "moonData": {"phase": "Waxing Gibbous", "illumination": 78, "azimuth": 360, "altitude": 42.5,
               "moonrise": "2:14 PM", "moonset": "3:02 AM"},
  "windData": {"speed": 8, "gust": 14, "direction": 22.5, "cardinal": "NNE"},
  "fishingTimes": {"majors": ["6:10 AM - 8:10 AM", "6:35 PM - 8:35 PM"], "minors": [], "rating": "Good"},
  "tideData": {"station": "Santa Monica", "events": [
    {"type": "high", "time": "5:42 AM", "height": "4.9 ft"},
    {"type": "Low", "time": "12:03 PM", "height": "0.8 ft"}
  ]}
}`

func TestDecodeSnapshot(t *testing.T) {
	captured := time.Date(2026, 10, 18, 12, 0, 0, 0, time.FixedZone("PDT", -7*3600))

	snap, err := DecodeSnapshot([]byte(validBody), []Source{{Title: "NOAA", URI: "https://noaa.gov"}, {}}, captured)
	require.NoError(t, err)

	assert.Equal(t, "Beverly Hills, CA", snap.LocationName)
	assert.Equal(t, 0.0, snap.Temperature, "zero is a legitimate reading")
	assert.Equal(t, PressureFalling, snap.PressureTrend)
	assert.Equal(t, 30.00, snap.PressureHistory.Past2h)
	assert.Equal(t, 0.0, snap.Moon.Azimuth, "360 wraps to 0")
	assert.Equal(t, "NNE", snap.Wind.Cardinal)
	assert.Empty(t, snap.Fishing.Minors)
	assert.Equal(t, captured.UTC(), snap.Timestamp)

	require.True(t, snap.HasTides())
	assert.Equal(t, TideHigh, snap.Tide.Events[0].Type)
	assert.Equal(t, TideLow, snap.Tide.Events[1].Type)

	require.Len(t, snap.Sources, 2)
	assert.Equal(t, Source{Title: "Search Source", URI: "#"}, snap.Sources[1])
}

func TestDecodeSnapshotWithoutTides(t *testing.T) {
	body := `{"locationName":"Denver","temperature":50,"humidity":20,"pressure":30.1,"pressureTrend":"steady",
	"pressureHistory":{"past2h":30.1,"past6h":30.1,"past12h":30.0,"past24h":29.9},"condition":"Sunny",
	"moonData":{"phase":"New Moon","illumination":140,"azimuth":-30,"altitude":-120,"moonrise":"","moonset":""},
	"windData":{"speed":0,"gust":0,"direction":0,"cardinal":"N"},
	"fishingTimes":{"majors":[],"minors":[],"rating":"Poor"},"tideData":null}`

	snap, err := DecodeSnapshot([]byte(body), nil, time.Now())
	require.NoError(t, err)

	assert.False(t, snap.HasTides())
	assert.Nil(t, snap.Tide)
	assert.Equal(t, 100.0, snap.Moon.Illumination)
	assert.Equal(t, 330.0, snap.Moon.Azimuth)
	assert.Equal(t, -90.0, snap.Moon.Altitude)
	assert.NotNil(t, snap.Sources)
}

func TestDecodeSnapshotRejects(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"whitespace":      "  \n ",
		"malformed":       `{"locationName": `,
		"missing moon":    `{"locationName":"x","temperature":1,"humidity":1,"pressure":1,"pressureTrend":"steady","pressureHistory":{"past2h":1,"past6h":1,"past12h":1,"past24h":1},"condition":"x","windData":{"speed":1,"gust":1,"direction":1,"cardinal":"N"},"fishingTimes":{"majors":[],"minors":[],"rating":"Good"}}`,
		"bad trend":       `{"locationName":"x","temperature":1,"humidity":1,"pressure":1,"pressureTrend":"sideways","pressureHistory":{"past2h":1,"past6h":1,"past12h":1,"past24h":1},"condition":"x","moonData":{"phase":"x","illumination":1,"azimuth":1,"altitude":1,"moonrise":"","moonset":""},"windData":{"speed":1,"gust":1,"direction":1,"cardinal":"N"},"fishingTimes":{"majors":[],"minors":[],"rating":"Good"}}`,
		"bad tide type":   `{"locationName":"x","temperature":1,"humidity":1,"pressure":1,"pressureTrend":"steady","pressureHistory":{"past2h":1,"past6h":1,"past12h":1,"past24h":1},"condition":"x","moonData":{"phase":"x","illumination":1,"azimuth":1,"altitude":1,"moonrise":"","moonset":""},"windData":{"speed":1,"gust":1,"direction":1,"cardinal":"N"},"fishingTimes":{"majors":[],"minors":[],"rating":"Good"},"tideData":{"station":"s","events":[{"type":"Slack","time":"1","height":"1"}]}}`,
		"missing majors":  `{"locationName":"x","temperature":1,"humidity":1,"pressure":1,"pressureTrend":"steady","pressureHistory":{"past2h":1,"past6h":1,"past12h":1,"past24h":1},"condition":"x","moonData":{"phase":"x","illumination":1,"azimuth":1,"altitude":1,"moonrise":"","moonset":""},"windData":{"speed":1,"gust":1,"direction":1,"cardinal":"N"},"fishingTimes":{"minors":[],"rating":"Good"}}`,
		"partial history": `{"locationName":"x","temperature":1,"humidity":1,"pressure":1,"pressureTrend":"steady","pressureHistory":{"past2h":1},"condition":"x","moonData":{"phase":"x","illumination":1,"azimuth":1,"altitude":1,"moonrise":"","moonset":""},"windData":{"speed":1,"gust":1,"direction":1,"cardinal":"N"},"fishingTimes":{"majors":[],"minors":[],"rating":"Good"}}`,
		"json array body": `[]`,
		"json null":       `null`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(body), nil, time.Now())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrOracleResponseInvalid), "got %v", err)
		})
	}
}

func TestWrapDegrees(t *testing.T) {
	assert.Equal(t, 0.0, WrapDegrees(0))
	assert.Equal(t, 0.0, WrapDegrees(360))
	assert.Equal(t, 10.0, WrapDegrees(370))
	assert.Equal(t, 350.0, WrapDegrees(-10))
	assert.Equal(t, 359.5, WrapDegrees(359.5))
}
