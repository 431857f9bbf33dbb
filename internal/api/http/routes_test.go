package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/lunar-insights/internal/geo"
	"github.com/i474232898/lunar-insights/internal/location"
	"github.com/i474232898/lunar-insights/internal/store"
	"github.com/i474232898/lunar-insights/internal/view"
	"github.com/i474232898/lunar-insights/internal/weather"
)

// echoOracle answers immediately, naming the snapshot after the query.
type echoOracle struct {
	fail error
}

func (o echoOracle) Name() string { return "echo" }

func (o echoOracle) Fetch(_ context.Context, q weather.LocationQuery) (weather.WeatherSnapshot, error) {
	if o.fail != nil {
		return weather.WeatherSnapshot{}, o.fail
	}
	return weather.WeatherSnapshot{
		LocationName: q.Describe(),
		Pressure:     30.00,
		Moon:         weather.MoonData{Phase: "Full Moon", Azimuth: 180, Altitude: -10},
		Wind:         weather.WindData{Direction: 45, Cardinal: "NE"},
		Fishing:      weather.FishingTimes{Rating: "Excellent"},
	}, nil
}

func newTestApp(src geo.Source, oracle weather.Oracle) (*fiber.App, *location.Resolver) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": true, "message": err.Error()})
		},
	})
	st := store.NewMemoryStore(10, 0)
	r := location.NewResolver(src, oracle, st)
	RegisterRoutes(app, r, st, view.DefaultCanvas)
	return app, r
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestZipSearchFlow(t *testing.T) {
	app, r := newTestApp(nil, echoOracle{})

	code, _ := do(t, app, http.MethodGet, "/api/v1/dashboard", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body := do(t, app, http.MethodPost, "/api/v1/location/zip", `{"zip":"90210"}`)
	require.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, true, body["accepted"])
	assert.Equal(t, float64(1), body["seq"])
	r.Wait()

	code, body = do(t, app, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(location.PhaseSuccess), body["phase"])
	loc := body["location"].(map[string]any)
	assert.Equal(t, "90210", loc["zip"])
	assert.Nil(t, loc["lat"])

	code, body = do(t, app, http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["stale"])
	dash := body["dashboard"].(map[string]any)
	assert.Equal(t, "ZIP code 90210", dash["locationName"])
	moon := dash["moon"].(map[string]any)
	assert.Equal(t, true, moon["position"].(map[string]any)["belowHorizon"])
	rating := dash["fishing"].(map[string]any)["rating"].(map[string]any)
	assert.Equal(t, string(view.BandExcellent), rating["band"])
	assert.Nil(t, dash["tides"])

	code, body = do(t, app, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["snapshots"], 1)
}

func TestZipSearchValidation(t *testing.T) {
	app, _ := newTestApp(nil, echoOracle{})

	code, body := do(t, app, http.MethodPost, "/api/v1/location/zip", `{"zip":"123"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["accepted"])
	assert.Equal(t, string(location.PhaseIdle), body["phase"])

	code, _ = do(t, app, http.MethodPost, "/api/v1/location/zip", `{"zip":"abcdef"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPost, "/api/v1/location/zip", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPost, "/api/v1/location/zip", `{"zip":`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDeviceLocation(t *testing.T) {
	app, r := newTestApp(geo.NewFixedSource(21.3, -157.8), echoOracle{})

	code, body := do(t, app, http.MethodPost, "/api/v1/location/device", "")
	require.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, true, body["accepted"])
	r.Wait()

	_, body = do(t, app, http.MethodGet, "/api/v1/dashboard", "")
	assert.Equal(t, "coordinates 21.3, -157.8", body["dashboard"].(map[string]any)["locationName"])
}

func TestDeviceLocationUnavailable(t *testing.T) {
	app, _ := newTestApp(nil, echoOracle{})

	code, body := do(t, app, http.MethodPost, "/api/v1/location/device", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "Geolocation not supported", body["message"])

	_, body = do(t, app, http.MethodGet, "/api/v1/status", "")
	assert.Equal(t, "Geolocation not supported", body["location"].(map[string]any)["error"])
	assert.Equal(t, string(store.StateIdle), body["fetch"].(map[string]any)["state"])
}

func TestRefresh(t *testing.T) {
	app, r := newTestApp(nil, echoOracle{})

	code, body := do(t, app, http.MethodPost, "/api/v1/refresh", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["accepted"])

	do(t, app, http.MethodPost, "/api/v1/location/zip", `{"zip":"73301"}`)
	r.Wait()

	code, body = do(t, app, http.MethodPost, "/api/v1/refresh", "")
	assert.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, float64(2), body["seq"])
	r.Wait()
}

func TestFailedFetchWithoutPriorSnapshot(t *testing.T) {
	app, r := newTestApp(nil, echoOracle{fail: weather.ErrOracleRequestFailed})

	do(t, app, http.MethodPost, "/api/v1/location/zip", `{"zip":"98101"}`)
	r.Wait()

	_, body := do(t, app, http.MethodGet, "/api/v1/status", "")
	fetch := body["fetch"].(map[string]any)
	assert.Equal(t, string(store.StateFailed), fetch["state"])
	assert.Equal(t, location.FetchFailedMessage, fetch["message"])
	assert.Equal(t, string(location.PhaseFailed), body["phase"])

	code, _ := do(t, app, http.MethodGet, "/api/v1/dashboard", "")
	assert.Equal(t, http.StatusNotFound, code)
}
