package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/lunar-insights/internal/weather"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-3-flash-preview"
)

// GeminiOracle implements weather.Oracle on top of the Gemini generateContent
// endpoint with search grounding enabled.
type GeminiOracle struct {
	name    string
	apiKey  string
	model   string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	now func() time.Time
}

// NewGeminiOracle creates the oracle client. Empty model or baseURL fall back
// to the defaults.
func NewGeminiOracle(client *http.Client, apiKey, model, baseURL string) *GeminiOracle {
	if model == "" {
		model = DefaultGeminiModel
	}
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	return &GeminiOracle{
		name:    "gemini",
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{Client: client},
		circuit: newBreaker("gemini"),
		now:     time.Now,
	}
}

func (p *GeminiOracle) Name() string {
	return p.name
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	Tools            []map[string]any `json:"tools"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content           content `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

func (p *GeminiOracle) Fetch(ctx context.Context, q weather.LocationQuery) (weather.WeatherSnapshot, error) {
	if p.apiKey == "" {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: gemini api key is not configured", weather.ErrOracleRequestFailed)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(q)}}}},
		Tools:    []map[string]any{{"google_search": map[string]any{}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: %v", weather.ErrOracleRequestFailed, err)
	}

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, url.PathEscape(p.model))
		req, err := http.NewRequest(http.MethodPost, u, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", p.apiKey)
		return req, nil
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: reading body: %v", weather.ErrOracleRequestFailed, err)
	}

	var payload generateResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: %v", weather.ErrOracleResponseInvalid, err)
	}
	if len(payload.Candidates) == 0 {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: no candidates", weather.ErrOracleResponseInvalid)
	}

	cand := payload.Candidates[0]
	var text strings.Builder
	for _, pt := range cand.Content.Parts {
		text.WriteString(pt.Text)
	}

	var sources []weather.Source
	for _, chunk := range cand.GroundingMetadata.GroundingChunks {
		if chunk.Web == nil {
			sources = append(sources, weather.Source{})
			continue
		}
		sources = append(sources, weather.Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}

	return weather.DecodeSnapshot([]byte(stripCodeFence(text.String())), sources, p.now())
}

// stripCodeFence removes a ```json ... ``` wrapper the model sometimes adds.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func buildPrompt(q weather.LocationQuery) string {
	return fmt.Sprintf(`Provide highly accurate current weather, moon position, tide and solunar fishing data for %s.
Use IMPERIAL units for all measurements.

Include:
1. Temperature in Fahrenheit, humidity in percent and barometric pressure in inches of mercury (inHg).
2. Whether pressure is 'rising', 'falling' or 'steady' over the most recent 3 hours, and the pressure
   readings from 2, 6, 12 and 24 hours ago.
3. Moon phase name, illumination percent, azimuth and altitude in degrees, today's moonrise and moonset.
4. Wind speed and gust in mph, direction in degrees and the cardinal abbreviation (e.g. "NNE").
5. Solunar major periods (two 2-hour windows), minor periods (two 1-hour windows) and a rating
   ("Excellent", "Good", "Fair" or "Poor").
6. For coastal locations, the nearest tide station and today's High/Low tide events; otherwise null.
7. The human-readable location name.

Return only a JSON object with this schema:
{
  "locationName": string,
  "temperature": number,
  "humidity": number,
  "pressure": number,
  "pressureTrend": "rising" | "falling" | "steady",
  "pressureHistory": {"past2h": number, "past6h": number, "past12h": number, "past24h": number},
  "condition": string,
  "moonData": {"phase": string, "illumination": number, "azimuth": number, "altitude": number,
               "moonrise": string, "moonset": string},
  "windData": {"speed": number, "gust": number, "direction": number, "cardinal": string},
  "fishingTimes": {"majors": string[], "minors": string[], "rating": string},
  "tideData": {"station": string, "events": [{"type": "High" | "Low", "time": string, "height": string}]} | null
}`, q.Describe())
}
