package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gridironlabs/pregame/pkg/ratelimit"
)

const (
	defaultWeatherTimeout = 15 * time.Second
	weatherFreshFor       = 1 * time.Hour
)

// WeatherClient fetches game-day forecasts from a weatherapi-style endpoint.
type WeatherClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *ratelimit.Limiter
}

// WeatherOption configures a WeatherClient.
type WeatherOption func(*WeatherClient)

// WithWeatherHTTPClient overrides the underlying HTTP client (tests).
func WithWeatherHTTPClient(c *http.Client) WeatherOption {
	return func(w *WeatherClient) { w.client = c }
}

// WithWeatherLimiter installs a request rate limiter.
func WithWeatherLimiter(l *ratelimit.Limiter) WeatherOption {
	return func(w *WeatherClient) { w.limiter = l }
}

// NewWeatherClient creates a client for the weather API.
func NewWeatherClient(baseURL, apiKey string, opts ...WeatherOption) *WeatherClient {
	w := &WeatherClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultWeatherTimeout},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type weatherForecast struct {
	TempF      float64 `json:"temp_f"`
	WindMPH    float64 `json:"wind_mph"`
	PrecipPct  float64 `json:"chance_of_rain"`
	Conditions string  `json:"condition"`
}

// Fetch implements Provider for SourceWeather. The forecast is looked up for
// the home venue city, which the weather API resolves from the team pair.
func (w *WeatherClient) Fetch(ctx context.Context, source Source, m Matchup) (*Bundle, error) {
	if source != SourceWeather {
		return nil, NewFetchError(source, FailNotFound, fmt.Errorf("weather API does not serve %s", source))
	}

	if w.limiter != nil {
		if err := w.limiter.Wait(ctx, "weather"); err != nil {
			return nil, ClassifyFetchError(source, err)
		}
	}

	abbrB, err := TeamAbbreviation(m.TeamB)
	if err != nil {
		return nil, NewFetchError(source, FailNotFound, err)
	}

	q := url.Values{}
	q.Set("key", w.apiKey)
	q.Set("q", "nfl:"+abbrB)
	q.Set("dt", m.GameDate.Format("2006-01-02"))

	u := w.baseURL + "/v1/forecast.json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, NewFetchError(source, FailMalformed, err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, ClassifyFetchError(source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewFetchError(source, FailMalformed, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, NewFetchError(source, FailNotFound, fmt.Errorf("weather API 404"))
	case http.StatusTooManyRequests:
		return nil, NewFetchError(source, FailRateLimited, fmt.Errorf("weather API 429"))
	default:
		return nil, NewFetchError(source, FailMalformed, fmt.Errorf("weather API %d: %s", resp.StatusCode, truncate(body, 200)))
	}

	var fc weatherForecast
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, NewFetchError(source, FailMalformed, fmt.Errorf("decode forecast: %w", err))
	}

	now := time.Now()
	return &Bundle{
		Source:     source,
		FetchedAt:  now,
		StaleAfter: now.Add(weatherFreshFor),
		Facts: Facts{
			Weather: &WeatherReport{
				TempF:      fc.TempF,
				WindMPH:    fc.WindMPH,
				PrecipPct:  fc.PrecipPct,
				Conditions: fc.Conditions,
			},
		},
	}, nil
}
