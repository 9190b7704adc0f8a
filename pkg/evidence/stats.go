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
	defaultStatsTimeout = 30 * time.Second

	// How long each stats payload stays fresh before the executor treats it
	// as stale evidence.
	statsFreshFor    = 6 * time.Hour
	injuriesFreshFor = 2 * time.Hour
)

// StatsClient pulls team facts from a sportsdata-style REST API. It serves
// every source except weather.
type StatsClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *ratelimit.Limiter
}

// StatsOption configures a StatsClient.
type StatsOption func(*StatsClient)

// WithStatsHTTPClient overrides the underlying HTTP client (tests).
func WithStatsHTTPClient(c *http.Client) StatsOption {
	return func(s *StatsClient) { s.client = c }
}

// WithStatsLimiter installs a request rate limiter.
func WithStatsLimiter(l *ratelimit.Limiter) StatsOption {
	return func(s *StatsClient) { s.limiter = l }
}

// NewStatsClient creates a client for the stats API.
func NewStatsClient(baseURL, apiKey string, opts ...StatsOption) *StatsClient {
	s := &StatsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultStatsTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// statsPaths maps each source to its API path. The matchup's team
// abbreviations are appended as query parameters.
var statsPaths = map[Source]string{
	SourceTeamStats:  "/v3/scores/recent",
	SourceInjuries:   "/v3/injuries",
	SourceVenue:      "/v3/venues/game",
	SourceHeadToHead: "/v3/scores/headtohead",
	SourceRoster:     "/v3/transactions",
	SourceCoaching:   "/v3/coaches",
	SourceStandings:  "/v3/standings",
}

// Fetch implements Provider for every stats-backed source.
func (s *StatsClient) Fetch(ctx context.Context, source Source, m Matchup) (*Bundle, error) {
	path, ok := statsPaths[source]
	if !ok {
		return nil, NewFetchError(source, FailNotFound, fmt.Errorf("stats API does not serve %s", source))
	}

	abbrA, err := TeamAbbreviation(m.TeamA)
	if err != nil {
		return nil, NewFetchError(source, FailNotFound, err)
	}
	abbrB, err := TeamAbbreviation(m.TeamB)
	if err != nil {
		return nil, NewFetchError(source, FailNotFound, err)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, "stats"); err != nil {
			return nil, ClassifyFetchError(source, err)
		}
	}

	q := url.Values{}
	q.Set("teamA", abbrA)
	q.Set("teamB", abbrB)
	q.Set("date", m.GameDate.Format("2006-01-02"))

	body, err := s.get(ctx, source, path, q)
	if err != nil {
		return nil, err
	}

	var facts Facts
	if err := json.Unmarshal(body, &facts); err != nil {
		return nil, NewFetchError(source, FailMalformed, fmt.Errorf("decode %s payload: %w", source, err))
	}

	now := time.Now()
	fresh := statsFreshFor
	if source == SourceInjuries {
		fresh = injuriesFreshFor
	}
	return &Bundle{
		Source:     source,
		FetchedAt:  now,
		StaleAfter: now.Add(fresh),
		Facts:      facts,
	}, nil
}

func (s *StatsClient) get(ctx context.Context, source Source, path string, q url.Values) ([]byte, error) {
	u := s.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, NewFetchError(source, FailMalformed, err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ClassifyFetchError(source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewFetchError(source, FailMalformed, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewFetchError(source, FailNotFound, fmt.Errorf("stats API 404: %s", path))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewFetchError(source, FailRateLimited, fmt.Errorf("stats API 429"))
	case resp.StatusCode == http.StatusGatewayTimeout, resp.StatusCode == http.StatusRequestTimeout:
		return nil, NewFetchError(source, FailTimeout, fmt.Errorf("stats API %d", resp.StatusCode))
	default:
		return nil, NewFetchError(source, FailMalformed, fmt.Errorf("stats API %d: %s", resp.StatusCode, truncate(body, 200)))
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
