package evidence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRoutesBySource(t *testing.T) {
	registry := NewRegistry()
	registry.Register(ProviderFunc(func(ctx context.Context, source Source, m Matchup) (*Bundle, error) {
		return &Bundle{Source: source, FetchedAt: time.Now()}, nil
	}), SourceTeamStats, SourceInjuries)

	b, err := registry.Fetch(context.Background(), SourceTeamStats, statsMatchup)
	require.NoError(t, err)
	assert.Equal(t, SourceTeamStats, b.Source)

	assert.ElementsMatch(t, []Source{SourceTeamStats, SourceInjuries}, registry.Sources())
}

func TestRegistryUnregisteredSource(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Fetch(context.Background(), SourceWeather, statsMatchup)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FailNotFound, fe.Kind)
}

func TestStaticMissingFixture(t *testing.T) {
	static := NewStatic()

	_, err := static.Fetch(context.Background(), SourceVenue, statsMatchup)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FailNotFound, fe.Kind)
}

func TestStaticRespectsContext(t *testing.T) {
	static := NewStatic()
	static.Put(&Bundle{Source: SourceVenue})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := static.Fetch(ctx, SourceVenue, statsMatchup)
	assert.Error(t, err)
}

func TestLoadStaticFile(t *testing.T) {
	fixtures := map[Source]Facts{
		SourceVenue: {Venue: &VenueInfo{Stadium: "Arrowhead", HomeTeam: "KC"}},
		SourceInjuries: {Injuries: []InjuryReport{
			{Team: "BUF", Player: "X", Position: "QB", Status: "Out"},
		}},
	}
	data, err := json.Marshal(fixtures)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	static, err := LoadStaticFile(path)
	require.NoError(t, err)

	b, err := static.Fetch(context.Background(), SourceVenue, statsMatchup)
	require.NoError(t, err)
	require.NotNil(t, b.Facts.Venue)
	assert.Equal(t, "Arrowhead", b.Facts.Venue.Stadium)
	assert.False(t, b.Stale(time.Now()))
}

func TestLoadStaticFileBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))

	_, err := LoadStaticFile(path)
	assert.Error(t, err)
}
