package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamAbbreviationFullName(t *testing.T) {
	abbr, err := TeamAbbreviation("Kansas City Chiefs")
	require.NoError(t, err)
	assert.Equal(t, "KC", abbr)
}

func TestTeamAbbreviationCaseInsensitive(t *testing.T) {
	abbr, err := TeamAbbreviation("buffalo bills")
	require.NoError(t, err)
	assert.Equal(t, "BUF", abbr)
}

func TestTeamAbbreviationPassThrough(t *testing.T) {
	abbr, err := TeamAbbreviation("gb")
	require.NoError(t, err)
	assert.Equal(t, "GB", abbr)
}

func TestTeamAbbreviationUnknown(t *testing.T) {
	_, err := TeamAbbreviation("London Monarchs")
	assert.Error(t, err)
}

func TestKnownTeamsComplete(t *testing.T) {
	teams := KnownTeams()
	assert.Len(t, teams, 32)

	for _, name := range teams {
		_, err := TeamAbbreviation(name)
		assert.NoError(t, err, name)
	}
}
