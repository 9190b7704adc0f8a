package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/pregame/pkg/agents"
	"github.com/gridironlabs/pregame/pkg/analysis"
	"github.com/gridironlabs/pregame/pkg/evidence"
	"github.com/gridironlabs/pregame/pkg/workflow"
)

func testResult(winA float64) *analysis.SynthesisResult {
	return &analysis.SynthesisResult{
		WinProbabilityA: winA,
		WinProbabilityB: 1 - winA,
		ConfidenceBand:  analysis.Band{Lower: winA - 0.1, Upper: winA + 0.1, Width: 0.1},
		Contributing: []analysis.Contribution{{
			Finding: workflow.Finding{
				TaskID: "performance", Kind: agents.KindPerformance,
				ScoreA: 0.6, Confidence: 0.8, Status: workflow.StatusComplete,
			},
			Weight: 0.8,
		}},
	}
}

func testArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestSaveAndList(t *testing.T) {
	a := testArchive(t)
	ctx := context.Background()

	m := evidence.Matchup{RunID: "run-1", TeamA: "KC", TeamB: "BUF", GameDate: time.Now()}
	require.NoError(t, a.SaveResult(ctx, m, testResult(0.62)))

	records, err := a.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "run-1", records[0].RunID)
	assert.Equal(t, "KC", records[0].TeamA)
	assert.InDelta(t, 0.62, records[0].WinProbabilityA, 1e-9)
	assert.Nil(t, records[0].Result, "list omits the full payload")
}

func TestListNewestFirst(t *testing.T) {
	a := testArchive(t)
	ctx := context.Background()

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		m := evidence.Matchup{RunID: id, TeamA: "KC", TeamB: "BUF", GameDate: time.Now()}
		require.NoError(t, a.SaveResult(ctx, m, testResult(0.5)))
		time.Sleep(5 * time.Millisecond)
	}

	records, err := a.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-3", records[0].RunID)
	assert.Equal(t, "run-2", records[1].RunID)
}

func TestGetRestoresFullResult(t *testing.T) {
	a := testArchive(t)
	ctx := context.Background()

	m := evidence.Matchup{RunID: "run-1", TeamA: "KC", TeamB: "BUF", GameDate: time.Now()}
	require.NoError(t, a.SaveResult(ctx, m, testResult(0.7)))

	record, err := a.Get(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, record.Result)
	assert.InDelta(t, 0.7, record.Result.WinProbabilityA, 1e-9)
	require.Len(t, record.Result.Contributing, 1)
	assert.Equal(t, agents.KindPerformance, record.Result.Contributing[0].Kind)
}

func TestGetUnknownRun(t *testing.T) {
	a := testArchive(t)
	_, err := a.Get(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestDuplicateRunIDRejected(t *testing.T) {
	a := testArchive(t)
	ctx := context.Background()

	m := evidence.Matchup{RunID: "run-1", TeamA: "KC", TeamB: "BUF", GameDate: time.Now()}
	require.NoError(t, a.SaveResult(ctx, m, testResult(0.5)))
	assert.Error(t, a.SaveResult(ctx, m, testResult(0.5)))
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	a, err := Open(path)
	require.NoError(t, err)
	m := evidence.Matchup{RunID: "run-1", TeamA: "KC", TeamB: "BUF", GameDate: time.Now()}
	require.NoError(t, a.SaveResult(context.Background(), m, testResult(0.55)))
	require.NoError(t, a.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
