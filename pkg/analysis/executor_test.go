package analysis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/pregame/pkg/agents"
	"github.com/gridironlabs/pregame/pkg/evidence"
	"github.com/gridironlabs/pregame/pkg/store"
	"github.com/gridironlabs/pregame/pkg/workflow"
)

// scriptedReasoner fails a fixed number of times before succeeding.
type scriptedReasoner struct {
	mu       sync.Mutex
	failures int
	err      error
	result   *agents.RawFinding
	attempts int
}

func (r *scriptedReasoner) Analyze(ctx context.Context, kind agents.Kind, m evidence.Matchup, ev agents.Evidence) (*agents.RawFinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.attempts <= r.failures {
		return nil, r.err
	}
	if r.result != nil {
		return r.result, nil
	}
	return &agents.RawFinding{ScoreA: 0.6, Confidence: 0.7, Rationale: "ok"}, nil
}

func freshBundle(source evidence.Source) *evidence.Bundle {
	return &evidence.Bundle{
		Source:     source,
		FetchedAt:  time.Now(),
		StaleAfter: time.Now().Add(time.Hour),
	}
}

func staleBundle(source evidence.Source) *evidence.Bundle {
	return &evidence.Bundle{
		Source:     source,
		FetchedAt:  time.Now().Add(-2 * time.Hour),
		StaleAfter: time.Now().Add(-time.Hour),
	}
}

func performanceTask() *workflow.TaskSpec {
	return &workflow.TaskSpec{
		ID:        "performance",
		Kind:      agents.KindPerformance,
		Selectors: agents.Selectors(agents.KindPerformance),
	}
}

func newTestStore(bundles ...*evidence.Bundle) *store.Store {
	static := evidence.NewStatic()
	for _, b := range bundles {
		static.Put(b)
	}
	return store.New(evidence.Matchup{RunID: "run-1", TeamA: "KC", TeamB: "BUF"}, static)
}

func TestRunTaskCompletes(t *testing.T) {
	st := newTestStore(freshBundle(evidence.SourceTeamStats))
	e := NewExecutor(st, &scriptedReasoner{}, 0, nil)

	status := e.RunTask(context.Background(), performanceTask())
	assert.Equal(t, workflow.StatusComplete, status)

	f, err := st.Finding("performance")
	require.NoError(t, err)
	assert.Equal(t, 0.6, f.ScoreA)
	assert.Equal(t, 0.7, f.Confidence)
	assert.Equal(t, workflow.StatusComplete, f.Status)
}

func TestRunTaskRetriesTransientErrors(t *testing.T) {
	st := newTestStore(freshBundle(evidence.SourceTeamStats))
	reasoner := &scriptedReasoner{failures: 2, err: fmt.Errorf("%w: flake", agents.ErrTransient)}
	e := NewExecutor(st, reasoner, 0, nil)

	status := e.RunTask(context.Background(), performanceTask())
	assert.Equal(t, workflow.StatusComplete, status)
	assert.Equal(t, 3, reasoner.attempts)
}

func TestRunTaskFailsAfterRetryBudget(t *testing.T) {
	st := newTestStore(freshBundle(evidence.SourceTeamStats))
	reasoner := &scriptedReasoner{failures: 10, err: fmt.Errorf("%w: persistent", agents.ErrTransient)}
	e := NewExecutor(st, reasoner, 0, nil)

	status := e.RunTask(context.Background(), performanceTask())
	assert.Equal(t, workflow.StatusFailed, status)
	assert.Equal(t, maxAgentRetries+1, reasoner.attempts)

	f, err := st.Finding("performance")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusFailed, f.Status)
	assert.Zero(t, f.Confidence)
	assert.Contains(t, f.Rationale, "retries")
}

func TestRunTaskRetriesMalformedOutput(t *testing.T) {
	st := newTestStore(freshBundle(evidence.SourceTeamStats))
	reasoner := &scriptedReasoner{failures: 1, err: fmt.Errorf("%w: not json", agents.ErrMalformed)}
	e := NewExecutor(st, reasoner, 0, nil)

	status := e.RunTask(context.Background(), performanceTask())
	assert.Equal(t, workflow.StatusComplete, status)
	assert.Equal(t, 2, reasoner.attempts)
}

func TestRunTaskFailsOnMissingRequiredEvidence(t *testing.T) {
	st := newTestStore() // no fixtures at all
	reasoner := &scriptedReasoner{}
	e := NewExecutor(st, reasoner, 0, nil)

	status := e.RunTask(context.Background(), performanceTask())
	assert.Equal(t, workflow.StatusFailed, status)
	assert.Zero(t, reasoner.attempts, "reasoner must not run without evidence")

	f, err := st.Finding("performance")
	require.NoError(t, err)
	assert.Contains(t, f.Rationale, "unavailable")
}

func TestRunTaskDegradesOnMissingOptionalEvidence(t *testing.T) {
	// Weather needs the forecast; the venue bundle is optional context.
	st := newTestStore(freshBundle(evidence.SourceWeather))
	e := NewExecutor(st, &scriptedReasoner{}, 0, nil)

	task := &workflow.TaskSpec{
		ID:        "weather",
		Kind:      agents.KindWeather,
		Selectors: agents.Selectors(agents.KindWeather),
	}
	status := e.RunTask(context.Background(), task)
	assert.Equal(t, workflow.StatusDegraded, status)

	f, err := st.Finding("weather")
	require.NoError(t, err)
	assert.InDelta(t, 0.7*stalePenalty, f.Confidence, 1e-9)
	assert.Contains(t, f.Rationale, "optional evidence")
}

func TestRunTaskDegradesOnStaleEvidence(t *testing.T) {
	st := newTestStore(staleBundle(evidence.SourceTeamStats))
	e := NewExecutor(st, &scriptedReasoner{}, 0, nil)

	status := e.RunTask(context.Background(), performanceTask())
	assert.Equal(t, workflow.StatusDegraded, status)

	f, err := st.Finding("performance")
	require.NoError(t, err)
	assert.Contains(t, f.Rationale, "stale")
}

func TestBlockTaskRecordsDegradedFinding(t *testing.T) {
	st := newTestStore()
	e := NewExecutor(st, &scriptedReasoner{}, 0, nil)

	e.BlockTask(performanceTask(), "injury")

	f, err := st.Finding("performance")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusDegraded, f.Status)
	assert.Equal(t, 0.5, f.ScoreA)
	assert.Zero(t, f.Confidence)
	assert.Contains(t, f.Rationale, "injury")
}
