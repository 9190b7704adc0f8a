package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records every RunTask and BlockTask call and replies with a
// scripted status per task id.
type fakeRunner struct {
	mu       sync.Mutex
	statuses map[string]Status
	delay    time.Duration
	started  chan string

	runs    []string
	blocks  map[string]string
	current int
	peak    int
}

func newFakeRunner(statuses map[string]Status) *fakeRunner {
	return &fakeRunner{statuses: statuses, blocks: make(map[string]string)}
}

func (f *fakeRunner) RunTask(ctx context.Context, task *TaskSpec) Status {
	f.mu.Lock()
	f.runs = append(f.runs, task.ID)
	f.current++
	if f.current > f.peak {
		f.peak = f.current
	}
	f.mu.Unlock()

	if f.started != nil {
		f.started <- task.ID
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
		}
	}

	f.mu.Lock()
	f.current--
	f.mu.Unlock()

	if st, ok := f.statuses[task.ID]; ok {
		return st
	}
	return StatusComplete
}

func (f *fakeRunner) BlockTask(task *TaskSpec, failedDep string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocks[task.ID] = failedDep
}

func (f *fakeRunner) ranOnce(t *testing.T) map[string]int {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, id := range f.runs {
		counts[id]++
		assert.LessOrEqual(t, counts[id], 1, "task %s ran more than once", id)
	}
	return counts
}

func (f *fakeRunner) indexOf(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, run := range f.runs {
		if run == id {
			return i
		}
	}
	return -1
}

func mustGraph(t *testing.T, specs []TaskSpec) *Graph {
	t.Helper()
	g, err := NewGraph(specs)
	require.NoError(t, err)
	return g
}

func TestSchedulerRunsEveryTaskOnce(t *testing.T) {
	g := mustGraph(t, []TaskSpec{
		spec("a"),
		spec("b", "a"),
		spec("c", "a"),
		spec("d", "b", "c"),
	})
	runner := newFakeRunner(nil)

	require.NoError(t, NewScheduler(g, runner, 2).Run(context.Background()))

	counts := runner.ranOnce(t)
	assert.Len(t, counts, 4)
	assert.Less(t, runner.indexOf("a"), runner.indexOf("b"))
	assert.Less(t, runner.indexOf("a"), runner.indexOf("c"))
	assert.Less(t, runner.indexOf("b"), runner.indexOf("d"))
	assert.Less(t, runner.indexOf("c"), runner.indexOf("d"))
}

func TestSchedulerDegradedDependencyStillRuns(t *testing.T) {
	g := mustGraph(t, []TaskSpec{
		spec("a"),
		spec("b", "a"),
	})
	runner := newFakeRunner(map[string]Status{"a": StatusDegraded})

	require.NoError(t, NewScheduler(g, runner, 1).Run(context.Background()))

	counts := runner.ranOnce(t)
	assert.Equal(t, 1, counts["b"])
	assert.Empty(t, runner.blocks)
}

func TestSchedulerBlocksDependentsOfFailedTask(t *testing.T) {
	g := mustGraph(t, []TaskSpec{
		spec("a"),
		spec("b", "a"),
		spec("c", "b"),
		spec("d"),
	})
	runner := newFakeRunner(map[string]Status{"a": StatusFailed})

	require.NoError(t, NewScheduler(g, runner, 2).Run(context.Background()))

	counts := runner.ranOnce(t)
	assert.Equal(t, 1, counts["a"])
	assert.Equal(t, 1, counts["d"])
	assert.Zero(t, counts["b"], "blocked task must not execute")
	assert.Zero(t, counts["c"], "transitively blocked task must not execute")

	// Both report the root failure, not the intermediate block.
	assert.Equal(t, "a", runner.blocks["b"])
	assert.Equal(t, "a", runner.blocks["c"])
}

func TestSchedulerHonorsConcurrencyBound(t *testing.T) {
	specs := []TaskSpec{spec("a"), spec("b"), spec("c"), spec("d"), spec("e")}
	g := mustGraph(t, specs)
	runner := newFakeRunner(nil)
	runner.delay = 20 * time.Millisecond

	require.NoError(t, NewScheduler(g, runner, 2).Run(context.Background()))

	runner.ranOnce(t)
	assert.LessOrEqual(t, runner.peak, 2)
}

func TestSchedulerCancellationDrainsInFlight(t *testing.T) {
	g := mustGraph(t, []TaskSpec{
		spec("a"),
		spec("b", "a"),
	})
	runner := newFakeRunner(nil)
	runner.delay = 50 * time.Millisecond
	runner.started = make(chan string, 2)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- NewScheduler(g, runner, 1).Run(ctx)
	}()

	// Cancel while "a" is in flight; "b" must never start.
	<-runner.started
	cancel()

	err := <-errCh
	require.ErrorIs(t, err, context.Canceled)

	counts := runner.ranOnce(t)
	assert.Equal(t, 1, counts["a"])
	assert.Zero(t, counts["b"])
}

func TestSchedulerCompletesDespiteLateCancellation(t *testing.T) {
	g := mustGraph(t, []TaskSpec{spec("a")})
	runner := newFakeRunner(nil)

	ctx, cancel := context.WithCancel(context.Background())
	err := NewScheduler(g, runner, 1).Run(ctx)
	cancel()

	require.NoError(t, err)
	assert.Equal(t, 1, runner.ranOnce(t)["a"])
}

func TestSchedulerCoercesNonTerminalStatus(t *testing.T) {
	g := mustGraph(t, []TaskSpec{
		spec("a"),
		spec("b", "a"),
	})
	runner := newFakeRunner(map[string]Status{"a": StatusRunning})

	require.NoError(t, NewScheduler(g, runner, 1).Run(context.Background()))

	// The bogus status is treated as a failure, so "b" is blocked.
	assert.Equal(t, "a", runner.blocks["b"])
	assert.Zero(t, runner.ranOnce(t)["b"])
}
