package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gridironlabs/pregame/pkg/agents"
	"github.com/gridironlabs/pregame/pkg/bus"
	"github.com/gridironlabs/pregame/pkg/evidence"
	"github.com/gridironlabs/pregame/pkg/logger"
	"github.com/gridironlabs/pregame/pkg/store"
	"github.com/gridironlabs/pregame/pkg/workflow"
)

const (
	// DefaultPerTaskTimeout bounds one task's evidence fetches plus its
	// reasoning step.
	DefaultPerTaskTimeout = 60 * time.Second

	// Agent computation errors are retried this many times before the task
	// is marked failed.
	maxAgentRetries = 2

	// Confidence multiplier applied when a task ran on stale or partially
	// missing evidence.
	stalePenalty = 0.75
)

// Executor runs one analysis task at a time on behalf of the scheduler:
// pull selected evidence through the store, run the reasoner with retries,
// and record exactly one finding whatever the outcome.
type Executor struct {
	store    *store.Store
	reasoner agents.Reasoner
	timeout  time.Duration
	events   *bus.Bus
}

// NewExecutor creates an executor for one run.
func NewExecutor(st *store.Store, reasoner agents.Reasoner, timeout time.Duration, events *bus.Bus) *Executor {
	if timeout <= 0 {
		timeout = DefaultPerTaskTimeout
	}
	return &Executor{store: st, reasoner: reasoner, timeout: timeout, events: events}
}

// RunTask implements workflow.TaskRunner.
func (e *Executor) RunTask(ctx context.Context, task *workflow.TaskSpec) workflow.Status {
	runID := e.store.Matchup().RunID
	e.events.Publish(bus.Event{RunID: runID, TaskID: task.ID, Type: bus.EventTaskStarted})

	tctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	f := e.execute(tctx, task)
	e.record(f)

	switch f.Status {
	case workflow.StatusComplete:
		e.events.Publish(bus.Event{RunID: runID, TaskID: task.ID, Type: bus.EventTaskCompleted})
	case workflow.StatusDegraded:
		e.events.Publish(bus.Event{RunID: runID, TaskID: task.ID, Type: bus.EventTaskDegraded, Message: f.Rationale})
	default:
		e.events.Publish(bus.Event{RunID: runID, TaskID: task.ID, Type: bus.EventTaskFailed, Message: f.Rationale})
	}
	return f.Status
}

// BlockTask implements workflow.TaskRunner: the task never executes because
// an upstream task failed. Its finding records the absence; confidence zero
// keeps it out of the weighted average while still listing the kind as
// degraded.
func (e *Executor) BlockTask(task *workflow.TaskSpec, failedDep string) {
	f := &workflow.Finding{
		TaskID:     task.ID,
		Kind:       task.Kind,
		ScoreA:     0.5,
		Confidence: 0,
		Rationale:  fmt.Sprintf("not executed: upstream task %q failed", failedDep),
		Status:     workflow.StatusDegraded,
	}
	e.record(f)
	e.events.Publish(bus.Event{
		RunID:   e.store.Matchup().RunID,
		TaskID:  task.ID,
		Type:    bus.EventTaskBlocked,
		Message: f.Rationale,
	})
}

// execute produces the task's finding without recording it.
func (e *Executor) execute(ctx context.Context, task *workflow.TaskSpec) *workflow.Finding {
	ev, notes, failed := e.gatherEvidence(ctx, task)
	if failed != nil {
		return failed
	}

	raw, err := e.reason(ctx, task, ev)
	if err != nil {
		return &workflow.Finding{
			TaskID:     task.ID,
			Kind:       task.Kind,
			ScoreA:     0.5,
			Confidence: 0,
			Rationale:  fmt.Sprintf("agent failed after %d retries: %v", maxAgentRetries, err),
			Status:     workflow.StatusFailed,
		}
	}

	f := &workflow.Finding{
		TaskID:     task.ID,
		Kind:       task.Kind,
		ScoreA:     raw.ScoreA,
		Confidence: raw.Confidence,
		Rationale:  raw.Rationale,
		Status:     workflow.StatusComplete,
	}
	if len(notes) > 0 {
		f.Status = workflow.StatusDegraded
		f.Confidence *= stalePenalty
		f.Rationale += " [" + strings.Join(notes, "; ") + "]"
	}
	return f
}

// gatherEvidence pulls every selected source. Required-source failures end
// the task; stale bundles and missing optional sources degrade it.
func (e *Executor) gatherEvidence(ctx context.Context, task *workflow.TaskSpec) (agents.Evidence, []string, *workflow.Finding) {
	ev := make(agents.Evidence, len(task.Selectors))
	var notes []string
	now := time.Now()

	for _, src := range task.Selectors {
		bundle, err := e.store.Evidence(ctx, src)
		if err != nil {
			if agents.Optional(task.Kind, src) {
				notes = append(notes, fmt.Sprintf("optional evidence %s unavailable", src))
				continue
			}
			fe := evidence.ClassifyFetchError(src, err)
			return nil, nil, &workflow.Finding{
				TaskID:     task.ID,
				Kind:       task.Kind,
				ScoreA:     0.5,
				Confidence: 0,
				Rationale:  fmt.Sprintf("evidence %s unavailable (%s)", src, fe.Kind),
				Status:     workflow.StatusFailed,
			}
		}
		if bundle.Stale(now) {
			notes = append(notes, fmt.Sprintf("evidence %s stale since %s", src, bundle.StaleAfter.Format(time.RFC3339)))
		}
		ev[src] = bundle
	}
	return ev, notes, nil
}

// reason runs the agent's analysis step, retrying with backoff. Both
// transient internal errors and malformed output are retried; whatever error
// survives the final attempt is terminal for the task.
func (e *Executor) reason(ctx context.Context, task *workflow.TaskSpec, ev agents.Evidence) (*agents.RawFinding, error) {
	var lastErr error
	for attempt := 0; attempt <= maxAgentRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * 250 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", agents.ErrTransient, ctx.Err())
			case <-time.After(backoff):
			}
			logger.DebugCF("executor", "retrying agent", map[string]any{
				"task": task.ID, "attempt": attempt,
			})
		}

		raw, err := e.reasoner.Analyze(ctx, task.Kind, e.store.Matchup(), ev)
		if err == nil {
			if verr := raw.Valid(); verr != nil {
				lastErr = verr
				continue
			}
			return raw, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	return nil, lastErr
}

// record writes the finding. A duplicate write means two executions of the
// same task, which the scheduler is supposed to make impossible.
func (e *Executor) record(f *workflow.Finding) {
	if err := e.store.PutFinding(f); err != nil {
		logger.ErrorCF("executor", "finding write rejected", map[string]any{
			"task": f.TaskID, "error": err.Error(),
		})
	}
}
