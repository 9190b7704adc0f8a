package workflow

import (
	"context"

	"github.com/gridironlabs/pregame/pkg/logger"
)

// TaskRunner executes tasks on behalf of the scheduler. RunTask performs the
// analysis, records its finding, and returns the terminal status. BlockTask
// records a degraded "upstream failure" finding for a task that will never
// execute because a dependency failed.
type TaskRunner interface {
	RunTask(ctx context.Context, task *TaskSpec) Status
	BlockTask(task *TaskSpec, failedDep string)
}

// DefaultMaxInFlight bounds parallel dispatch when the caller does not.
const DefaultMaxInFlight = 4

// Scheduler walks a validated Graph, dispatching ready tasks to a TaskRunner
// with bounded parallelism. A task is ready once every dependency reached
// Complete or Degraded. Dependents of a Failed task, direct or transitive,
// are blocked: marked Degraded without executing.
type Scheduler struct {
	graph       *Graph
	runner      TaskRunner
	maxInFlight int
}

// NewScheduler creates a scheduler over a validated graph.
func NewScheduler(graph *Graph, runner TaskRunner, maxInFlight int) *Scheduler {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	return &Scheduler{graph: graph, runner: runner, maxInFlight: maxInFlight}
}

type taskResult struct {
	id     string
	status Status
}

// Run executes the graph. It returns ctx.Err() if the run was cancelled
// before every task reached a terminal state; in-flight tasks are still
// drained so no finding is left mid-write.
func (s *Scheduler) Run(ctx context.Context) error {
	status := make(map[string]Status, s.graph.Len())
	// blocked maps a task id to the root failed task that poisoned it.
	blocked := make(map[string]string)
	for _, t := range s.graph.Tasks() {
		status[t.ID] = StatusPending
	}

	results := make(chan taskResult, s.graph.Len())
	inFlight := 0

	for {
		// Propagate blocks and dispatch ready work until the scan settles.
		// A single pass is not enough: blocking one task can block its
		// dependents in the same scan.
		for changed := true; changed; {
			changed = false
			for _, t := range s.graph.Tasks() {
				if status[t.ID] != StatusPending {
					continue
				}
				ready, root := s.readiness(t, status, blocked)
				if root != "" {
					status[t.ID] = StatusDegraded
					blocked[t.ID] = root
					s.runner.BlockTask(t, root)
					logger.DebugCF("scheduler", "task blocked by upstream failure", map[string]any{
						"task": t.ID, "failed_dep": root,
					})
					changed = true
					continue
				}
				if ready && inFlight < s.maxInFlight && ctx.Err() == nil {
					status[t.ID] = StatusRunning
					inFlight++
					changed = true
					go func(task *TaskSpec) {
						results <- taskResult{id: task.ID, status: s.runner.RunTask(ctx, task)}
					}(t)
				}
			}
		}

		if s.done(status) {
			// Every task reached a terminal state; a late cancellation no
			// longer matters.
			return nil
		}
		if inFlight == 0 {
			// Nothing running and nothing dispatchable with tasks still
			// pending: the run was cancelled before they could start.
			return ctx.Err()
		}

		r := <-results
		inFlight--
		status[r.id] = r.status
		if !r.status.Terminal() {
			// Runner contract violation; treat as failure so dependents
			// don't run on a phantom result.
			status[r.id] = StatusFailed
			logger.WarnCF("scheduler", "runner returned non-terminal status", map[string]any{
				"task": r.id, "status": string(r.status),
			})
		}
	}
}

// readiness decides whether a pending task can run. It returns the root
// failed task id when any dependency failed or was itself blocked; that task
// must be blocked instead of dispatched.
func (s *Scheduler) readiness(t *TaskSpec, status map[string]Status, blocked map[string]string) (ready bool, failedRoot string) {
	for _, dep := range t.DependsOn {
		if root, ok := blocked[dep]; ok {
			return false, root
		}
		switch status[dep] {
		case StatusFailed:
			return false, dep
		case StatusComplete, StatusDegraded:
			// satisfied
		default:
			return false, ""
		}
	}
	return true, ""
}

func (s *Scheduler) done(status map[string]Status) bool {
	for _, st := range status {
		if !st.Terminal() {
			return false
		}
	}
	return true
}
