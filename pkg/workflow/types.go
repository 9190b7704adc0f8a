// Package workflow owns the task graph for one analysis run: the immutable
// TaskSpec arena validated at construction, and the scheduler that executes
// it with bounded parallelism and upstream-failure propagation.
package workflow

import (
	"github.com/gridironlabs/pregame/pkg/agents"
	"github.com/gridironlabs/pregame/pkg/evidence"
)

// TaskSpec declares one node of the analysis DAG. Tasks reference their
// dependencies by id, never by pointer, so the graph can be validated and
// replayed deterministically.
type TaskSpec struct {
	ID        string            `json:"id"`
	Kind      agents.Kind       `json:"kind"`
	DependsOn []string          `json:"depends_on,omitempty"`
	Selectors []evidence.Source `json:"selectors,omitempty"`
}

// Status is the lifecycle state of a task and of the finding it produces.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusDegraded Status = "degraded"
	StatusFailed   Status = "failed"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusComplete, StatusDegraded, StatusFailed:
		return true
	}
	return false
}

// Finding is one agent's scored, explained output for one task. Produced
// exactly once per TaskSpec and immutable after production.
type Finding struct {
	TaskID     string      `json:"task_id"`
	Kind       agents.Kind `json:"kind"`
	ScoreA     float64     `json:"score_a"`
	Confidence float64     `json:"confidence"`
	Rationale  string      `json:"rationale"`
	Status     Status      `json:"status"`
}

// DefaultPlan is the standard analysis DAG: every leaf agent plus the matchup
// task, which waits for the performance and injury reads before weighing the
// head-to-head history.
func DefaultPlan() []TaskSpec {
	specs := make([]TaskSpec, 0, len(agents.Kinds()))
	for _, kind := range agents.Kinds() {
		spec := TaskSpec{
			ID:        string(kind),
			Kind:      kind,
			Selectors: agents.Selectors(kind),
		}
		if kind == agents.KindMatchup {
			spec.DependsOn = []string{string(agents.KindPerformance), string(agents.KindInjury)}
		}
		specs = append(specs, spec)
	}
	return specs
}

// PlanFor builds a plan restricted to the given kinds, dropping dependencies
// on kinds not present.
func PlanFor(kinds []agents.Kind) []TaskSpec {
	keep := make(map[agents.Kind]bool, len(kinds))
	for _, k := range kinds {
		keep[k] = true
	}
	var specs []TaskSpec
	for _, spec := range DefaultPlan() {
		if !keep[spec.Kind] {
			continue
		}
		var deps []string
		for _, dep := range spec.DependsOn {
			if keep[agents.Kind(dep)] {
				deps = append(deps, dep)
			}
		}
		spec.DependsOn = deps
		specs = append(specs, spec)
	}
	return specs
}
