// Package analysis is the run entry point: it wires the task graph, context
// store, executor, and synthesizer into one win-probability analysis.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gridironlabs/pregame/pkg/agents"
	"github.com/gridironlabs/pregame/pkg/bus"
	"github.com/gridironlabs/pregame/pkg/evidence"
	"github.com/gridironlabs/pregame/pkg/logger"
	"github.com/gridironlabs/pregame/pkg/store"
	"github.com/gridironlabs/pregame/pkg/workflow"
)

// Options tunes one analysis run.
type Options struct {
	// MaxConcurrency bounds parallel task dispatch. Zero uses the scheduler
	// default.
	MaxConcurrency int

	// PerTaskTimeout bounds each task's evidence fetches plus reasoning.
	// Zero uses DefaultPerTaskTimeout.
	PerTaskTimeout time.Duration

	// RequiredAgents lists kinds that must complete cleanly; a required
	// agent ending Degraded or Failed fails the whole run.
	RequiredAgents []agents.Kind

	// Plan overrides the default task graph.
	Plan []workflow.TaskSpec

	// Events receives run progress; nil disables eventing.
	Events *bus.Bus
}

// Run analyzes one matchup end to end and returns the synthesis result.
//
// Evidence- and agent-level failures are absorbed into finding statuses;
// only graph validation errors, cancellation, a missing required agent, and
// an evidence-less synthesis surface as errors.
func Run(ctx context.Context, teamA, teamB string, gameDate time.Time, provider evidence.Provider, reasoner agents.Reasoner, opts Options) (*SynthesisResult, error) {
	if _, err := evidence.TeamAbbreviation(teamA); err != nil {
		return nil, err
	}
	if _, err := evidence.TeamAbbreviation(teamB); err != nil {
		return nil, err
	}

	plan := opts.Plan
	if plan == nil {
		plan = workflow.DefaultPlan()
	}
	graph, err := workflow.NewGraph(plan)
	if err != nil {
		return nil, err
	}

	m := evidence.Matchup{
		RunID:    uuid.New().String(),
		TeamA:    teamA,
		TeamB:    teamB,
		GameDate: gameDate,
	}

	logger.InfoCF("analysis", "run started", map[string]any{
		"run_id": m.RunID, "matchup": m.String(), "tasks": graph.Len(),
	})
	opts.Events.Publish(bus.Event{RunID: m.RunID, Type: bus.EventRunStarted, Message: m.String()})

	st := store.New(m, provider)
	executor := NewExecutor(st, reasoner, opts.PerTaskTimeout, opts.Events)
	scheduler := workflow.NewScheduler(graph, executor, opts.MaxConcurrency)

	if err := scheduler.Run(ctx); err != nil {
		opts.Events.Publish(bus.Event{RunID: m.RunID, Type: bus.EventRunFailed, Message: err.Error()})
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	findings := st.Findings()
	if err := checkRequired(findings, opts.RequiredAgents); err != nil {
		opts.Events.Publish(bus.Event{RunID: m.RunID, Type: bus.EventRunFailed, Message: err.Error()})
		return nil, err
	}

	result, err := Synthesize(findings)
	if err == nil {
		result.RunID = m.RunID
	}
	if err != nil {
		opts.Events.Publish(bus.Event{RunID: m.RunID, Type: bus.EventRunFailed, Message: err.Error()})
		return nil, err
	}

	logger.InfoCF("analysis", "run completed", map[string]any{
		"run_id":   m.RunID,
		"win_a":    fmt.Sprintf("%.3f", result.WinProbabilityA),
		"degraded": len(result.DegradedInputs),
	})
	opts.Events.Publish(bus.Event{
		RunID:   m.RunID,
		Type:    bus.EventRunCompleted,
		Message: fmt.Sprintf("%s %.1f%% vs %s %.1f%%", teamA, result.WinProbabilityA*100, teamB, result.WinProbabilityB*100),
	})
	return result, nil
}

// checkRequired enforces Options.RequiredAgents: each listed kind must have
// produced a Complete finding.
func checkRequired(findings []workflow.Finding, required []agents.Kind) error {
	if len(required) == 0 {
		return nil
	}
	byKind := make(map[agents.Kind]workflow.Status, len(findings))
	for _, f := range findings {
		byKind[f.Kind] = f.Status
	}
	for _, kind := range required {
		status, ok := byKind[kind]
		if !ok {
			return &RequiredAgentError{Kind: kind}
		}
		if status != workflow.StatusComplete {
			return &RequiredAgentError{Kind: kind, Status: status}
		}
	}
	return nil
}
