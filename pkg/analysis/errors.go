package analysis

import (
	"errors"
	"fmt"

	"github.com/gridironlabs/pregame/pkg/agents"
	"github.com/gridironlabs/pregame/pkg/workflow"
)

// ErrNoEvidence reports that every finding failed or carried zero weight:
// there is nothing to synthesize. Returned instead of a meaningless 0.5/0.5.
var ErrNoEvidence = errors.New("no usable evidence to synthesize")

// RequiredAgentError reports a run aborted because an agent listed in
// Options.RequiredAgents did not complete cleanly.
type RequiredAgentError struct {
	Kind   agents.Kind
	Status workflow.Status
}

func (e *RequiredAgentError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("required agent %s produced no finding", e.Kind)
	}
	return fmt.Sprintf("required agent %s ended %s", e.Kind, e.Status)
}
