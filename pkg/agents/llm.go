package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gridironlabs/pregame/pkg/evidence"
	"github.com/gridironlabs/pregame/pkg/providers"
)

const llmSystemPrompt = `You are an NFL game analyst. You receive structured evidence for one ` +
	`aspect of an upcoming matchup and must estimate how that aspect shifts the ` +
	`outcome. Reply with a single JSON object and nothing else:
{"score_a": <0..1, 0.5 neutral, above favors team A>, "confidence": <0..1>, "rationale": "<one or two sentences>"}`

const llmMaxTokens = 512

// LLMReasoner delegates the reasoning step to a language model. Evidence is
// serialized into the prompt and the reply is parsed back into a RawFinding.
// A heuristic fallback keeps runs working when the model is unreachable.
type LLMReasoner struct {
	provider providers.Provider
	fallback Reasoner
}

// LLMOption customizes the LLM reasoner.
type LLMOption func(*LLMReasoner)

// WithHeuristicFallback routes to the given reasoner when the model call
// fails for a non-retriable reason.
func WithHeuristicFallback(r Reasoner) LLMOption {
	return func(l *LLMReasoner) { l.fallback = r }
}

// NewLLMReasoner builds a model-backed reasoner over the given provider,
// typically a providers.Chain.
func NewLLMReasoner(provider providers.Provider, opts ...LLMOption) *LLMReasoner {
	l := &LLMReasoner{provider: provider}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Analyze implements Reasoner.
func (l *LLMReasoner) Analyze(ctx context.Context, kind Kind, m evidence.Matchup, ev Evidence) (*RawFinding, error) {
	prompt, err := buildPrompt(kind, m, ev)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	resp, err := l.provider.Complete(ctx, providers.CompletionRequest{
		System:      llmSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   llmMaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		if l.fallback != nil {
			return l.fallback.Analyze(ctx, kind, m, ev)
		}
		var cerr *providers.ClassifiedError
		if errors.As(err, &cerr) && !cerr.IsRetriable() {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	raw, err := parseFinding(resp.Text)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// buildPrompt renders the matchup header and the evidence bundles as JSON.
func buildPrompt(kind Kind, m evidence.Matchup, ev Evidence) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Aspect: %s\nTeam A: %s\nTeam B: %s\nGame date: %s\n\nEvidence:\n",
		kind, m.TeamA, m.TeamB, m.GameDate.Format("2006-01-02"))

	for _, src := range Selectors(kind) {
		bundle, ok := ev[src]
		if !ok {
			fmt.Fprintf(&b, "## %s\n(unavailable)\n", src)
			continue
		}
		facts, err := json.MarshalIndent(bundle.Facts, "", "  ")
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "## %s\n%s\n", src, facts)
	}
	return b.String(), nil
}

// parseFinding extracts the JSON object from the model reply. Models wrap
// JSON in prose or code fences often enough that we scan for the braces.
func parseFinding(text string) (*RawFinding, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in model reply", ErrMalformed)
	}

	var raw RawFinding
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := raw.Valid(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.Rationale) == "" {
		raw.Rationale = "model provided no rationale"
	}
	return &raw, nil
}
