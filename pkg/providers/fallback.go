package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridironlabs/pregame/pkg/logger"
)

// Candidate is one backend/model pair the chain may try.
type Candidate struct {
	Name     string
	Provider Provider
	Model    string
}

// Attempt records one try in the chain, for diagnostics.
type Attempt struct {
	Name     string
	Model    string
	Reason   Reason
	Duration time.Duration
	Err      error
}

// Chain tries candidates in order until one completes. Non-retriable
// failures and cancellation stop the chain early.
type Chain struct {
	candidates []Candidate
}

// NewChain builds a fallback chain over the given candidates.
func NewChain(candidates ...Candidate) *Chain {
	return &Chain{candidates: candidates}
}

// Complete implements Provider by delegating to the first candidate that
// succeeds.
func (c *Chain) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if len(c.candidates) == 0 {
		return nil, fmt.Errorf("fallback chain has no candidates")
	}

	var attempts []Attempt
	for _, cand := range c.candidates {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		creq := req
		if creq.Model == "" {
			creq.Model = cand.Model
		}
		if creq.Model == "" {
			creq.Model = cand.Provider.DefaultModel()
		}

		start := time.Now()
		resp, err := cand.Provider.Complete(ctx, creq)
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		cerr := Classify(cand.Name, creq.Model, err)
		attempts = append(attempts, Attempt{
			Name:     cand.Name,
			Model:    creq.Model,
			Reason:   cerr.Reason,
			Duration: time.Since(start),
			Err:      err,
		})
		logger.WarnCF("providers", "candidate failed", map[string]any{
			"provider": cand.Name, "model": creq.Model, "reason": string(cerr.Reason),
		})
		if !cerr.IsRetriable() {
			return nil, fmt.Errorf("non-retriable provider error: %w", cerr)
		}
	}

	last := attempts[len(attempts)-1]
	return nil, fmt.Errorf("all %d candidates failed, last %s/%s (%s): %w",
		len(attempts), last.Name, last.Model, last.Reason, last.Err)
}

// DefaultModel implements Provider using the first candidate.
func (c *Chain) DefaultModel() string {
	if len(c.candidates) == 0 {
		return ""
	}
	if c.candidates[0].Model != "" {
		return c.candidates[0].Model
	}
	return c.candidates[0].Provider.DefaultModel()
}
