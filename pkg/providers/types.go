// Package providers abstracts the LLM backends the optional model-backed
// reasoner can call, with error classification and ordered fallback.
package providers

import "context"

// CompletionRequest is one bounded text-completion call.
type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Completion is the model's reply.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Provider is one LLM backend. Implementations must respect ctx; the caller
// supplies the timeout.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	DefaultModel() string
}
