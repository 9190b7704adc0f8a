package providers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (s *stubProvider) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &Completion{Text: s.text, Model: req.Model}, nil
}

func (s *stubProvider) DefaultModel() string { return "stub-default" }

func TestClassifyReasons(t *testing.T) {
	cases := []struct {
		err  error
		want Reason
	}{
		{errors.New("status 401 unauthorized"), ReasonAuth},
		{errors.New("invalid api key"), ReasonAuth},
		{errors.New("429 rate limit exceeded"), ReasonRateLimit},
		{errors.New("monthly quota exhausted"), ReasonRateLimit},
		{errors.New("request timeout"), ReasonTimeout},
		{context.DeadlineExceeded, ReasonTimeout},
		{errors.New("529 overloaded"), ReasonOverloaded},
		{errors.New("503 service unavailable"), ReasonOverloaded},
		{errors.New("400 invalid request"), ReasonFormat},
		{errors.New("something odd"), ReasonUnknown},
	}
	for _, tc := range cases {
		got := Classify("p", "m", tc.err)
		assert.Equal(t, tc.want, got.Reason, "error: %v", tc.err)
	}
}

func TestClassifyNilError(t *testing.T) {
	assert.Nil(t, Classify("p", "m", nil))
}

func TestClassifiedErrorRetriable(t *testing.T) {
	assert.False(t, (&ClassifiedError{Reason: ReasonFormat}).IsRetriable())
	for _, r := range []Reason{ReasonAuth, ReasonRateLimit, ReasonTimeout, ReasonOverloaded, ReasonUnknown} {
		assert.True(t, (&ClassifiedError{Reason: r}).IsRetriable(), string(r))
	}
}

func TestChainFirstCandidateWins(t *testing.T) {
	first := &stubProvider{text: "from-first"}
	second := &stubProvider{text: "from-second"}
	chain := NewChain(
		Candidate{Name: "a", Provider: first, Model: "model-a"},
		Candidate{Name: "b", Provider: second, Model: "model-b"},
	)

	resp, err := chain.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from-first", resp.Text)
	assert.Equal(t, "model-a", resp.Model)
	assert.Zero(t, second.calls)
}

func TestChainFallsThroughOnRetriableError(t *testing.T) {
	first := &stubProvider{err: errors.New("503 overloaded")}
	second := &stubProvider{text: "rescued"}
	chain := NewChain(
		Candidate{Name: "a", Provider: first},
		Candidate{Name: "b", Provider: second},
	)

	resp, err := chain.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "rescued", resp.Text)
	assert.Equal(t, 1, first.calls)
}

func TestChainStopsOnFormatError(t *testing.T) {
	first := &stubProvider{err: errors.New("400 invalid request body")}
	second := &stubProvider{text: "never reached"}
	chain := NewChain(
		Candidate{Name: "a", Provider: first},
		Candidate{Name: "b", Provider: second},
	)

	_, err := chain.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Zero(t, second.calls)

	var cerr *ClassifiedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonFormat, cerr.Reason)
}

func TestChainStopsOnCancellation(t *testing.T) {
	first := &stubProvider{err: context.Canceled}
	second := &stubProvider{text: "never reached"}
	chain := NewChain(
		Candidate{Name: "a", Provider: first},
		Candidate{Name: "b", Provider: second},
	)

	_, err := chain.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, second.calls)
}

func TestChainAllCandidatesFail(t *testing.T) {
	first := &stubProvider{err: errors.New("timeout")}
	second := &stubProvider{err: errors.New("429 rate limit")}
	chain := NewChain(
		Candidate{Name: "a", Provider: first},
		Candidate{Name: "b", Provider: second},
	)

	_, err := chain.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 candidates failed")
}

func TestChainEmpty(t *testing.T) {
	_, err := NewChain().Complete(context.Background(), CompletionRequest{})
	assert.Error(t, err)
	assert.Empty(t, NewChain().DefaultModel())
}

func TestChainDefaultModel(t *testing.T) {
	chain := NewChain(Candidate{Name: "a", Provider: &stubProvider{}, Model: "pinned"})
	assert.Equal(t, "pinned", chain.DefaultModel())

	chain = NewChain(Candidate{Name: "a", Provider: &stubProvider{}})
	assert.Equal(t, "stub-default", chain.DefaultModel())
}
