// Package store provides the run-scoped context store: the single source of
// truth for one run's evidence bundles and findings. Entries are append-only;
// a second write to the same key is an invariant violation, not a runtime
// condition.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gridironlabs/pregame/pkg/evidence"
	"github.com/gridironlabs/pregame/pkg/workflow"
)

// ErrDuplicateWrite reports a second write to a write-once key. This is a
// programming error in the caller, never expected at runtime.
var ErrDuplicateWrite = errors.New("duplicate write to context store")

// ErrNotAvailable reports a finding that has not been produced yet.
var ErrNotAvailable = errors.New("finding not yet available")

// Store holds one run's evidence and findings. Created at run start,
// discarded after the synthesis result is emitted; nothing is shared across
// runs.
type Store struct {
	matchup  evidence.Matchup
	provider evidence.Provider

	mu       sync.RWMutex
	evidence map[evidence.Source]*evidence.Bundle
	findings map[string]*workflow.Finding

	flightMu sync.Mutex
	flight   map[evidence.Source]*fetchCall
}

type fetchCall struct {
	done   chan struct{}
	bundle *evidence.Bundle
	err    error
}

// New creates a store for one matchup, fetching evidence through provider on
// cache miss.
func New(m evidence.Matchup, provider evidence.Provider) *Store {
	return &Store{
		matchup:  m,
		provider: provider,
		evidence: make(map[evidence.Source]*evidence.Bundle),
		findings: make(map[string]*workflow.Finding),
		flight:   make(map[evidence.Source]*fetchCall),
	}
}

// Matchup returns the run's immutable matchup request.
func (s *Store) Matchup() evidence.Matchup { return s.matchup }

// Evidence returns the cached bundle for source, fetching it through the
// provider on first request. Concurrent requests for the same source share a
// single fetch.
func (s *Store) Evidence(ctx context.Context, source evidence.Source) (*evidence.Bundle, error) {
	s.mu.RLock()
	if b, ok := s.evidence[source]; ok {
		s.mu.RUnlock()
		return b, nil
	}
	s.mu.RUnlock()

	s.flightMu.Lock()
	if call, ok := s.flight[source]; ok {
		s.flightMu.Unlock()
		select {
		case <-call.done:
			return call.bundle, call.err
		case <-ctx.Done():
			return nil, evidence.ClassifyFetchError(source, ctx.Err())
		}
	}
	call := &fetchCall{done: make(chan struct{})}
	s.flight[source] = call
	s.flightMu.Unlock()

	call.bundle, call.err = s.provider.Fetch(ctx, source, s.matchup)
	if call.err == nil {
		s.mu.Lock()
		s.evidence[source] = call.bundle
		s.mu.Unlock()
	}

	s.flightMu.Lock()
	delete(s.flight, source)
	s.flightMu.Unlock()
	close(call.done)

	return call.bundle, call.err
}

// CachedEvidence returns the bundle for source without fetching.
func (s *Store) CachedEvidence(source evidence.Source) (*evidence.Bundle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.evidence[source]
	return b, ok
}

// PutFinding records a task's finding. Write-once per task id.
func (s *Store) PutFinding(f *workflow.Finding) error {
	if f == nil || f.TaskID == "" {
		return fmt.Errorf("store: finding without task id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.findings[f.TaskID]; exists {
		return fmt.Errorf("%w: finding for task %q", ErrDuplicateWrite, f.TaskID)
	}
	cp := *f
	s.findings[f.TaskID] = &cp
	return nil
}

// Finding returns the finding for a task id, or ErrNotAvailable if the task
// has not produced one yet.
func (s *Store) Finding(taskID string) (*workflow.Finding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.findings[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: task %q", ErrNotAvailable, taskID)
	}
	cp := *f
	return &cp, nil
}

// Findings returns every recorded finding ordered by task id, a stable
// snapshot for synthesis.
func (s *Store) Findings() []workflow.Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]workflow.Finding, 0, len(s.findings))
	for _, f := range s.findings {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}
