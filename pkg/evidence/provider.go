package evidence

import (
	"context"
	"fmt"
	"sync"
)

// Provider fetches one or more evidence sources for a matchup. Fetch must be
// idempotent and side-effect-free from the orchestrator's perspective.
// Errors are *FetchError.
type Provider interface {
	Fetch(ctx context.Context, source Source, m Matchup) (*Bundle, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, source Source, m Matchup) (*Bundle, error)

func (f ProviderFunc) Fetch(ctx context.Context, source Source, m Matchup) (*Bundle, error) {
	return f(ctx, source, m)
}

// Registry routes each source to the provider registered for it.
type Registry struct {
	mu        sync.RWMutex
	providers map[Source]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[Source]Provider)}
}

// Register binds a provider to the given sources.
func (r *Registry) Register(p Provider, sources ...Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range sources {
		r.providers[s] = p
	}
}

// Fetch dispatches to the provider registered for source.
func (r *Registry) Fetch(ctx context.Context, source Source, m Matchup) (*Bundle, error) {
	r.mu.RLock()
	p, ok := r.providers[source]
	r.mu.RUnlock()
	if !ok {
		return nil, NewFetchError(source, FailNotFound, fmt.Errorf("no provider registered for %s", source))
	}
	return p.Fetch(ctx, source, m)
}

// Sources returns the registered source set.
func (r *Registry) Sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Source, 0, len(r.providers))
	for s := range r.providers {
		out = append(out, s)
	}
	return out
}
