package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Static serves evidence from an in-memory fixture set. It backs offline runs
// and tests; no network access happens through it.
type Static struct {
	mu      sync.RWMutex
	bundles map[Source]*Bundle
}

// NewStatic creates an empty fixture provider.
func NewStatic() *Static {
	return &Static{bundles: make(map[Source]*Bundle)}
}

// LoadStaticFile reads a fixture file: a JSON object mapping source names to
// Facts payloads.
func LoadStaticFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var raw map[Source]Facts
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	s := NewStatic()
	now := time.Now()
	for source, facts := range raw {
		s.Put(&Bundle{
			Source:     source,
			FetchedAt:  now,
			StaleAfter: now.Add(24 * time.Hour),
			Facts:      facts,
		})
	}
	return s, nil
}

// Put installs or replaces a fixture bundle.
func (s *Static) Put(b *Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles[b.Source] = b
}

// Fetch implements Provider.
func (s *Static) Fetch(ctx context.Context, source Source, m Matchup) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, ClassifyFetchError(source, err)
	}
	s.mu.RLock()
	b, ok := s.bundles[source]
	s.mu.RUnlock()
	if !ok {
		return nil, NewFetchError(source, FailNotFound, fmt.Errorf("no fixture for %s", source))
	}
	return b, nil
}
