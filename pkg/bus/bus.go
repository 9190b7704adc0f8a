// Package bus carries run lifecycle events from the orchestration core to
// whoever is watching: the CLI progress printer, the run log, tests.
package bus

import (
	"context"
	"sync"
	"time"
)

// EventType classifies a run event.
type EventType string

const (
	EventRunStarted    EventType = "run_started"
	EventTaskStarted   EventType = "task_started"
	EventTaskCompleted EventType = "task_completed"
	EventTaskDegraded  EventType = "task_degraded"
	EventTaskFailed    EventType = "task_failed"
	EventTaskBlocked   EventType = "task_blocked"
	EventRunCompleted  EventType = "run_completed"
	EventRunFailed     EventType = "run_failed"
)

// Event is one observation of run progress.
type Event struct {
	RunID     string    `json:"run_id"`
	TaskID    string    `json:"task_id,omitempty"`
	Type      EventType `json:"type"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus is a bounded in-process event channel. Publishing never blocks the
// orchestrator: events overflow silently if the consumer falls behind.
type Bus struct {
	events chan Event
	mu     sync.RWMutex
	closed bool
}

// New creates a bus with a buffer sized for a typical run.
func New() *Bus {
	return &Bus{events: make(chan Event, 128)}
}

// Publish emits an event. A nil bus is a no-op so callers don't guard.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case b.events <- e:
	default:
	}
}

// Next returns the next event. The bool is false when the context is
// cancelled or the bus is closed and drained.
func (b *Bus) Next(ctx context.Context) (Event, bool) {
	select {
	case e, ok := <-b.events:
		return e, ok
	case <-ctx.Done():
		return Event{}, false
	}
}

// Close stops the bus. Pending events can still be drained with Next.
func (b *Bus) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.events)
}
