package event

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// MemoryBackend stores events as an ordered, mutex-protected list in
// process memory. All returned events are clones so callers may freely
// mutate or drop them without affecting the stored copy.
type MemoryBackend struct {
	mu     sync.Mutex
	events []Event
	logger *zap.Logger
}

// NewMemoryBackend constructs an empty MemoryBackend.
func NewMemoryBackend(logger *zap.Logger) *MemoryBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryBackend{logger: logger.With(zap.String("component", "event_backend_memory"))}
}

func (b *MemoryBackend) Store(_ context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e.Clone())
	return nil
}

func (b *MemoryBackend) Retrieve(_ context.Context, filter Expr, limit int) ([]Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, 0)
	for _, e := range b.events {
		if !matchesFilter(e, filter) {
			continue
		}
		out = append(out, e.Clone())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (b *MemoryBackend) RetrieveByIDs(_ context.Context, ids []string) ([]Event, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, 0, len(ids))
	for _, e := range b.events {
		if want[e.ID()] {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (b *MemoryBackend) DeleteByIDs(_ context.Context, ids []string) (int, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.events[:0]
	removed := 0
	for _, e := range b.events {
		if want[e.ID()] {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	b.events = kept
	return removed, nil
}

func (b *MemoryBackend) DeleteByFilter(_ context.Context, filter Expr) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.events[:0]
	removed := 0
	for _, e := range b.events {
		if matchesFilter(e, filter) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	b.events = kept
	return removed, nil
}

func (b *MemoryBackend) Count(_ context.Context, filter Expr) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if filter == nil {
		return len(b.events), nil
	}
	n := 0
	for _, e := range b.events {
		if matchesFilter(e, filter) {
			n++
		}
	}
	return n, nil
}

func (b *MemoryBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
	return nil
}

func (b *MemoryBackend) Close() error { return nil }
