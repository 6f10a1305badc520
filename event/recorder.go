package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/agentflow/agentcore/agentcoreerr"
)

// Recorder owns a StorageBackend and a set of named filters. Record passes
// an event through every filter conjunctively and stores it only if all
// pass; StartRecording/StopRecording gate this with an atomic flag checked
// at the head of Record. filters is guarded by filtersMu since Record runs
// concurrently from the emitter's worker goroutines while a caller may be
// adding or removing filters at the same time.
type Recorder struct {
	backend StorageBackend

	filtersMu sync.RWMutex
	filters   map[string]Expr

	recording atomic.Bool
}

// NewRecorder wraps backend; recording starts enabled.
func NewRecorder(backend StorageBackend) *Recorder {
	r := &Recorder{backend: backend, filters: make(map[string]Expr)}
	r.recording.Store(true)
	return r
}

// AddFilter registers a named filter that must pass for any event to be
// recorded.
func (r *Recorder) AddFilter(name string, filter Expr) {
	r.filtersMu.Lock()
	defer r.filtersMu.Unlock()
	r.filters[name] = filter
}

// RemoveFilter drops a previously registered named filter.
func (r *Recorder) RemoveFilter(name string) {
	r.filtersMu.Lock()
	defer r.filtersMu.Unlock()
	delete(r.filters, name)
}

// StartRecording re-enables Record.
func (r *Recorder) StartRecording() { r.recording.Store(true) }

// StopRecording disables Record without closing the backend.
func (r *Recorder) StopRecording() { r.recording.Store(false) }

// IsRecording reports the current recording flag.
func (r *Recorder) IsRecording() bool { return r.recording.Load() }

// Record stores e iff recording is enabled and every named filter passes.
func (r *Recorder) Record(ctx context.Context, e Event) error {
	if !r.recording.Load() {
		return nil
	}
	r.filtersMu.RLock()
	filters := make([]Expr, 0, len(r.filters))
	for _, f := range r.filters {
		filters = append(filters, f)
	}
	r.filtersMu.RUnlock()

	for _, f := range filters {
		if f != nil && !f.Evaluate(e) {
			return nil
		}
	}
	return r.backend.Store(ctx, e)
}

// Handler adapts Record to the event.Handler signature, so a Recorder can
// be registered directly as an emitter subscription.
func (r *Recorder) Handler() Handler {
	return func(ctx context.Context, e Event) error {
		return r.Record(ctx, e)
	}
}

func (r *Recorder) Retrieve(ctx context.Context, filter Expr, limit int) ([]Event, error) {
	return r.backend.Retrieve(ctx, filter, limit)
}

func (r *Recorder) RetrieveByIDs(ctx context.Context, ids []string) ([]Event, error) {
	return r.backend.RetrieveByIDs(ctx, ids)
}

func (r *Recorder) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	return r.backend.DeleteByIDs(ctx, ids)
}

func (r *Recorder) DeleteByFilter(ctx context.Context, filter Expr) (int, error) {
	return r.backend.DeleteByFilter(ctx, filter)
}

func (r *Recorder) Count(ctx context.Context, filter Expr) (int, error) {
	return r.backend.Count(ctx, filter)
}

func (r *Recorder) Clear(ctx context.Context) error { return r.backend.Clear(ctx) }

// Close closes the underlying backend. Using the recorder afterward is a
// lifecycle error.
func (r *Recorder) Close() error {
	if r.backend == nil {
		return agentcoreerr.New(agentcoreerr.CodeLifecycle, "recorder already closed")
	}
	err := r.backend.Close()
	r.backend = nil
	return err
}
