package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentflow/agentcore/agentcoreerr"
)

// Config tunes an Emitter's queue sizing, scheduling, and failure handling.
type Config struct {
	MaxQueueSize    int
	AsyncProcessing bool
	BatchSize       int
	FlushInterval   time.Duration
	ErrorHandler    func(err error, e Event)
	Metrics         MetricsSink
}

// MetricsSink receives emitter lifecycle counters. Implementations must be
// safe for concurrent use; a nil sink is valid and simply discards updates.
type MetricsSink interface {
	EventEmitted(category, severity string)
	EventDropped()
	QueueDepth(n int)
	SubscriptionsActive(n int)
}

// DefaultConfig returns the emitter's documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxQueueSize:    10000,
		AsyncProcessing: false,
		BatchSize:       100,
		FlushInterval:   100 * time.Millisecond,
	}
}

// Emitter is a pattern-matching pub/sub dispatcher. Zero value is not
// usable; construct with New.
type Emitter struct {
	cfg Config

	mu    sync.Mutex
	subs  map[string]*subscription
	queue *boundedQueue

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New constructs a stopped Emitter. Call Start to enable the background
// worker when cfg.AsyncProcessing is set.
func New(cfg Config) *Emitter {
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 100 * time.Millisecond
	}
	return &Emitter{
		cfg:   cfg,
		subs:  make(map[string]*subscription),
		queue: newBoundedQueue(cfg.MaxQueueSize),
	}
}

// Subscribe registers a synchronous handler for pattern, gated by filter
// (nil for none) and opts.
func (em *Emitter) Subscribe(pattern string, handler Handler, filter Expr, opts Options) string {
	return em.register(pattern, handler, filter, opts, false)
}

// SubscribeAsync registers an async-delivered handler: a returned error
// triggers retry-then-error-handler instead of propagating.
func (em *Emitter) SubscribeAsync(pattern string, handler AsyncHandler, filter Expr, opts Options) string {
	return em.register(pattern, Handler(handler), filter, opts, true)
}

func (em *Emitter) register(pattern string, handler Handler, filter Expr, opts Options, async bool) string {
	sub := newSubscription(pattern, handler, filter, opts, async)
	em.mu.Lock()
	em.subs[sub.id] = sub
	count := len(em.subs)
	em.mu.Unlock()
	em.reportSubscriptions(count)
	return sub.id
}

// Unsubscribe removes the subscription, returning false if it was already
// absent (including after emitter teardown, where this is a no-op).
func (em *Emitter) Unsubscribe(id string) bool {
	em.mu.Lock()
	_, ok := em.subs[id]
	if ok {
		delete(em.subs, id)
	}
	count := len(em.subs)
	em.mu.Unlock()
	if ok {
		em.reportSubscriptions(count)
	}
	return ok
}

// Pause deactivates a subscription without removing it; paused
// subscriptions never match.
func (em *Emitter) Pause(id string) bool {
	em.mu.Lock()
	sub, ok := em.subs[id]
	em.mu.Unlock()
	if !ok {
		return false
	}
	sub.active.Store(false)
	return true
}

// Resume reactivates a paused subscription.
func (em *Emitter) Resume(id string) bool {
	em.mu.Lock()
	sub, ok := em.subs[id]
	em.mu.Unlock()
	if !ok {
		return false
	}
	sub.active.Store(true)
	return true
}

// ActiveSubscriptions returns the number of subscriptions registered,
// regardless of pause state.
func (em *Emitter) ActiveSubscriptions() int {
	em.mu.Lock()
	defer em.mu.Unlock()
	return len(em.subs)
}

// Emit enqueues e for async delivery, or dispatches it immediately when the
// emitter is configured synchronously. Returns a QueueFull *agentcoreerr.Error
// when the bounded queue is saturated.
func (em *Emitter) Emit(e Event) error {
	em.reportEmitted(e)
	if !em.cfg.AsyncProcessing {
		em.dispatch(e)
		return nil
	}
	em.mu.Lock()
	ok := em.queue.push(e)
	depth := em.queue.len()
	em.mu.Unlock()
	em.reportQueueDepth(depth)
	if !ok {
		if em.cfg.Metrics != nil {
			em.cfg.Metrics.EventDropped()
		}
		return agentcoreerr.New(agentcoreerr.CodeQueueFull, "event queue saturated").WithRetryable(false)
	}
	return nil
}

// EmitNow dispatches e immediately, bypassing the queue even in async mode.
func (em *Emitter) EmitNow(e Event) {
	em.reportEmitted(e)
	em.dispatch(e)
}

// Start begins the background worker when AsyncProcessing is set. Idempotent.
func (em *Emitter) Start() {
	if !em.running.CompareAndSwap(false, true) {
		return
	}
	if !em.cfg.AsyncProcessing {
		return
	}
	em.stopCh = make(chan struct{})
	em.stopOnce = sync.Once{}
	em.wg.Add(1)
	go em.runWorker()
}

// Stop signals the worker to exit at its next wakeup, waits for it, then
// synchronously flushes any remaining queued events.
func (em *Emitter) Stop() {
	if !em.running.CompareAndSwap(true, false) {
		return
	}
	if em.cfg.AsyncProcessing && em.stopCh != nil {
		em.stopOnce.Do(func() { close(em.stopCh) })
		em.wg.Wait()
	}
	em.FlushEvents()
}

// FlushEvents synchronously dispatches every event currently queued.
func (em *Emitter) FlushEvents() {
	for {
		em.mu.Lock()
		batch := em.queue.drain(em.cfg.BatchSize)
		depth := em.queue.len()
		em.mu.Unlock()
		em.reportQueueDepth(depth)
		if len(batch) == 0 {
			return
		}
		for _, e := range batch {
			em.dispatch(e)
		}
	}
}

func (em *Emitter) runWorker() {
	defer em.wg.Done()
	ticker := time.NewTicker(em.cfg.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-em.stopCh:
			return
		case <-ticker.C:
			em.mu.Lock()
			batch := em.queue.drain(em.cfg.BatchSize)
			depth := em.queue.len()
			em.mu.Unlock()
			em.reportQueueDepth(depth)
			for _, e := range batch {
				em.dispatch(e)
			}
		}
	}
}

// dispatch snapshots matching subscriptions under the lock, releases it,
// then invokes each handler outside the lock so a slow or misbehaving
// handler never blocks producers or other subscribers.
func (em *Emitter) dispatch(e Event) {
	em.mu.Lock()
	matched := make([]*subscription, 0, len(em.subs))
	for _, sub := range em.subs {
		if sub.matches(e) {
			matched = append(matched, sub)
		}
	}
	em.mu.Unlock()

	for _, sub := range matched {
		if sub.async {
			em.invokeAsync(sub, e)
		} else {
			em.invokeSync(sub, e)
		}
	}
}

func (em *Emitter) invokeSync(sub *subscription, e Event) {
	ctx := sub.opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if err := sub.handler(ctx, e); err != nil {
		em.reportHandlerErr(err, e)
	}
}

func (em *Emitter) invokeAsync(sub *subscription, e Event) {
	ctx := sub.opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	err := sub.handler(ctx, e)
	attempts := 0
	for err != nil && attempts < sub.opts.MaxRetries {
		attempts++
		if sub.opts.RetryDelay > 0 {
			time.Sleep(sub.opts.RetryDelay)
		}
		err = sub.handler(ctx, e)
	}
	if err != nil {
		em.reportHandlerErr(err, e)
	}
}

func (em *Emitter) reportHandlerErr(err error, e Event) {
	if em.cfg.ErrorHandler != nil {
		em.cfg.ErrorHandler(err, e)
	}
}

func (em *Emitter) reportEmitted(e Event) {
	if em.cfg.Metrics != nil {
		em.cfg.Metrics.EventEmitted(string(e.Category()), e.Severity().String())
	}
}

func (em *Emitter) reportQueueDepth(n int) {
	if em.cfg.Metrics != nil {
		em.cfg.Metrics.QueueDepth(n)
	}
}

func (em *Emitter) reportSubscriptions(n int) {
	if em.cfg.Metrics != nil {
		em.cfg.Metrics.SubscriptionsActive(n)
	}
}
