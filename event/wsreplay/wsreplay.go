// Package wsreplay fans a Replayer's output out to WebSocket-connected
// observers, e.g. a dashboard watching a recorded run play back at a
// configurable speed.
package wsreplay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/agentflow/agentcore/event"
	"github.com/agentflow/agentcore/internal/pool"
)

// Hub tracks connected WebSocket observers and broadcasts replayed events to
// all of them. Writes fan out across a bounded worker pool so a broadcast to
// many observers never spawns one goroutine per connection.
type Hub struct {
	mu           sync.RWMutex
	conns        map[string]*websocket.Conn
	writeTimeout time.Duration
	workers      *pool.WorkerPool
}

// NewHub constructs an empty Hub with the given per-write timeout and
// broadcast fan-out concurrency.
func NewHub(writeTimeout time.Duration) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	cfg := pool.DefaultWorkerPoolConfig()
	cfg.MaxWorkers = 32
	return &Hub{
		conns:        make(map[string]*websocket.Conn),
		writeTimeout: writeTimeout,
		workers:      pool.NewWorkerPool(cfg),
	}
}

// Close shuts down the hub's write worker pool, waiting for in-flight
// broadcasts to finish.
func (h *Hub) Close() {
	h.workers.Close()
}

// Accept registers an already-upgraded WebSocket connection, blocking until
// the connection closes or ctx is cancelled.
func (h *Hub) Accept(ctx context.Context, conn *websocket.Conn) {
	ctx = conn.CloseRead(ctx)
	id := uuid.NewString()
	h.mu.Lock()
	h.conns[id] = conn
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.conns, id)
		h.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "replay finished")
	}()

	<-ctx.Done()
}

// Broadcast marshals e and writes it to every connected observer, dropping
// writes to any connection that errors (the observer's read loop will
// observe the close and unregister itself).
func (h *Hub) Broadcast(ctx context.Context, e event.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("wsreplay: marshal event: %w", err)
	}
	h.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(h.conns))
	for _, c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	var wg sync.WaitGroup
	for _, c := range targets {
		wg.Add(1)
		conn := c
		err := h.workers.Submit(ctx, func(taskCtx context.Context) error {
			defer wg.Done()
			writeCtx, cancel := context.WithTimeout(taskCtx, h.writeTimeout)
			defer cancel()
			_ = conn.Write(writeCtx, websocket.MessageText, data)
			return nil
		})
		if err != nil {
			wg.Done()
		}
	}
	wg.Wait()
	return nil
}

// ConnectionCount reports the number of currently registered observers.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// RunReplay drives replayer to completion, broadcasting each delivered
// event to h's connected observers.
func RunReplay(ctx context.Context, replayer *event.Replayer, h *Hub) error {
	return replayer.Replay(ctx, func(cbCtx context.Context, e event.Event) error {
		return h.Broadcast(cbCtx, e)
	})
}
