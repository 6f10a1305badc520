package config

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileOp identifies the kind of change a Watcher observed on a config file.
type FileOp int

const (
	FileOpWrite FileOp = iota
	FileOpCreate
	FileOpRemove
)

func (op FileOp) String() string {
	switch op {
	case FileOpCreate:
		return "CREATE"
	case FileOpWrite:
		return "WRITE"
	case FileOpRemove:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// ReloadEvent is delivered to a Watcher callback whenever the watched file
// changes. Err is set instead of Config when the file changed but could not
// be parsed into a valid Config — callbacks should keep running on the
// previous config in that case rather than crash the host.
type ReloadEvent struct {
	Path      string
	Op        FileOp
	Timestamp time.Time
	Config    *Config
	Err       error
}

// Watcher polls a config file's modification time and re-runs a Loader
// against it whenever it changes, handing the result to any registered
// callbacks. It has no OS-level file notification dependency: the poll
// interval is the only cost, and it degrades identically on every platform.
type Watcher struct {
	mu sync.RWMutex

	loader *Loader
	path   string
	period time.Duration

	running  bool
	stopChan chan struct{}

	callbacks []func(ReloadEvent)
	lastMod   time.Time
	existed   bool

	logger *zap.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithPollInterval sets how often the watched file's mtime is checked.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.period = d }
}

// WithWatcherLogger attaches a logger to the watcher.
func WithWatcherLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = logger }
}

// NewWatcher builds a Watcher that reloads path through loader on change.
// loader's own WithConfigPath is overridden with path so the two never
// drift apart.
func NewWatcher(loader *Loader, path string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		loader:   loader.WithConfigPath(path),
		path:     path,
		period:   2 * time.Second,
		stopChan: make(chan struct{}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
		w.existed = true
	}
	return w
}

// OnReload registers a callback invoked after every detected change, on its
// own goroutine sequentially with other callbacks in registration order.
func (w *Watcher) OnReload(callback func(ReloadEvent)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins polling in the background until ctx is cancelled or Stop is
// called. Returns an error if the watcher is already running.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("config watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	go w.pollLoop(ctx)

	w.logger.Info("config watcher started",
		zap.String("path", w.path),
		zap.Duration("poll_interval", w.period))
	return nil
}

// Stop halts polling. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.stopChan)
	w.running = false
	w.logger.Info("config watcher stopped")
}

func (w *Watcher) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.checkFile()
		}
	}
}

func (w *Watcher) checkFile() {
	w.mu.Lock()
	info, err := os.Stat(w.path)
	switch {
	case err != nil:
		if !os.IsNotExist(err) {
			w.mu.Unlock()
			return
		}
		if !w.existed {
			w.mu.Unlock()
			return
		}
		w.existed = false
		w.mu.Unlock()
		w.dispatch(ReloadEvent{Path: w.path, Op: FileOpRemove, Timestamp: time.Now()})
		return
	case !w.existed:
		w.existed = true
		w.lastMod = info.ModTime()
		w.mu.Unlock()
		w.reloadAndDispatch(FileOpCreate)
		return
	case info.ModTime().After(w.lastMod):
		w.lastMod = info.ModTime()
		w.mu.Unlock()
		w.reloadAndDispatch(FileOpWrite)
		return
	default:
		w.mu.Unlock()
	}
}

func (w *Watcher) reloadAndDispatch(op FileOp) {
	cfg, err := w.loader.Load()
	ev := ReloadEvent{Path: w.path, Op: op, Timestamp: time.Now(), Config: cfg, Err: err}
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous config",
			zap.String("path", w.path), zap.Error(err))
	}
	w.dispatch(ev)
}

func (w *Watcher) dispatch(ev ReloadEvent) {
	w.mu.RLock()
	callbacks := make([]func(ReloadEvent), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		cb(ev)
	}
}
