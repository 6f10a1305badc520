package event

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/agentflow/agentcore/internal/pool"
)

// FileBackend persists events as one JSON document per line, appended under
// a mutex. It is append-only by design: DeleteByIDs and DeleteByFilter
// report ErrUnsupported rather than rewriting the log.
type FileBackend struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	logger *zap.Logger
}

// NewFileBackend opens (creating if absent) the append log at path.
func NewFileBackend(path string, logger *zap.Logger) (*FileBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("event: open file backend %s: %w", path, err)
	}
	return &FileBackend{
		path:   path,
		file:   f,
		logger: logger.With(zap.String("component", "event_backend_file")),
	}, nil
}

func (b *FileBackend) Store(_ context.Context, e Event) error {
	buf := pool.ByteBufferPool.Get()
	defer pool.ByteBufferPool.Put(buf)

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("event: marshal for file backend: %w", err)
	}
	buf.Write(data)
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("event: append to file backend: %w", err)
	}
	return nil
}

// scan re-opens the file read-only and invokes fn for each successfully
// parsed line. Lines that fail to parse are skipped — they cannot be
// trusted — rather than aborting the scan.
func (b *FileBackend) scan(fn func(e Event) (stop bool)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := os.Open(b.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("event: open file backend for read: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			b.logger.Debug("skipping unparseable line", zap.Error(err))
			continue
		}
		if fn(e) {
			break
		}
	}
	return scanner.Err()
}

func (b *FileBackend) Retrieve(_ context.Context, filter Expr, limit int) ([]Event, error) {
	out := make([]Event, 0)
	err := b.scan(func(e Event) bool {
		if !matchesFilter(e, filter) {
			return false
		}
		out = append(out, e)
		return limit > 0 && len(out) >= limit
	})
	return out, err
}

func (b *FileBackend) RetrieveByIDs(_ context.Context, ids []string) ([]Event, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]Event, 0, len(ids))
	err := b.scan(func(e Event) bool {
		if want[e.ID()] {
			out = append(out, e)
		}
		return len(out) == len(ids)
	})
	return out, err
}

func (b *FileBackend) DeleteByIDs(_ context.Context, _ []string) (int, error) {
	return 0, ErrUnsupported("delete_by_ids")
}

func (b *FileBackend) DeleteByFilter(_ context.Context, _ Expr) (int, error) {
	return 0, ErrUnsupported("delete_by_filter")
}

func (b *FileBackend) Count(_ context.Context, filter Expr) (int, error) {
	n := 0
	err := b.scan(func(e Event) bool {
		if matchesFilter(e, filter) {
			n++
		}
		return false
	})
	return n, err
}

func (b *FileBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.file.Truncate(0); err != nil {
		return fmt.Errorf("event: truncate file backend: %w", err)
	}
	_, err := b.file.Seek(0, 0)
	return err
}

func (b *FileBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}
