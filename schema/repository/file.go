package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/agentflow/agentcore/schema"
)

// Format selects the on-disk encoding for a File repository.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// File persists one schema document per file at {basePath}/{id}.{ext}. Put
// is atomic via a temp-file-then-rename swap; concurrent Gets for the same
// id are deduplicated through a singleflight group so a burst of readers
// triggers one disk read.
type File struct {
	basePath string
	format   Format
	group    singleflight.Group
	mu       sync.Mutex
}

// NewFile constructs a File repository rooted at basePath, creating the
// directory if absent.
func NewFile(basePath string, format Format) (*File, error) {
	if format != FormatJSON && format != FormatYAML {
		format = FormatJSON
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("repository: create base path: %w", err)
	}
	return &File{basePath: basePath, format: format}, nil
}

func (f *File) pathFor(id string) string {
	return filepath.Join(f.basePath, id+"."+string(f.format))
}

// Get returns (nil, nil) when id has no file on disk; absence is not an
// error. A genuine read or decode failure is still returned as an error.
func (f *File) Get(_ context.Context, id string) (*schema.Node, error) {
	v, err, _ := f.group.Do(id, func() (any, error) {
		data, err := os.ReadFile(f.pathFor(id))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("repository: read %s: %w", id, err)
		}
		w := new(wireNode)
		if err := f.decode(data, w); err != nil {
			return nil, fmt.Errorf("repository: decode %s: %w", id, err)
		}
		return w.toNode(), nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*schema.Node), nil
}

func (f *File) Put(_ context.Context, id string, node *schema.Node) error {
	data, err := f.encode(fromNode(node))
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", id, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.basePath, "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("repository: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("repository: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("repository: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.pathFor(id)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("repository: rename into place: %w", err)
	}
	return nil
}

func (f *File) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		return nil, fmt.Errorf("repository: read dir: %w", err)
	}
	ext := "." + string(f.format)
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ext))
	}
	return ids, nil
}

// Delete is idempotent: deleting an id with no file on disk is not an
// error.
func (f *File) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.pathFor(id)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("repository: delete %s: %w", id, err)
	}
	return nil
}

func (f *File) Close() error { return nil }

func (f *File) encode(w *wireNode) ([]byte, error) {
	if f.format == FormatYAML {
		return yaml.Marshal(w)
	}
	return json.MarshalIndent(w, "", "  ")
}

func (f *File) decode(data []byte, w *wireNode) error {
	if f.format == FormatYAML {
		return yaml.Unmarshal(data, w)
	}
	return json.Unmarshal(data, w)
}
