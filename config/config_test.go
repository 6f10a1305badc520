package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10000, cfg.Emitter.MaxQueueSize)
	assert.True(t, cfg.Emitter.AsyncProcessing)
	assert.Equal(t, 100, cfg.Emitter.BatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Emitter.FlushInterval)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 10, cfg.Pool.MaxConnections)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAppliesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
emitter:
  max_queue_size: 500
  batch_size: 25
storage:
  backend: file
  file_path: /tmp/events.jsonl
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Emitter.MaxQueueSize)
	assert.Equal(t, 25, cfg.Emitter.BatchSize)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/events.jsonl", cfg.Storage.FilePath)
	// Values the file didn't touch keep their defaults.
	assert.True(t, cfg.Emitter.AsyncProcessing)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Emitter.MaxQueueSize, cfg.Emitter.MaxQueueSize)
}

func TestEnvOverridesTakePrecedenceOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("emitter:\n  max_queue_size: 500\n"), 0o644))

	t.Setenv("TESTAPP_EMITTER_MAX_QUEUE_SIZE", "777")
	t.Setenv("TESTAPP_RETRY_JITTER", "false")
	t.Setenv("TESTAPP_POOL_MAX_IDLE", "90s")

	cfg, err := NewLoader().WithConfigPath(path).WithEnvPrefix("TESTAPP").Load()
	require.NoError(t, err)

	assert.Equal(t, 777, cfg.Emitter.MaxQueueSize)
	assert.False(t, cfg.Retry.Jitter)
	assert.Equal(t, 90*time.Second, cfg.Pool.MaxIdle)
}

func TestLoadRunsRegisteredValidators(t *testing.T) {
	calls := 0
	_, err := NewLoader().WithValidator(func(c *Config) error {
		calls++
		return nil
	}).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "mongo"
	cfg.Emitter.MaxQueueSize = 0
	cfg.Retry.ExponentialBase = 1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
	assert.Contains(t, err.Error(), "max_queue_size")
	assert.Contains(t, err.Error(), "exponential_base")
}

func TestMustLoadPanicsOnUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	assert.Panics(t, func() {
		MustLoad(dir) // a directory, not a file: os.ReadFile fails with a non-NotExist error
	})
}
