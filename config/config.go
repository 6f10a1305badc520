// Package config loads the library's runtime configuration: default values
// overridden by a YAML file overridden by environment variables, in that
// order, matching the host application's usual precedence.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration surface for an embedding
// application: emitter tuning, the storage backend, the connection pool,
// and the retry engine.
type Config struct {
	Emitter EmitterConfig `yaml:"emitter" env:"EMITTER"`
	Storage StorageConfig `yaml:"storage" env:"STORAGE"`
	Pool    PoolConfig    `yaml:"pool" env:"POOL"`
	Retry   RetryConfig   `yaml:"retry" env:"RETRY"`
	Log     LogConfig     `yaml:"log" env:"LOG"`
}

// EmitterConfig mirrors event.Config's tunables.
type EmitterConfig struct {
	MaxQueueSize    int           `yaml:"max_queue_size" env:"MAX_QUEUE_SIZE"`
	AsyncProcessing bool          `yaml:"async_processing" env:"ASYNC_PROCESSING"`
	BatchSize       int           `yaml:"batch_size" env:"BATCH_SIZE"`
	FlushInterval   time.Duration `yaml:"flush_interval" env:"FLUSH_INTERVAL"`
}

// StorageConfig selects and configures the recorder's storage backend.
type StorageConfig struct {
	Backend  string `yaml:"backend" env:"BACKEND"` // memory, file, sql, redis
	FilePath string `yaml:"file_path" env:"FILE_PATH"`
	DSN      string `yaml:"dsn" env:"DSN"`
	RedisURL string `yaml:"redis_url" env:"REDIS_URL"`
}

// PoolConfig mirrors pool.Config's tunables.
type PoolConfig struct {
	MaxConnections    int           `yaml:"max_connections" env:"MAX_CONNECTIONS"`
	MaxIdle           time.Duration `yaml:"max_idle" env:"MAX_IDLE"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout" env:"CONNECTION_TIMEOUT"`
	KeepAlive         bool          `yaml:"keep_alive" env:"KEEP_ALIVE"`
}

// RetryConfig mirrors retry.Config's tunables (RetryOnStatus, a status set,
// and RetryOnErrors, a classifier function, stay code-configured, not
// file-configured).
type RetryConfig struct {
	MaxAttempts     int           `yaml:"max_attempts" env:"MAX_ATTEMPTS"`
	InitialDelay    time.Duration `yaml:"initial_delay" env:"INITIAL_DELAY"`
	MaxDelay        time.Duration `yaml:"max_delay" env:"MAX_DELAY"`
	ExponentialBase float64       `yaml:"exponential_base" env:"EXPONENTIAL_BASE"`
	Jitter          bool          `yaml:"jitter" env:"JITTER"`
}

// LogConfig controls the zap logger construction used across the module.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // json, console
}

// DefaultConfig returns the documented defaults for every section.
func DefaultConfig() *Config {
	return &Config{
		Emitter: EmitterConfig{
			MaxQueueSize:    10000,
			AsyncProcessing: true,
			BatchSize:       100,
			FlushInterval:   100 * time.Millisecond,
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
		Pool: PoolConfig{
			MaxConnections:    10,
			MaxIdle:           5 * time.Minute,
			ConnectionTimeout: 30 * time.Second,
			KeepAlive:         true,
		},
		Retry: RetryConfig{
			MaxAttempts:     3,
			InitialDelay:    1 * time.Second,
			MaxDelay:        60 * time.Second,
			ExponentialBase: 2.0,
			Jitter:          true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Loader assembles a Config from defaults, an optional YAML file, and
// environment variable overrides (builder style).
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader creates a loader with the module's default env prefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: "AGENTCORE"}
}

func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load builds a Config: defaults, then YAML file (if set and present), then
// environment variables, then registered validators.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("config: load file: %w", err)
		}
	}

	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config: validate: %w", err)
		}
	}

	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (l *Loader) loadFromEnv(cfg *Config) error {
	return setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix)
}

func setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}
		envKey := prefix + "_" + envTag

		if field.Kind() == reflect.Struct {
			if err := setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}
		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("set %s: %w", envKey, err)
		}
	}
	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}
	return nil
}

// MustLoad loads from path, panicking on failure. Intended for main()
// wiring where a bad config should fail fast.
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

// Validate checks cross-field invariants the zero value can't enforce.
func (c *Config) Validate() error {
	var errs []string
	if c.Emitter.MaxQueueSize <= 0 {
		errs = append(errs, "emitter.max_queue_size must be positive")
	}
	if c.Emitter.BatchSize <= 0 {
		errs = append(errs, "emitter.batch_size must be positive")
	}
	if c.Pool.MaxConnections <= 0 {
		errs = append(errs, "pool.max_connections must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		errs = append(errs, "retry.max_attempts must be positive")
	}
	if c.Retry.ExponentialBase <= 1 {
		errs = append(errs, "retry.exponential_base must be greater than 1")
	}
	switch c.Storage.Backend {
	case "memory", "file", "sql", "redis":
	default:
		errs = append(errs, "storage.backend must be one of memory, file, sql, redis")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
