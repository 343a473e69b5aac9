// Package config loads runtime settings from defaults, an optional YAML file
// and RTTI_-prefixed environment variables, in increasing precedence.
package config

import (
	"context"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/hostmem"
	"github.com/wippyai/rtti-runtime/registry"
	"github.com/wippyai/rtti-runtime/value"
)

// EnvPrefix prefixes every environment variable the loader reads.
// RTTI_HEAP_PAGES sets heap_pages.
const EnvPrefix = "RTTI_"

// PageSize is the size of one heap page.
const PageSize = 65536

// Collision policies.
const (
	CollisionFail      = "fail"
	CollisionKeepFirst = "keep-first"
	CollisionKeepLast  = "keep-last"
)

// Heap backends.
const (
	BackendLocal  = "local"
	BackendWazero = "wazero"
)

// Config holds the settings shared by the runtime and its tools.
type Config struct {
	Collision    string `koanf:"collision"`
	CheckedReads bool   `koanf:"checked_reads"`
	LogLevel     string `koanf:"log_level"`
	HeapPages    uint32 `koanf:"heap_pages"`
	HeapBackend  string `koanf:"heap_backend"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() map[string]any {
	return map[string]any{
		"collision":     CollisionFail,
		"checked_reads": false,
		"log_level":     "warn",
		"heap_pages":    16,
		"heap_backend":  BackendLocal,
	}
}

// Load reads the configuration. path may be empty.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, rtterrors.Wrap(rtterrors.PhaseConfig, rtterrors.KindInvalidData, err, "load defaults")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, rtterrors.Wrap(rtterrors.PhaseConfig, rtterrors.KindInvalidData, err, "read "+path)
		}
	}

	// RTTI_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, rtterrors.Wrap(rtterrors.PhaseConfig, rtterrors.KindInvalidData, err, "load environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, rtterrors.Wrap(rtterrors.PhaseConfig, rtterrors.KindInvalidData, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func invalid(key, got string) error {
	return rtterrors.New(rtterrors.PhaseConfig, rtterrors.KindInvalidData).
		Path(key).
		Value(got).
		Detail("unsupported value %q", got).
		Build()
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Collision {
	case CollisionFail, CollisionKeepFirst, CollisionKeepLast:
	default:
		return invalid("collision", c.Collision)
	}
	switch c.HeapBackend {
	case BackendLocal, BackendWazero:
	default:
		return invalid("heap_backend", c.HeapBackend)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level", c.LogLevel)
	}
	if c.HeapPages == 0 || c.HeapPages > 65535 {
		return rtterrors.New(rtterrors.PhaseConfig, rtterrors.KindOutOfBounds).
			Path("heap_pages").
			Value(c.HeapPages).
			Detail("heap_pages must be between 1 and 65535").
			Build()
	}
	return nil
}

// CollisionFunc returns the callback for the configured policy.
func (c *Config) CollisionFunc() registry.CollisionFunc {
	switch c.Collision {
	case CollisionKeepFirst:
		return registry.KeepFirst
	case CollisionKeepLast:
		return registry.KeepLast
	default:
		return registry.FailOnCollision
	}
}

// RegistryOptions converts the configuration into registry options.
func (c *Config) RegistryOptions(logger *zap.Logger) []registry.Option {
	opts := []registry.Option{registry.WithCollisionCallback(c.CollisionFunc())}
	if logger != nil {
		opts = append(opts, registry.WithLogger(logger))
	}
	return opts
}

// Apply sets process-wide switches. Call it once at start-up.
func (c *Config) Apply() {
	value.CheckTags = c.CheckedReads
}

// NewLogger builds a zap logger at the configured level. Debug uses the
// development encoder.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, invalid("log_level", c.LogLevel)
	}
	var zc zap.Config
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// NewHeap creates a heap on the configured backend.
func (c *Config) NewHeap(ctx context.Context) (*hostmem.Heap, error) {
	if c.HeapBackend == BackendWazero {
		return hostmem.NewWazero(ctx, c.HeapPages)
	}
	return hostmem.NewLocal(c.HeapPages * PageSize), nil
}
