// Package config builds the single immutable configuration struct
// consumed by the rest of the core. It is constructed once at startup
// (see cmd/auralis-worker) and handed to collaborators by reference —
// nothing in this module reads a package-global mutable config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// UnifiedConfig carries the sample rate, preset name, cache paths, and
// worker count that every component needs at construction time.
type UnifiedConfig struct {
	SampleRate int

	// Preset is one of the legacy names (adaptive, gentle, warm, bright,
	// punchy, live), case-insensitive, validated and lowercased by New.
	Preset string

	CacheDir       string
	MaxCacheGB     float64
	MaxMemoryEntries int

	// Workers is the fixed worker-pool size; defaults to min(4, NumCPU).
	Workers int

	TracingEnabled bool
	MetricsEnabled bool
}

// Option mutates a UnifiedConfig under construction.
type Option func(*UnifiedConfig)

// WithSampleRate overrides the default sample rate.
func WithSampleRate(sr int) Option {
	return func(c *UnifiedConfig) { c.SampleRate = sr }
}

// WithPreset overrides the default preset name.
func WithPreset(preset string) Option {
	return func(c *UnifiedConfig) { c.Preset = preset }
}

// WithCacheDir overrides the persistent cache directory.
func WithCacheDir(dir string) Option {
	return func(c *UnifiedConfig) { c.CacheDir = dir }
}

// WithWorkers overrides the fixed worker-pool size.
func WithWorkers(n int) Option {
	return func(c *UnifiedConfig) { c.Workers = n }
}

// WithTracing toggles installation of the OpenTelemetry tracer provider at
// worker startup; no cache or worker-pool code emits spans.
func WithTracing(enabled bool) Option {
	return func(c *UnifiedConfig) { c.TracingEnabled = enabled }
}

// WithMetrics toggles Prometheus metric registration.
func WithMetrics(enabled bool) Option {
	return func(c *UnifiedConfig) { c.MetricsEnabled = enabled }
}

var validPresets = map[string]bool{
	"adaptive": true, "gentle": true, "warm": true,
	"bright": true, "punchy": true, "live": true,
}

// ValidPreset reports whether name (case-insensitive) is a recognized
// legacy preset.
func ValidPreset(name string) bool {
	return validPresets[normalizePreset(name)]
}

func normalizePreset(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		out = append(out, b)
	}
	return string(out)
}

// New builds a UnifiedConfig from sensible defaults plus options, failing
// fast on an invalid preset name per the external-interfaces contract.
func New(opts ...Option) (*UnifiedConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	cfg := &UnifiedConfig{
		SampleRate:       44100,
		Preset:           "adaptive",
		CacheDir:         filepath.Join(home, ".auralis", "cache"),
		MaxCacheGB:       2.0,
		MaxMemoryEntries: 50,
		Workers:          defaultWorkers(),
		TracingEnabled:   false,
		MetricsEnabled:   true,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if !ValidPreset(cfg.Preset) {
		return nil, fmt.Errorf("unknown preset %q: must be one of adaptive, gentle, warm, bright, punchy, live", cfg.Preset)
	}
	cfg.Preset = normalizePreset(cfg.Preset)
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", cfg.SampleRate)
	}
	return cfg, nil
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 4 {
		return 4
	}
	if n < 1 {
		return 1
	}
	return n
}
