package internarena

// config.go defines the construction-time configuration object and the
// functional options that tune it. An interner's configuration is almost
// entirely about capacity hints and limits rather than behaviour.
//
// © 2025 internarena authors. MIT License.

import (
	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Hasher computes a 64-bit hash for a string. It must be deterministic
// within the lifetime of a single interner (the index stores no strings, so
// changing the hasher mid-flight would make every existing entry
// unreachable).
type Hasher func(s string) uint64

// defaultHasher uses xxhash: fast on short identifier-length strings and
// already in the dependency tree via Badger.
func defaultHasher(s string) uint64 { return xxhash.Sum64String(s) }

// Capacity bundles the two preallocation hints an interner accepts.
type Capacity struct {
	// Strings preallocates index/string-list room for this many distinct
	// strings. Default 50.
	Strings int
	// Bytes sizes the first arena bucket. Default 4096.
	Bytes int
}

// DefaultCapacity is the zero-option default: 50 strings, 4096 bytes.
var DefaultCapacity = Capacity{Strings: 50, Bytes: 4096}

// config bundles every knob that influences interner behaviour. All fields
// are immutable once a Rodeo/ThreadedRodeo is constructed.
type config struct {
	capacity        Capacity
	maxBytes        int64 // 0 means unbounded
	hasher          Hasher
	logger          *zap.Logger
	registry        *prometheus.Registry
	protectOnFreeze bool
}

func defaultConfig() *config {
	return &config{
		capacity: DefaultCapacity,
		hasher:   defaultHasher,
		logger:   zap.NewNop(),
	}
}

// Option is a functional option applied at construction time.
type Option func(*config)

// WithCapacity overrides the default string/byte preallocation hints.
func WithCapacity(c Capacity) Option {
	return func(cfg *config) {
		if c.Strings > 0 {
			cfg.capacity.Strings = c.Strings
		}
		if c.Bytes > 0 {
			cfg.capacity.Bytes = c.Bytes
		}
	}
}

// WithMaxByteLimit sets a hard ceiling on arena bytes; exceeding it makes
// Intern/TryIntern fail with CodeMemoryLimitReached. n <= 0 means unbounded
// (the default).
func WithMaxByteLimit(n int64) Option {
	return func(cfg *config) { cfg.maxBytes = n }
}

// WithHasher overrides the default xxhash-based Hasher.
func WithHasher(h Hasher) Option {
	return func(cfg *config) {
		if h != nil {
			cfg.hasher = h
		}
	}
}

// WithLogger plugs an external zap.Logger. The interner never logs on the
// Intern/Resolve hot path; only rare events are emitted: memory-limit
// rejection, allocation failure, key-space exhaustion, freeze. New bucket
// allocations are not logged.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection. Passing nil disables
// metrics (the default).
func WithMetrics(reg *prometheus.Registry) Option {
	return func(cfg *config) { cfg.registry = reg }
}

// WithProtectFrozenMemory makes Freeze (into a Reader or Resolver) attempt
// to mprotect the frozen arena's backing memory read-only on platforms that
// support it (see internal/memprotect); a no-op elsewhere. Off by default
// because it is strictly diagnostic: it turns an accidental write-after-
// freeze into an immediate SIGSEGV instead of silent corruption.
func WithProtectFrozenMemory(enabled bool) Option {
	return func(cfg *config) { cfg.protectOnFreeze = enabled }
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
