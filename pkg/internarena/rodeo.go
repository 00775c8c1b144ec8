// Package internarena implements the string interning engine: the
// single-writer Rodeo, the concurrent ThreadedRodeo, and the two frozen
// views ReaderView and ResolverView produced by freezing either one.
// Naming follows the Rust `lasso` crate so the concepts stay recognizable
// to anyone who has used it; the machinery is built the way its sibling
// project github.com/Voskan/arena-cache is: sharded locking,
// functional-options configuration, a pluggable metrics sink, and an
// injectable zap logger that stays silent on the hot path.
//
// © 2025 internarena authors. MIT License.
package internarena

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Voskan/internarena/internal/arena"
	"github.com/Voskan/internarena/internal/hashindex"
	"github.com/Voskan/internarena/internal/unsafehelpers"
	"github.com/Voskan/internarena/pkg/key"
	"go.uber.org/zap"
)

// Rodeo is the single-writer interner. Any number of
// concurrent readers are safe as long as no write is in flight; see
// ThreadedRodeo for a variant safe under concurrent writers.
//
// K is the concrete key type (key.Key8, key.Key16, key.Key32 or
// key.KeyPtr); PK is always *K, supplied so the generic machinery in
// pkg/key can construct values of K. Callers should instantiate it as, e.g.,
// internarena.New[key.Key32, *key.Key32]().
type Rodeo[K key.Key, PK key.Constructible[K]] struct {
	strings []string // indexed by k.ToIndex(); insertion order
	index   *hashindex.Index[K]
	arena   *arena.Arena
	hasher  Hasher
	metrics metricsSink
	logger  *zap.Logger
	cfg     *config
}

// New constructs an empty Rodeo with the given options.
func New[K key.Key, PK key.Constructible[K]](opts ...Option) (*Rodeo[K, PK], error) {
	cfg := applyOptions(opts)

	a, err := arena.New(cfg.capacity.Bytes, cfg.maxBytes)
	if err != nil {
		return nil, toError(err, "")
	}

	return &Rodeo[K, PK]{
		strings: make([]string, 0, cfg.capacity.Strings),
		index:   hashindex.New[K](cfg.capacity.Strings),
		arena:   a,
		hasher:  cfg.hasher,
		metrics: newMetricsSink(cfg.registry),
		logger:  cfg.logger,
		cfg:     cfg,
	}, nil
}

func (r *Rodeo[K, PK]) sealed() {}

// Intern interns s, panicking on failure (memory-limit or key-space
// exhaustion). Appropriate only when the caller has established that
// exhaustion cannot occur, e.g. a bounded input set.
func (r *Rodeo[K, PK]) Intern(s string) K {
	k, err := r.TryIntern(s)
	if err != nil {
		panic(err)
	}
	return k
}

// TryIntern interns s, returning its key. Idempotent: a repeat call with an
// already-seen s returns the same key without touching the arena. A failed
// call leaves the Rodeo completely unchanged (strong exception safety).
func (r *Rodeo[K, PK]) TryIntern(s string) (K, error) {
	var zero K
	r.metrics.incIntern()

	h := r.hasher(s)
	if k, ok := r.index.Lookup(h, s, r.resolveForIndex); ok {
		r.metrics.incHit()
		return k, nil
	}
	r.metrics.incMiss()

	// Mint the key before touching the arena: if the key space is already
	// exhausted, we must not have allocated arena bytes for a string that
	// will never be resolvable.
	k, ok := key.FromIndex[K, PK](uint64(len(r.strings)))
	if !ok {
		r.metrics.incKeySpaceExhausted()
		r.logger.Warn("internarena: key space exhausted", zap.Int("len", len(r.strings)))
		return zero, newError(CodeKeySpaceExhausted, s)
	}

	stored, err := r.arena.Store(unsafehelpers.StringToBytes(s))
	if err != nil {
		return zero, r.arenaError(err, s)
	}

	r.strings = append(r.strings, stored)
	r.index.Insert(h, k)
	r.metrics.addBytesAllocated(int64(len(stored)))
	r.metrics.setArenaBytes(r.arena.CurrentBytes())
	return k, nil
}

// InternStatic is like Intern but skips the arena copy: the caller asserts
// that s outlives the Rodeo (e.g. a Go string literal).
func (r *Rodeo[K, PK]) InternStatic(s string) K {
	k, err := r.TryInternStatic(s)
	if err != nil {
		panic(err)
	}
	return k
}

// TryInternStatic is the non-panicking form of InternStatic.
func (r *Rodeo[K, PK]) TryInternStatic(s string) (K, error) {
	var zero K
	r.metrics.incIntern()

	h := r.hasher(s)
	if k, ok := r.index.Lookup(h, s, r.resolveForIndex); ok {
		r.metrics.incHit()
		return k, nil
	}
	r.metrics.incMiss()

	k, ok := key.FromIndex[K, PK](uint64(len(r.strings)))
	if !ok {
		r.metrics.incKeySpaceExhausted()
		return zero, newError(CodeKeySpaceExhausted, s)
	}

	r.strings = append(r.strings, s)
	r.index.Insert(h, k)
	return k, nil
}

// Get looks up the key for s without inserting.
func (r *Rodeo[K, PK]) Get(s string) (K, bool) {
	h := r.hasher(s)
	return r.index.Lookup(h, s, r.resolveForIndex)
}

// Contains reports whether s has already been interned.
func (r *Rodeo[K, PK]) Contains(s string) bool {
	_, ok := r.Get(s)
	return ok
}

// ContainsKey reports whether k names a live entry in this Rodeo.
func (r *Rodeo[K, PK]) ContainsKey(k K) bool {
	return k.ToIndex() < uint64(len(r.strings))
}

// Resolve returns the string for k, panicking if k is invalid for this
// Rodeo. Resolving an invalid key is a bug in the caller, not a runtime
// condition - it panics here, and ResolveUnchecked skips even that check.
func (r *Rodeo[K, PK]) Resolve(k K) string {
	s, ok := r.TryResolve(k)
	if !ok {
		panic(fmt.Sprintf("internarena: invalid key (index %d, len %d)", k.ToIndex(), len(r.strings)))
	}
	return s
}

// TryResolve is the non-panicking form of Resolve.
func (r *Rodeo[K, PK]) TryResolve(k K) (string, bool) {
	idx := k.ToIndex()
	if idx >= uint64(len(r.strings)) {
		return "", false
	}
	return r.strings[idx], true
}

// ResolveUnchecked resolves k without any bounds validation. The caller
// asserts k is valid; passing an invalid key is undefined behavior (in
// practice, a slice-bounds panic, but callers must not rely on that).
func (r *Rodeo[K, PK]) ResolveUnchecked(k K) string {
	return r.strings[k.ToIndex()]
}

// Len returns the number of distinct strings interned so far.
func (r *Rodeo[K, PK]) Len() int { return len(r.strings) }

// IsEmpty reports whether Len() == 0.
func (r *Rodeo[K, PK]) IsEmpty() bool { return len(r.strings) == 0 }

// Capacity returns the live hash index's table size (an implementation
// detail exposed for diagnostics, not a hard ceiling).
func (r *Rodeo[K, PK]) Capacity() int { return r.index.Cap() }

// ArenaBytes returns the total bytes currently reserved by the backing
// arena (bucket capacities, not bytes used).
func (r *Rodeo[K, PK]) ArenaBytes() int64 { return r.arena.CurrentBytes() }

// SetMaxBytes updates the arena's memory ceiling at runtime. A value <= 0
// means unbounded. Lowering it below ArenaBytes does not free anything; it
// only makes future interns that need a new bucket fail with
// CodeMemoryLimitReached.
func (r *Rodeo[K, PK]) SetMaxBytes(n int64) { r.arena.SetMaxBytes(n) }

// Clear empties the Rodeo completely: every previously minted key becomes
// invalid, and the arena's buckets are reused (not deallocated) for future
// inserts. ThreadedRodeo deliberately has no equivalent; see its doc
// comment.
func (r *Rodeo[K, PK]) Clear() {
	r.strings = r.strings[:0]
	r.index = hashindex.New[K](r.cfg.capacity.Strings)
	r.arena.Clear()
	r.metrics.setArenaBytes(r.arena.CurrentBytes())
}

// Iter returns a finite, exact-sized, fused iterator over (key, string)
// pairs in insertion order. It never observes modifications made after it
// was created.
func (r *Rodeo[K, PK]) Iter() *Iter[K, PK] {
	return newIter[K, PK](r.snapshotStrings())
}

// Strings returns a finite, exact-sized, fused iterator over just the
// interned strings, in insertion order.
func (r *Rodeo[K, PK]) Strings() *StringIter {
	return newStringIter(r.snapshotStrings())
}

// snapshotStrings copies the current strings, headers and bytes, so a later
// Clear or Intern cannot mutate what an in-flight iterator observes (Intern's
// append could otherwise reuse freed backing-array capacity after Clear, and
// Clear lets later Stores overwrite the arena bytes the headers point at).
func (r *Rodeo[K, PK]) snapshotStrings() []string {
	snap := make([]string, len(r.strings))
	for i, s := range r.strings {
		snap[i] = strings.Clone(s)
	}
	return snap
}

// IntoReader freezes the Rodeo into a ReaderView, transferring ownership of
// the arena and the string list. The Rodeo must not be used afterward.
func (r *Rodeo[K, PK]) IntoReader() *ReaderView[K, PK] {
	r.logger.Info("internarena: freezing into reader", zap.Int("len", len(r.strings)))
	rv := newReaderView[K, PK](r.strings, r.arena.BucketData(), r.hasher, r.cfg.protectOnFreeze)
	r.invalidate()
	return rv
}

// IntoResolver freezes the Rodeo into a ResolverView, dropping the index
// entirely and keeping only what's needed for key -> string lookups. The
// Rodeo must not be used afterward.
func (r *Rodeo[K, PK]) IntoResolver() *ResolverView[K, PK] {
	r.logger.Info("internarena: freezing into resolver", zap.Int("len", len(r.strings)))
	rv := newResolverView[K, PK](r.strings, r.arena.BucketData(), r.cfg.protectOnFreeze)
	r.invalidate()
	return rv
}

// invalidate nils out the string list, index and arena after a freeze, so any accidental
// further use of r panics immediately instead of silently observing a
// half-transferred interner. The arena may now be mprotected read-only by
// the frozen view, so a later Store through r would be a real memory
// fault, not just a logic bug.
func (r *Rodeo[K, PK]) invalidate() {
	r.strings = nil
	r.index = nil
	r.arena = nil
}

// Clone deep-copies the Rodeo into fresh, tightly-sized storage: a new
// arena sized exactly to the sum of current string lengths (promoting
// locality), with every string re-copied and the index
// rebuilt. The clone does not share the source's metrics registry (double-
// registering the same Prometheus collectors would panic); wire metrics
// into the clone separately if needed.
func (r *Rodeo[K, PK]) Clone() (*Rodeo[K, PK], error) {
	total := 0
	for _, s := range r.strings {
		total += len(s)
	}
	if total == 0 {
		total = r.cfg.capacity.Bytes
	}

	na, err := arena.New(total, r.cfg.maxBytes)
	if err != nil {
		return nil, toError(err, "")
	}

	nr := &Rodeo[K, PK]{
		strings: make([]string, 0, len(r.strings)),
		index:   hashindex.New[K](len(r.strings)),
		arena:   na,
		hasher:  r.hasher,
		metrics: noopMetrics{},
		logger:  r.logger,
		cfg:     r.cfg,
	}
	if err := nr.absorb(r.strings, r.hasher); err != nil {
		return nil, err
	}
	return nr, nil
}

// CloneInto rebuilds dst as a deep copy of r, reusing dst's arena buffer
// capacity where possible (it is Cleared rather than reallocated). On
// failure dst is left in a valid-but-unspecified state: treat it as
// needing to be rebuilt or discarded, never as "still equal to its
// pre-call contents".
func (r *Rodeo[K, PK]) CloneInto(dst *Rodeo[K, PK]) error {
	dst.arena.Clear()
	dst.strings = dst.strings[:0]
	dst.index = hashindex.New[K](len(r.strings))
	return dst.absorb(r.strings, r.hasher)
}

// absorb re-interns src (already-deduplicated, insertion-ordered strings)
// into r using its own arena/index, preserving key order from index 0.
func (r *Rodeo[K, PK]) absorb(src []string, hasher Hasher) error {
	for _, s := range src {
		stored, err := r.arena.Store(unsafehelpers.StringToBytes(s))
		if err != nil {
			return r.arenaError(err, s)
		}
		k, ok := key.FromIndex[K, PK](uint64(len(r.strings)))
		if !ok {
			return newError(CodeKeySpaceExhausted, s)
		}
		r.strings = append(r.strings, stored)
		r.index.Insert(hasher(stored), k)
	}
	return nil
}

func (r *Rodeo[K, PK]) resolveForIndex(k K) string {
	return r.strings[k.ToIndex()]
}

func (r *Rodeo[K, PK]) arenaError(err error, input string) *Error {
	e := toError(err, input)
	switch e.Code {
	case CodeMemoryLimitReached:
		r.metrics.incMemoryLimitReached()
		r.logger.Warn("internarena: memory limit reached", zap.Int("input_len", len(input)))
	case CodeAllocationFailed:
		r.metrics.incAllocationFailed()
		r.logger.Error("internarena: allocation failed", zap.Int("input_len", len(input)))
	}
	return e
}

// toError maps an internal/arena sentinel error onto the public three-kind
// Error type; any other error becomes CodeAllocationFailed. Errors from
// internal/concurrentarena go through toErrorConcurrent instead.
func toError(err error, input string) *Error {
	switch {
	case errors.Is(err, arena.ErrMemoryLimitReached):
		return newError(CodeMemoryLimitReached, input)
	default:
		return newError(CodeAllocationFailed, input)
	}
}
