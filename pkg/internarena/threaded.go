package internarena

// threaded.go implements ThreadedRodeo: the multi-writer interner safe for
// concurrent TryIntern calls from any number of goroutines. Rust's lasso
// keeps a DashMap<&str, K> and a DashMap<K, &str> side by side; Go has no
// DashMap, so the sharding DashMap otherwise gives for free is rebuilt
// explicitly: independent shard maps, each guarded by its own
// sync.RWMutex, selected by hash(string) for the forward map and by key
// index for the reverse map.
//
// © 2025 internarena authors. MIT License.

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Voskan/internarena/internal/concurrentarena"
	"github.com/Voskan/internarena/internal/unsafehelpers"
	"github.com/Voskan/internarena/pkg/key"
	"go.uber.org/zap"
)

// defaultShardCount is a modest, fixed DashMap-style shard count; enough
// to keep unrelated writers off each other's locks without bloating small
// interners.
const defaultShardCount = 16

type forwardShard struct {
	mu sync.RWMutex
	m  map[string]uint64 // string -> zero-based index
}

type reverseShard struct {
	mu sync.RWMutex
	m  map[uint64]string // zero-based index -> string
}

// ThreadedRodeo is the multi-writer interner. Safe for
// concurrent TryIntern, Get, Resolve, and TryResolve calls from any number
// of goroutines. There is no Clear: see internal/concurrentarena's doc
// comment.
type ThreadedRodeo[K key.Key, PK key.Constructible[K]] struct {
	forward []*forwardShard
	reverse []*reverseShard
	nextIdx atomic.Uint64

	arena   *concurrentarena.Arena
	hasher  Hasher
	metrics metricsSink
	logger  *zap.Logger
	cfg     *config
}

// NewThreaded constructs an empty ThreadedRodeo with the given options.
func NewThreaded[K key.Key, PK key.Constructible[K]](opts ...Option) (*ThreadedRodeo[K, PK], error) {
	cfg := applyOptions(opts)

	a, err := concurrentarena.New(cfg.capacity.Bytes, cfg.maxBytes)
	if err != nil {
		return nil, toErrorConcurrent(err, "")
	}

	shardOf := func() *forwardShard { return &forwardShard{m: make(map[string]uint64)} }
	revOf := func() *reverseShard { return &reverseShard{m: make(map[uint64]string)} }

	tr := &ThreadedRodeo[K, PK]{
		forward: make([]*forwardShard, defaultShardCount),
		reverse: make([]*reverseShard, defaultShardCount),
		arena:   a,
		hasher:  cfg.hasher,
		metrics: newMetricsSink(cfg.registry),
		logger:  cfg.logger,
		cfg:     cfg,
	}
	for i := range tr.forward {
		tr.forward[i] = shardOf()
		tr.reverse[i] = revOf()
	}
	return tr, nil
}

func (t *ThreadedRodeo[K, PK]) sealed() {}

func (t *ThreadedRodeo[K, PK]) forwardShardFor(h uint64) *forwardShard {
	return t.forward[h%uint64(len(t.forward))]
}

func (t *ThreadedRodeo[K, PK]) reverseShardFor(idx uint64) *reverseShard {
	return t.reverse[idx%uint64(len(t.reverse))]
}

// Intern interns s, panicking on failure.
func (t *ThreadedRodeo[K, PK]) Intern(s string) K {
	k, err := t.TryIntern(s)
	if err != nil {
		panic(err)
	}
	return k
}

// TryIntern interns s, returning its key. Safe for concurrent use: two
// goroutines racing to intern the same new string both observe the first
// winner's key.
func (t *ThreadedRodeo[K, PK]) TryIntern(s string) (K, error) {
	var zero K
	t.metrics.incIntern()

	h := t.hasher(s)
	fs := t.forwardShardFor(h)

	fs.mu.RLock()
	if idx, ok := fs.m[s]; ok {
		fs.mu.RUnlock()
		t.metrics.incHit()
		k, _ := key.FromIndex[K, PK](idx)
		return k, nil
	}
	fs.mu.RUnlock()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if idx, ok := fs.m[s]; ok {
		// Another goroutine won the race while we waited for the write lock.
		t.metrics.incHit()
		k, _ := key.FromIndex[K, PK](idx)
		return k, nil
	}
	t.metrics.incMiss()

	// Fail fast if the key space is already spent: the counter is
	// monotone, so a FromIndex that rejects the current value can never
	// accept a later one, and checking here keeps repeated rejected
	// interns from leaking arena bytes they will never use.
	if _, roomLeft := key.FromIndex[K, PK](t.nextIdx.Load()); !roomLeft {
		t.metrics.incKeySpaceExhausted()
		return zero, newError(CodeKeySpaceExhausted, s)
	}

	// Copy into the arena before minting a key: t.nextIdx is a global,
	// irreversible atomic counter, so it must not advance on a failed
	// Store (the single-writer Rodeo can mint first because a failed
	// Store leaves len(r.strings) untouched; here the counter itself is
	// the mutation, so the order flips).
	stored, err := t.arena.Store(unsafehelpers.StringToBytes(s))
	if err != nil {
		return zero, t.arenaError(err, s)
	}

	idx := t.nextIdx.Add(1) - 1
	k, ok := key.FromIndex[K, PK](idx)
	if !ok {
		t.metrics.incKeySpaceExhausted()
		t.logger.Warn("internarena: key space exhausted", zap.Uint64("index", idx))
		return zero, newError(CodeKeySpaceExhausted, s)
	}

	rs := t.reverseShardFor(idx)
	rs.mu.Lock()
	rs.m[idx] = stored
	rs.mu.Unlock()

	fs.m[stored] = idx
	t.metrics.addBytesAllocated(int64(len(stored)))
	t.metrics.setArenaBytes(t.arena.CurrentBytes())
	return k, nil
}

// InternStatic is like Intern but skips the arena copy.
func (t *ThreadedRodeo[K, PK]) InternStatic(s string) K {
	k, err := t.TryInternStatic(s)
	if err != nil {
		panic(err)
	}
	return k
}

// TryInternStatic is the non-panicking form of InternStatic; the caller
// asserts s outlives the ThreadedRodeo.
func (t *ThreadedRodeo[K, PK]) TryInternStatic(s string) (K, error) {
	var zero K
	t.metrics.incIntern()

	h := t.hasher(s)
	fs := t.forwardShardFor(h)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if idx, ok := fs.m[s]; ok {
		t.metrics.incHit()
		k, _ := key.FromIndex[K, PK](idx)
		return k, nil
	}
	t.metrics.incMiss()

	idx := t.nextIdx.Add(1) - 1
	k, ok := key.FromIndex[K, PK](idx)
	if !ok {
		t.metrics.incKeySpaceExhausted()
		return zero, newError(CodeKeySpaceExhausted, s)
	}

	rs := t.reverseShardFor(idx)
	rs.mu.Lock()
	rs.m[idx] = s
	rs.mu.Unlock()

	fs.m[s] = idx
	return k, nil
}

// Get looks up the key for s without inserting.
func (t *ThreadedRodeo[K, PK]) Get(s string) (K, bool) {
	var zero K
	h := t.hasher(s)
	fs := t.forwardShardFor(h)
	fs.mu.RLock()
	idx, ok := fs.m[s]
	fs.mu.RUnlock()
	if !ok {
		return zero, false
	}
	return key.FromIndex[K, PK](idx)
}

// Contains reports whether s has already been interned.
func (t *ThreadedRodeo[K, PK]) Contains(s string) bool {
	_, ok := t.Get(s)
	return ok
}

// ContainsKey reports whether k names a live entry.
func (t *ThreadedRodeo[K, PK]) ContainsKey(k K) bool {
	idx := k.ToIndex()
	rs := t.reverseShardFor(idx)
	rs.mu.RLock()
	_, ok := rs.m[idx]
	rs.mu.RUnlock()
	return ok
}

// Resolve returns the string for k, panicking if k is invalid.
func (t *ThreadedRodeo[K, PK]) Resolve(k K) string {
	s, ok := t.TryResolve(k)
	if !ok {
		panic(fmt.Sprintf("internarena: invalid key (index %d)", k.ToIndex()))
	}
	return s
}

// TryResolve is the non-panicking form of Resolve.
func (t *ThreadedRodeo[K, PK]) TryResolve(k K) (string, bool) {
	idx := k.ToIndex()
	rs := t.reverseShardFor(idx)
	rs.mu.RLock()
	s, ok := rs.m[idx]
	rs.mu.RUnlock()
	return s, ok
}

// ResolveUnchecked resolves k via the same map lookup as TryResolve; for an
// invalid key it returns "" rather than panicking. Kept for symmetry with
// Rodeo's unchecked variant even though the underlying map lookup cannot
// skip its own check.
func (t *ThreadedRodeo[K, PK]) ResolveUnchecked(k K) string {
	s, _ := t.TryResolve(k)
	return s
}

// Len returns the number of distinct strings interned so far. Approximate
// under concurrent writers racing with this call: each shard is summed
// under its own lock, not a global one.
func (t *ThreadedRodeo[K, PK]) Len() int {
	total := 0
	for _, rs := range t.reverse {
		rs.mu.RLock()
		total += len(rs.m)
		rs.mu.RUnlock()
	}
	return total
}

// IsEmpty reports whether Len() == 0.
func (t *ThreadedRodeo[K, PK]) IsEmpty() bool { return t.Len() == 0 }

// Capacity returns the configured shard count, an implementation detail
// exposed for diagnostics only; unlike Rodeo.Capacity it is not a live
// table size, since ThreadedRodeo's shard maps grow on their own.
func (t *ThreadedRodeo[K, PK]) Capacity() int { return len(t.forward) }

// ArenaBytes returns the total bytes currently reserved by the backing
// concurrent arena (bucket capacities, not bytes used).
func (t *ThreadedRodeo[K, PK]) ArenaBytes() int64 { return t.arena.CurrentBytes() }

// SetMaxBytes updates the arena's memory ceiling at runtime. Safe to call
// concurrently with interns; the new ceiling applies to allocations that
// reserve their budget after the store completes.
func (t *ThreadedRodeo[K, PK]) SetMaxBytes(n int64) { t.arena.SetMaxBytes(n) }

// Iter returns an iterator over (key, string) pairs in insertion order, as
// observed at the moment Iter is called. Like Rodeo.Iter, it snapshots a
// private copy up front so later writes never leak through to it; callers
// should quiesce writers first if they need an exact, race-free snapshot
// (Len is already documented as approximate under concurrent writers).
func (t *ThreadedRodeo[K, PK]) Iter() *Iter[K, PK] {
	return newIter[K, PK](t.snapshotStrings())
}

// Strings returns an iterator over interned strings in insertion order.
func (t *ThreadedRodeo[K, PK]) Strings() *StringIter {
	return newStringIter(t.snapshotStrings())
}

func (t *ThreadedRodeo[K, PK]) snapshotStrings() []string {
	n := t.nextIdx.Load()
	out := make([]string, 0, n)
	for idx := uint64(0); idx < n; idx++ {
		rs := t.reverseShardFor(idx)
		rs.mu.RLock()
		s, ok := rs.m[idx]
		rs.mu.RUnlock()
		if ok {
			out = append(out, s)
		}
	}
	return out
}

// IntoReader drains this interner into a ReaderView. The ThreadedRodeo must
// not be used afterward; unlike Rodeo.IntoReader there is no field-nilling
// to enforce that, since shards remain individually lockable, but continuing
// to write to a "frozen" ThreadedRodeo is a logic error the type system does
// not catch.
func (t *ThreadedRodeo[K, PK]) IntoReader() *ReaderView[K, PK] {
	strings := t.snapshotStrings()
	t.logger.Info("internarena: freezing threaded interner into reader", zap.Int("len", len(strings)))
	return newReaderView[K, PK](strings, t.arena.BucketData(), t.hasher, t.cfg.protectOnFreeze)
}

// IntoResolver drains this interner into a ResolverView, dropping both
// direction maps.
func (t *ThreadedRodeo[K, PK]) IntoResolver() *ResolverView[K, PK] {
	strings := t.snapshotStrings()
	t.logger.Info("internarena: freezing threaded interner into resolver", zap.Int("len", len(strings)))
	return newResolverView[K, PK](strings, t.arena.BucketData(), t.cfg.protectOnFreeze)
}

func (t *ThreadedRodeo[K, PK]) arenaError(err error, input string) *Error {
	e := toErrorConcurrent(err, input)
	switch e.Code {
	case CodeMemoryLimitReached:
		t.metrics.incMemoryLimitReached()
		t.logger.Warn("internarena: memory limit reached", zap.Int("input_len", len(input)))
	case CodeAllocationFailed:
		t.metrics.incAllocationFailed()
		t.logger.Error("internarena: allocation failed", zap.Int("input_len", len(input)))
	}
	return e
}

func toErrorConcurrent(err error, input string) *Error {
	if err == concurrentarena.ErrMemoryLimitReached {
		return newError(CodeMemoryLimitReached, input)
	}
	return newError(CodeAllocationFailed, input)
}
