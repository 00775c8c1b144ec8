package internarena

// reader.go implements ReaderView: the frozen, read-only view produced by
// Rodeo.IntoReader/ThreadedRodeo.IntoReader (lasso calls it RodeoReader).
// It keeps both lookup directions (string -> key via the hash index,
// key -> string via the string list) but can never mint a new key: that
// capability is simply absent from its method set.
//
// © 2025 internarena authors. MIT License.

import (
	"github.com/Voskan/internarena/internal/memprotect"
	"github.com/Voskan/internarena/pkg/key"
	"go.uber.org/zap"
)

// ReaderView is an immutable, frozen interner view supporting both
// directions of lookup. Safe for unsynchronized concurrent reads from
// multiple goroutines: nothing about it ever mutates again.
type ReaderView[K key.Key, PK key.Constructible[K]] struct {
	strings []string
	byHash  map[uint64][]K // secondary lookup structure frozen at build time
	hasher  Hasher
}

// newReaderView builds a ReaderView from a frozen string list. buckets, when
// non-nil, are the arena's raw backing slices; passing protect=true marks
// them read-only via internal/memprotect once the view is fully built. The
// caller's arena (single-writer or concurrent) is intentionally not
// referenced here: any string in strings aliases into one of those bucket
// slices via an unsafe conversion, which keeps the backing array reachable
// to the garbage collector for as long as the string itself is.
func newReaderView[K key.Key, PK key.Constructible[K]](strings []string, buckets [][]byte, hasher Hasher, protect bool) *ReaderView[K, PK] {
	rv := &ReaderView[K, PK]{
		strings: strings,
		byHash:  make(map[uint64][]K, len(strings)),
		hasher:  hasher,
	}
	for i, s := range strings {
		k, ok := key.FromIndex[K, PK](uint64(i))
		if !ok {
			continue
		}
		h := hasher(s)
		rv.byHash[h] = append(rv.byHash[h], k)
	}
	if protect {
		protectBuckets(buckets, zap.NewNop())
	}
	return rv
}

func (r *ReaderView[K, PK]) sealed() {}

// Get looks up the key for s.
func (r *ReaderView[K, PK]) Get(s string) (K, bool) {
	var zero K
	h := r.hasher(s)
	for _, k := range r.byHash[h] {
		if r.strings[k.ToIndex()] == s {
			return k, true
		}
	}
	return zero, false
}

// Contains reports whether s was present when this view was frozen.
func (r *ReaderView[K, PK]) Contains(s string) bool {
	_, ok := r.Get(s)
	return ok
}

// ContainsKey reports whether k names a valid entry in this view.
func (r *ReaderView[K, PK]) ContainsKey(k K) bool {
	return k.ToIndex() < uint64(len(r.strings))
}

// Resolve returns the string for k, panicking if k is invalid.
func (r *ReaderView[K, PK]) Resolve(k K) string {
	s, ok := r.TryResolve(k)
	if !ok {
		panic("internarena: invalid key passed to ReaderView.Resolve")
	}
	return s
}

// TryResolve is the non-panicking form of Resolve.
func (r *ReaderView[K, PK]) TryResolve(k K) (string, bool) {
	idx := k.ToIndex()
	if idx >= uint64(len(r.strings)) {
		return "", false
	}
	return r.strings[idx], true
}

// ResolveUnchecked resolves k without bounds validation.
func (r *ReaderView[K, PK]) ResolveUnchecked(k K) string {
	return r.strings[k.ToIndex()]
}

// Len returns the number of strings this view holds.
func (r *ReaderView[K, PK]) Len() int { return len(r.strings) }

// IsEmpty reports whether Len() == 0.
func (r *ReaderView[K, PK]) IsEmpty() bool { return len(r.strings) == 0 }

// Iter returns an iterator over (key, string) pairs in insertion order.
func (r *ReaderView[K, PK]) Iter() *Iter[K, PK] {
	return newIter[K, PK](r.strings)
}

// Strings returns an iterator over interned strings in insertion order.
func (r *ReaderView[K, PK]) Strings() *StringIter {
	return newStringIter(r.strings)
}

func protectBuckets(buckets [][]byte, logger *zap.Logger) {
	for _, data := range buckets {
		if err := memprotect.Protect(data); err != nil {
			logger.Warn("internarena: failed to mprotect frozen arena bucket", zap.Error(err))
		}
	}
}
