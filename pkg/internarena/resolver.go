package internarena

// resolver.go implements ResolverView: the minimal frozen view that
// supports only key -> string lookups, dropping the hash index entirely
// (lasso calls it RodeoResolver). It exists so a consumer that only ever
// resolves keys (e.g. a deserializer replaying previously-interned keys
// from a wire format) doesn't pay for a lookup structure it will never
// query.
//
// © 2025 internarena authors. MIT License.

import (
	"github.com/Voskan/internarena/pkg/key"
	"go.uber.org/zap"
)

// ResolverView is an immutable, frozen view supporting only key -> string
// lookups. Safe for unsynchronized concurrent reads.
type ResolverView[K key.Key, PK key.Constructible[K]] struct {
	strings []string
}

// newResolverView builds a ResolverView from a frozen string list; see
// newReaderView's comment on why no arena reference needs to be retained
// for liveness, only (optionally) for mprotect.
func newResolverView[K key.Key, PK key.Constructible[K]](strings []string, buckets [][]byte, protect bool) *ResolverView[K, PK] {
	rv := &ResolverView[K, PK]{strings: strings}
	if protect {
		protectBuckets(buckets, zap.NewNop())
	}
	return rv
}

func (r *ResolverView[K, PK]) sealed() {}

// Resolve returns the string for k, panicking if k is invalid.
func (r *ResolverView[K, PK]) Resolve(k K) string {
	s, ok := r.TryResolve(k)
	if !ok {
		panic("internarena: invalid key passed to ResolverView.Resolve")
	}
	return s
}

// TryResolve is the non-panicking form of Resolve.
func (r *ResolverView[K, PK]) TryResolve(k K) (string, bool) {
	idx := k.ToIndex()
	if idx >= uint64(len(r.strings)) {
		return "", false
	}
	return r.strings[idx], true
}

// ResolveUnchecked resolves k without bounds validation.
func (r *ResolverView[K, PK]) ResolveUnchecked(k K) string {
	return r.strings[k.ToIndex()]
}

// Len returns the number of strings this view holds.
func (r *ResolverView[K, PK]) Len() int { return len(r.strings) }

// IsEmpty reports whether Len() == 0.
func (r *ResolverView[K, PK]) IsEmpty() bool { return len(r.strings) == 0 }

// Strings returns an iterator over interned strings in insertion order.
func (r *ResolverView[K, PK]) Strings() *StringIter {
	return newStringIter(r.strings)
}
