package internarena

// capability.go defines the sealed capability surface: Resolver, Reader
// and Interner. These interfaces can be imported and used as
// parameter/return types, but cannot be implemented outside this package,
// because each embeds an unexported marker method. This is the standard Go
// idiom for a capability hierarchy that mirrors a sealed trait: Rodeo and
// ThreadedRodeo satisfy Interner (and therefore Reader and Resolver too);
// ReaderView satisfies Reader; ResolverView satisfies only Resolver.
//
// © 2025 internarena authors. MIT License.

import "github.com/Voskan/internarena/pkg/key"

// Resolver is the smallest capability: key -> string lookup only. Satisfied
// by ResolverView, ReaderView, Rodeo and ThreadedRodeo.
type Resolver[K key.Key] interface {
	// Resolve returns the string for k, panicking if k was never produced
	// by this container (or one it was frozen/cloned from).
	Resolve(k K) string
	// TryResolve is the non-panicking form of Resolve.
	TryResolve(k K) (string, bool)
	// Len returns the number of distinct strings held.
	Len() int
	// IsEmpty reports whether Len() == 0.
	IsEmpty() bool

	sealed()
}

// Reader adds the reverse direction (string -> key) to Resolver. Satisfied
// by ReaderView, Rodeo and ThreadedRodeo, but not ResolverView.
type Reader[K key.Key] interface {
	Resolver[K]

	// Get looks up the key for s without inserting.
	Get(s string) (K, bool)
	// Contains reports whether s has already been interned.
	Contains(s string) bool
	// ContainsKey reports whether k names a live entry in this container.
	ContainsKey(k K) bool
}

// Interner adds mutation to Reader: the capability to mint new keys.
// Satisfied by Rodeo and ThreadedRodeo only - ReaderView and ResolverView
// are frozen and never satisfy Interner.
type Interner[K key.Key] interface {
	Reader[K]

	// TryIntern interns s, returning its key. A repeat call with an
	// already-seen s returns the same key without allocating.
	TryIntern(s string) (K, error)
}
