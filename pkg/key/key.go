// Package key defines the compact integer handles interners hand out in
// place of strings.
//
// A Key is a total, lossless bijection between a bounded range of
// non-negative indices and a small value type: ToIndex/TryFromIndex must be
// perfectly symmetrical, and TryFromIndex(n) must succeed iff n is less than
// the variant's fixed MAX. Each concrete variant below stores "index + 1"
// internally (a NonZero-style representation) so that the zero value of the
// type doubles as the absent/invalid sentinel, without needing a separate
// boolean or pointer to express "no key".
//
// © 2025 internarena authors. MIT License.
package key

import "math"

// Key is the capability every key type provides to a Rodeo/ThreadedRodeo:
// comparability (for map indexing) plus the ability to report its own
// zero-based index.
type Key interface {
	comparable
	ToIndex() uint64
}

// Constructible pairs a concrete Key value type with its pointer-receiver
// constructor. Go generics have no static dispatch on a type parameter, so
// the constructor is expressed as a method on *K rather than an associated
// function of K.
type Constructible[K any] interface {
	*K
	Key
	TryFromIndex(n uint64) bool
}

// FromIndex builds a K from a zero-based index, returning ok=false if n is
// out of range for K's width. from_index(n) succeeds iff n < MAX.
func FromIndex[K any, PK Constructible[K]](n uint64) (k K, ok bool) {
	ok = PK(&k).TryFromIndex(n)
	return k, ok
}

// Default returns the key representing index 0, matching every variant's
// zero-value-plus-one encoding rule.
func Default[K any, PK Constructible[K]]() K {
	k, _ := FromIndex[K, PK](0)
	return k
}

// Key8 is an 8-bit key. MAX = 255: valid indices are [0, 254].
type Key8 struct{ idx uint8 }

// ToIndex returns the zero-based index this key represents.
func (k Key8) ToIndex() uint64 { return uint64(k.idx) - 1 }

// TryFromIndex sets the receiver to the key for index n, returning false
// (leaving the receiver untouched) when n is out of range.
func (k *Key8) TryFromIndex(n uint64) bool {
	if n >= math.MaxUint8 {
		return false
	}
	k.idx = uint8(n) + 1
	return true
}

// Key16 is a 16-bit key. MAX = 65535: valid indices are [0, 65534].
type Key16 struct{ idx uint16 }

func (k Key16) ToIndex() uint64 { return uint64(k.idx) - 1 }

func (k *Key16) TryFromIndex(n uint64) bool {
	if n >= math.MaxUint16 {
		return false
	}
	k.idx = uint16(n) + 1
	return true
}

// Key32 is a 32-bit key. MAX = 4294967295: valid indices are [0, 4294967294].
type Key32 struct{ idx uint32 }

func (k Key32) ToIndex() uint64 { return uint64(k.idx) - 1 }

func (k *Key32) TryFromIndex(n uint64) bool {
	if n >= math.MaxUint32 {
		return false
	}
	k.idx = uint32(n) + 1
	return true
}

// KeyPtr is a pointer-width key (the default recommended variant: cheapest
// to construct on the host's native word size, matching lasso's LargeSpur).
// MAX = platform uint max: valid indices are [0, MaxUint-1].
type KeyPtr struct{ idx uint }

func (k KeyPtr) ToIndex() uint64 { return uint64(k.idx) - 1 }

func (k *KeyPtr) TryFromIndex(n uint64) bool {
	if n >= math.MaxUint {
		return false
	}
	k.idx = uint(n) + 1
	return true
}
