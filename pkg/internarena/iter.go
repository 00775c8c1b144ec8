package internarena

// iter.go implements the finite, exact-sized, fused iterators exposed by
// Rodeo.Iter/Strings and ReaderView.Iter/Strings. Rodeo hands both
// iterators a private copy of its strings at creation time, so neither
// observes a Clear or a later Intern performed on the source afterward;
// ReaderView hands them its own frozen slice, which never changes.
//
// © 2025 internarena authors. MIT License.

import "github.com/Voskan/internarena/pkg/key"

// Iter walks (key, string) pairs in insertion order. The zero value is not
// usable; obtain one via Rodeo.Iter or ReaderView.Iter.
type Iter[K key.Key, PK key.Constructible[K]] struct {
	strings []string
	pos     int
}

func newIter[K key.Key, PK key.Constructible[K]](strings []string) *Iter[K, PK] {
	return &Iter[K, PK]{strings: strings}
}

// Next advances the iterator, returning ok=false once exhausted. Fused: once
// exhausted, it keeps returning ok=false rather than panicking or wrapping.
func (it *Iter[K, PK]) Next() (k K, s string, ok bool) {
	if it.pos >= len(it.strings) {
		return k, "", false
	}
	idx := it.pos
	it.pos++
	mintedKey, mintOk := key.FromIndex[K, PK](uint64(idx))
	if !mintOk {
		// Unreachable: idx was already a valid, previously minted index.
		return k, "", false
	}
	return mintedKey, it.strings[idx], true
}

// Len returns the exact number of remaining pairs.
func (it *Iter[K, PK]) Len() int { return len(it.strings) - it.pos }

// StringIter walks interned strings in insertion order, without keys.
type StringIter struct {
	strings []string
	pos     int
}

func newStringIter(strings []string) *StringIter {
	return &StringIter{strings: strings}
}

// Next advances the iterator, returning ok=false once exhausted.
func (it *StringIter) Next() (s string, ok bool) {
	if it.pos >= len(it.strings) {
		return "", false
	}
	s = it.strings[it.pos]
	it.pos++
	return s, true
}

// Len returns the exact number of remaining strings.
func (it *StringIter) Len() int { return len(it.strings) - it.pos }
