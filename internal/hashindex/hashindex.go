// Package hashindex implements the custom open-addressing hash table that
// backs the single-writer interner's string -> key lookups.
//
// The table never stores string bytes: each slot holds only a hash and a
// bare Key. Equality between a candidate string and a stored entry is
// checked by dereferencing the entry's key back to its backing string
// through a caller-supplied resolve function (an indirection into the
// interner's own strings list). This is the same "keys only, dereference to
// compare" design as philpearl/intern's stringbank-backed table, adapted
// from a fixed int32 offset to a generic key.Key, and from a single resize
// trigger to the same incremental, amortized-over-every-call resize
// philpearl uses so that no single Insert pays for a full rehash.
//
// Index is a single-writer type: all exported methods assume the caller
// already serializes access (exactly like internal/arena).
//
// © 2025 internarena authors. MIT License.
package hashindex

import "github.com/Voskan/internarena/pkg/key"

const (
	minCapacity  = 16
	loadFactor   = 3 // numerator; denominator is 4 (i.e. 75% load factor)
	migrateBatch = 16
)

type entry[K key.Key] struct {
	hash uint64
	key  K
	used bool
}

// Index is an open-addressing hash table mapping string hashes to bare Key
// values, generic over any concrete key.Key implementation.
type Index[K key.Key] struct {
	table     []entry[K]
	oldTable  []entry[K]
	oldCursor int
	count     int
}

// New constructs an index pre-sized for roughly capacityHint distinct
// strings.
func New[K key.Key](capacityHint int) *Index[K] {
	n := minCapacity
	for n < capacityHint {
		n *= 2
	}
	return &Index[K]{table: make([]entry[K], n)}
}

// Len returns the number of keys currently stored.
func (ix *Index[K]) Len() int { return ix.count }

// Cap returns the size of the live table (advisory during a resize, since a
// second, shrinking oldTable may still be in flight).
func (ix *Index[K]) Cap() int { return len(ix.table) }

// Lookup returns the key stored for a string with the given precomputed
// hash, or ok=false if absent. resolve dereferences a candidate key back to
// its backing string for the final byte comparison.
func (ix *Index[K]) Lookup(hash uint64, s string, resolve func(K) string) (k K, ok bool) {
	ix.migrateStep()

	if ix.oldTable != nil {
		if k, ok = ix.findInTable(ix.oldTable, hash, s, resolve); ok {
			return k, true
		}
	}
	return ix.findInTable(ix.table, hash, s, resolve)
}

// Insert records a new (hash, key) pair. The caller must have already
// confirmed via Lookup that no equal string is present; Insert does not
// re-check.
func (ix *Index[K]) Insert(hash uint64, k K) {
	ix.migrateStep()
	ix.growIfNeeded()
	insertInto(ix.table, entry[K]{hash: hash, key: k, used: true})
	ix.count++
}

func (ix *Index[K]) findInTable(table []entry[K], hash uint64, s string, resolve func(K) string) (k K, ok bool) {
	mask := uint64(len(table) - 1)
	cursor := hash & mask
	start := cursor
	for table[cursor].used {
		e := &table[cursor]
		if e.hash == hash && resolve(e.key) == s {
			return e.key, true
		}
		cursor = (cursor + 1) & mask
		if cursor == start {
			break // table full of collisions; caller's resize keeps this unreachable
		}
	}
	return k, false
}

func insertInto[K key.Key](table []entry[K], e entry[K]) {
	mask := uint64(len(table) - 1)
	cursor := e.hash & mask
	start := cursor
	for table[cursor].used {
		cursor = (cursor + 1) & mask
		if cursor == start {
			panic("hashindex: table unexpectedly full")
		}
	}
	table[cursor] = e
}

// growIfNeeded starts a resize when the live table crosses its load factor.
// The actual data movement happens incrementally in migrateStep, spread
// across subsequent calls, so no single Insert/Lookup pays for a full
// rehash.
func (ix *Index[K]) growIfNeeded() {
	if ix.oldTable != nil {
		return
	}
	if ix.count+1 <= len(ix.table)*loadFactor/4 {
		return
	}
	ix.oldTable, ix.table = ix.table, make([]entry[K], len(ix.table)*2)
	ix.oldCursor = 0
}

// migrateStep copies a fixed-size batch of entries from oldTable into
// table. Called on every Lookup/Insert so a resize that starts during a
// burst of inserts always completes before the old table could be needed
// again at a larger size.
func (ix *Index[K]) migrateStep() {
	if ix.oldTable == nil {
		return
	}
	end := ix.oldCursor + migrateBatch
	if end > len(ix.oldTable) {
		end = len(ix.oldTable)
	}
	for _, e := range ix.oldTable[ix.oldCursor:end] {
		if e.used {
			insertInto(ix.table, e)
		}
	}
	ix.oldCursor = end
	if ix.oldCursor >= len(ix.oldTable) {
		ix.oldTable = nil
		ix.oldCursor = 0
	}
}
