package hashindex

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Voskan/internarena/pkg/key"
)

// backing is a tiny stand-in for an interner's strings list: the hash index
// never stores string bytes itself, only keys, and dereferences through a
// resolve closure exactly like pkg/internarena.Rodeo does.
type backing struct {
	strings []string
}

func (b *backing) resolve(k key.Key32) string { return b.strings[k.ToIndex()] }

func (b *backing) insert(ix *Index[key.Key32], hash func(string) uint64, s string) key.Key32 {
	k, ok := key.FromIndex[key.Key32, *key.Key32](uint64(len(b.strings)))
	if !ok {
		panic("test: key space exhausted")
	}
	b.strings = append(b.strings, s)
	ix.Insert(hash(s), k)
	return k
}

func simpleHash(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// TestLookupMissOnEmptyIndex checks a fresh index reports every lookup as a
// miss.
func TestLookupMissOnEmptyIndex(t *testing.T) {
	ix := New[key.Key32](0)
	b := &backing{}
	_, ok := ix.Lookup(simpleHash("anything"), "anything", b.resolve)
	assert.False(t, ok)
}

// TestInsertThenLookupHits verifies a string inserted once is found by a
// later Lookup with the same hash and content.
func TestInsertThenLookupHits(t *testing.T) {
	ix := New[key.Key32](0)
	b := &backing{}

	k := b.insert(ix, simpleHash, "hello")

	got, ok := ix.Lookup(simpleHash("hello"), "hello", b.resolve)
	require.True(t, ok)
	assert.Equal(t, k, got)
}

// TestLookupDistinguishesHashCollisions checks that two different strings
// sharing a hash bucket slot are still distinguished by the resolve-based
// equality check, not just the hash.
func TestLookupDistinguishesHashCollisions(t *testing.T) {
	ix := New[key.Key32](0)
	b := &backing{}

	// Force a fabricated collision by inserting with an identical hash for
	// two different strings.
	const sharedHash = uint64(42)
	k1, ok1 := key.FromIndex[key.Key32, *key.Key32](uint64(len(b.strings)))
	require.True(t, ok1)
	b.strings = append(b.strings, "alpha")
	ix.Insert(sharedHash, k1)

	k2, ok2 := key.FromIndex[key.Key32, *key.Key32](uint64(len(b.strings)))
	require.True(t, ok2)
	b.strings = append(b.strings, "beta")
	ix.Insert(sharedHash, k2)

	got1, ok := ix.Lookup(sharedHash, "alpha", b.resolve)
	require.True(t, ok)
	assert.Equal(t, k1, got1)

	got2, ok := ix.Lookup(sharedHash, "beta", b.resolve)
	require.True(t, ok)
	assert.Equal(t, k2, got2)
}

// TestIncrementalResizeSurvivesHeavyInsertion drives enough inserts to cross
// several load-factor thresholds and checks that every previously inserted
// string is still reachable throughout (the amortized migration must never
// drop or duplicate an entry).
func TestIncrementalResizeSurvivesHeavyInsertion(t *testing.T) {
	ix := New[key.Key32](0)
	b := &backing{}

	const n = 2000
	keys := make([]key.Key32, 0, n)
	for i := 0; i < n; i++ {
		s := fmt.Sprintf("item-%d", i)
		keys = append(keys, b.insert(ix, simpleHash, s))
	}

	assert.Equal(t, n, ix.Len())

	for i := 0; i < n; i++ {
		s := fmt.Sprintf("item-%d", i)
		got, ok := ix.Lookup(simpleHash(s), s, b.resolve)
		require.True(t, ok, "item %d should still be found", i)
		assert.Equal(t, keys[i], got)
	}
}
