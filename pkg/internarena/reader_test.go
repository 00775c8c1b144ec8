package internarena

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Voskan/internarena/pkg/key"
)

// TestReaderViewBothDirections checks a frozen reader answers string -> key
// and key -> string for every pair the source interner held.
func TestReaderViewBothDirections(t *testing.T) {
	r := newDefaultRodeo(t)

	pairs := map[string]key.KeyPtr{}
	for i := 0; i < 100; i++ {
		s := fmt.Sprintf("symbol-%d", i)
		pairs[s] = r.Intern(s)
	}

	reader := r.IntoReader()
	require.Equal(t, 100, reader.Len())
	for s, k := range pairs {
		assert.Equal(t, s, reader.Resolve(k))
		got, ok := reader.Get(s)
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
}

// TestReaderViewRejectsUnknownStringsAndKeys checks misses on both
// directions stay misses after the freeze.
func TestReaderViewRejectsUnknownStringsAndKeys(t *testing.T) {
	r := newDefaultRodeo(t)
	r.Intern("present")
	reader := r.IntoReader()

	_, ok := reader.Get("absent")
	assert.False(t, ok)
	assert.False(t, reader.Contains("absent"))

	tooBig, ok := key.FromIndex[key.KeyPtr, *key.KeyPtr](99)
	require.True(t, ok)
	_, ok = reader.TryResolve(tooBig)
	assert.False(t, ok)
	assert.False(t, reader.ContainsKey(tooBig))
}

// TestReaderViewSurvivesHashCollisions forces every string onto one hash
// value and checks the reader still distinguishes them by content, the same
// guarantee the live index's resolve-based equality gives.
func TestReaderViewSurvivesHashCollisions(t *testing.T) {
	r := newDefaultRodeo(t, WithHasher(func(string) uint64 { return 42 }))

	ka := r.Intern("alpha")
	kb := r.Intern("beta")
	reader := r.IntoReader()

	got, ok := reader.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, ka, got)

	got, ok = reader.Get("beta")
	require.True(t, ok)
	assert.Equal(t, kb, got)
}

// TestReaderViewConcurrentReads hammers a frozen reader from many
// goroutines with no synchronization: nothing about a frozen view
// ever mutates, so unsynchronized readers are safe.
func TestReaderViewConcurrentReads(t *testing.T) {
	r := newDefaultRodeo(t)
	keys := make([]key.KeyPtr, 50)
	for i := range keys {
		keys[i] = r.Intern(fmt.Sprintf("ro-%d", i))
	}
	reader := r.IntoReader()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, k := range keys {
				assert.Equal(t, fmt.Sprintf("ro-%d", i), reader.Resolve(k))
				_, ok := reader.Get(fmt.Sprintf("ro-%d", i))
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}

// TestReaderViewFromThreadedPreservesIndices checks freezing the concurrent
// interner keeps every key resolving to the same string it did live.
func TestReaderViewFromThreadedPreservesIndices(t *testing.T) {
	tr := newDefaultThreaded(t)

	live := map[string]key.KeyPtr{}
	for i := 0; i < 64; i++ {
		s := fmt.Sprintf("threaded-%d", i)
		live[s] = tr.Intern(s)
	}

	reader := tr.IntoReader()
	for s, k := range live {
		assert.Equal(t, s, reader.Resolve(k))
	}
}

// TestReaderViewIterInsertionOrder checks the frozen iterator walks pairs
// in the order they were interned, with keys matching their positions.
func TestReaderViewIterInsertionOrder(t *testing.T) {
	r := newDefaultRodeo(t)
	want := []string{"first", "second", "third"}
	for _, s := range want {
		r.Intern(s)
	}

	it := r.IntoReader().Iter()
	assert.Equal(t, len(want), it.Len())
	for i, w := range want {
		k, s, ok := it.Next()
		require.True(t, ok)
		assert.Equal(t, uint64(i), k.ToIndex())
		assert.Equal(t, w, s)
	}
	_, _, ok := it.Next()
	assert.False(t, ok)
}
