package internarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIterExactSized checks Len reports exactly the remaining pair count at
// every step.
func TestIterExactSized(t *testing.T) {
	r := newDefaultRodeo(t)
	r.Intern("a")
	r.Intern("b")
	r.Intern("c")

	it := r.Iter()
	assert.Equal(t, 3, it.Len())
	_, _, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 2, it.Len())
	it.Next()
	it.Next()
	assert.Equal(t, 0, it.Len())
}

// TestIterFused checks a drained iterator keeps returning ok=false forever
// instead of wrapping or panicking.
func TestIterFused(t *testing.T) {
	r := newDefaultRodeo(t)
	r.Intern("only")

	it := r.Iter()
	_, _, ok := it.Next()
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		_, _, ok = it.Next()
		assert.False(t, ok)
	}
	assert.Equal(t, 0, it.Len())
}

// TestIterKeysPairWithPositions checks each yielded key's index matches the
// string's insertion position (strings[i] paired with from_index(i)).
func TestIterKeysPairWithPositions(t *testing.T) {
	r := newDefaultRodeo(t)
	want := []string{"zero", "one", "two", "three"}
	for _, s := range want {
		r.Intern(s)
	}

	it := r.Iter()
	for i := 0; ; i++ {
		k, s, ok := it.Next()
		if !ok {
			assert.Equal(t, len(want), i)
			break
		}
		assert.Equal(t, uint64(i), k.ToIndex())
		assert.Equal(t, want[i], s)
		assert.Equal(t, s, r.Resolve(k))
	}
}

// TestStringIterExactSizedAndFused mirrors the Iter tests for the
// strings-only iterator.
func TestStringIterExactSizedAndFused(t *testing.T) {
	r := newDefaultRodeo(t)
	r.Intern("p")
	r.Intern("q")

	it := r.Strings()
	assert.Equal(t, 2, it.Len())

	s, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "p", s)

	s, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, "q", s)

	for i := 0; i < 3; i++ {
		_, ok = it.Next()
		assert.False(t, ok)
	}
}

// TestIterDoesNotObserveLaterInterns checks the isolation rule in the
// growth direction too: a pair interned after Iter was created is not
// yielded.
func TestIterDoesNotObserveLaterInterns(t *testing.T) {
	r := newDefaultRodeo(t)
	r.Intern("before")

	it := r.Iter()
	r.Intern("after")

	assert.Equal(t, 1, it.Len())
	_, s, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "before", s)
	_, _, ok = it.Next()
	assert.False(t, ok)
}
