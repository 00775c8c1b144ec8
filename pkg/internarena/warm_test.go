package internarena

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Voskan/internarena/pkg/key"
)

// TestWarmConcurrentIngestsWholeBatch checks a large batch lands completely
// with the default worker count.
func TestWarmConcurrentIngestsWholeBatch(t *testing.T) {
	tr := newDefaultThreaded(t)

	batch := make([]string, 1000)
	for i := range batch {
		batch[i] = fmt.Sprintf("warm-%d", i%250) // 4x duplication
	}
	require.NoError(t, WarmConcurrent(context.Background(), tr, batch, 0))

	assert.Equal(t, 250, tr.Len())
	for i := 0; i < 250; i++ {
		assert.True(t, tr.Contains(fmt.Sprintf("warm-%d", i)))
	}
}

// TestWarmConcurrentCanceledContext checks a pre-canceled context surfaces
// as the returned error rather than hanging or silently ingesting.
func TestWarmConcurrentCanceledContext(t *testing.T) {
	tr := newDefaultThreaded(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WarmConcurrent(ctx, tr, []string{"a", "b", "c"}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestWarmConcurrentPropagatesInternError checks the first intern failure
// (here: a memory ceiling too small for the batch) comes back from Wait.
func TestWarmConcurrentPropagatesInternError(t *testing.T) {
	tr, err := NewThreaded[key.KeyPtr, *key.KeyPtr](
		WithCapacity(Capacity{Bytes: 8}), WithMaxByteLimit(8))
	require.NoError(t, err)

	batch := []string{"01234567", "this-string-cannot-fit-in-the-budget"}
	err = WarmConcurrent(context.Background(), tr, batch, 1)
	require.Error(t, err)

	var ie *Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, CodeMemoryLimitReached, ie.Code)
}
