// Package concurrentarena implements the lock-free, multi-writer sibling of
// internal/arena: a singly-linked list of buckets, each with an atomic
// length cursor, that many goroutines may bump-allocate from concurrently.
//
// Algorithm (store): walk buckets head-first, attempting a CAS on each
// bucket's length cursor that reserves [old, old+len(buf)) iff the result
// stays within capacity. On success, copy bytes into the reserved window and
// return. If no existing bucket can host the slice, fall back to allocating
// a new bucket (sized by the same geometric/oversized/memory-cap policy as
// internal/arena) and publish it by CAS-ing it onto the head.
//
// Linearization point: the successful length-cursor CAS, or (slow path) the
// head-pointer CAS that publishes a new bucket. Both give every successful
// Store an Acquire/Release relationship with subsequent readers: a reader
// observing a returned string has also observed every byte written into it,
// because the CAS that reserved the window happens-before the copy only
// from this writer's perspective, but no other writer can overlap the same
// window (the CAS makes the reservation exclusive) and no reader obtains
// the string until Store returns it.
//
// © 2025 internarena authors. MIT License.
package concurrentarena

import (
	"errors"
	"sync/atomic"

	"github.com/Voskan/internarena/internal/unsafehelpers"
)

var (
	// ErrMemoryLimitReached mirrors internal/arena.ErrMemoryLimitReached.
	ErrMemoryLimitReached = errors.New("concurrentarena: memory limit reached")
	// ErrAllocationFailed is returned when the bounded retry budget for
	// publishing a new bucket is exhausted under extreme contention.
	ErrAllocationFailed = errors.New("concurrentarena: allocation failed")
)

const (
	defaultFirstBucketBytes = 4096
	unbounded               = int64(1) << 62
	// maxPublishRetries bounds the CAS loop that prepends a freshly
	// allocated bucket onto the head pointer. Real contention resolves in a
	// handful of iterations; this exists so the algorithm has a documented
	// upper bound rather than spinning forever.
	maxPublishRetries = 64
)

type bucket struct {
	data     []byte
	capacity int64
	length   atomic.Int64
	next     atomic.Pointer[bucket]
}

func newBucket(capBytes int) *bucket {
	b := &bucket{data: make([]byte, capBytes), capacity: int64(capBytes)}
	return b
}

// Arena is a lock-free bump allocator safe for concurrent Store calls from
// any number of goroutines. There is deliberately no Clear method: freeing
// memory that concurrent readers might still be dereferencing cannot be
// made safe without a synchronization barrier this package does not have,
// so the operation is not offered at all.
type Arena struct {
	head     atomic.Pointer[bucket]
	lastCap  atomic.Int64 // capacity of the most recently published non-oversized bucket
	maxBytes atomic.Int64
	total    atomic.Int64
}

// New constructs a concurrent arena with the given first-bucket size and
// optional total-byte ceiling (0 or negative means unbounded).
func New(firstBucketBytes int, maxTotalBytes int64) (*Arena, error) {
	if firstBucketBytes <= 0 {
		firstBucketBytes = defaultFirstBucketBytes
	}
	max := maxTotalBytes
	if max <= 0 {
		max = unbounded
	}
	if int64(firstBucketBytes) > max {
		firstBucketBytes = int(max)
	}
	if firstBucketBytes <= 0 {
		return nil, ErrMemoryLimitReached
	}

	a := &Arena{}
	a.maxBytes.Store(max)
	b := newBucket(firstBucketBytes)
	a.head.Store(b)
	a.lastCap.Store(int64(firstBucketBytes))
	a.total.Store(int64(firstBucketBytes))
	return a, nil
}

// Store copies buf into the arena and returns a string aliasing the copy.
// Safe to call from any number of goroutines concurrently.
func (a *Arena) Store(buf []byte) (string, error) {
	if len(buf) == 0 {
		return "", nil
	}
	need := int64(len(buf))

	for attempt := 0; attempt < maxPublishRetries; attempt++ {
		head := a.head.Load()

		// Bounded walk: try every bucket from the head down the list.
		for b := head; b != nil; b = b.next.Load() {
			if s, ok := tryReserve(b, buf, need); ok {
				return s, nil
			}
		}

		// No existing bucket had room. Allocate and publish a new one.
		s, published, err := a.publishNewBucket(head, buf, need)
		if err != nil {
			return "", err
		}
		if published {
			return s, nil
		}
		// Head moved under us (another writer published first); retry the
		// walk, which now also covers the bucket that just appeared.
	}
	return "", ErrAllocationFailed
}

// tryReserve attempts to CAS-reserve [old, old+need) in b and, on success,
// copies buf into the reserved window.
func tryReserve(b *bucket, buf []byte, need int64) (string, bool) {
	for {
		old := b.length.Load()
		want := old + need
		if want > b.capacity {
			return "", false
		}
		if b.length.CompareAndSwap(old, want) {
			n := copy(b.data[old:want], buf)
			return unsafehelpers.BytesToString(b.data[old : old+int64(n)]), true
		}
		// CAS lost the race to another writer targeting the same bucket;
		// reload and retry against this bucket before giving up on it.
	}
}

// publishNewBucket allocates a bucket sized by the geometric/oversized/cap
// policy and CAS-publishes it onto the head. ok is false (with no error) if
// the head pointer moved before the CAS, signalling the caller should retry
// its walk from the new head instead of assuming failure.
func (a *Arena) publishNewBucket(observedHead *bucket, buf []byte, need int64) (s string, ok bool, err error) {
	planned := a.lastCap.Load() * 2
	if planned <= 0 {
		planned = a.lastCap.Load()
	}

	want := planned
	oversized := need > planned
	if oversized {
		want = need
	}

	size, err := a.reserveBytes(want, need)
	if err != nil {
		return "", false, err
	}

	nb := newBucket(int(size))
	n := copy(nb.data, buf)
	nb.length.Store(int64(n))
	nb.next.Store(observedHead)

	if !a.head.CompareAndSwap(observedHead, nb) {
		// Someone else published a bucket first; give back the reservation
		// we made against the byte budget and let the caller retry.
		a.total.Add(-size)
		return "", false, nil
	}
	if !oversized {
		a.lastCap.Store(size)
	}
	return unsafehelpers.BytesToString(nb.data[:n]), true, nil
}

// reserveBytes atomically reserves `want` bytes against the memory ceiling,
// clamping to the remaining budget. need is the minimum size the caller
// requires (the slice being stored must still fit after clamping).
func (a *Arena) reserveBytes(want, need int64) (int64, error) {
	for {
		cur := a.total.Load()
		max := a.maxBytes.Load()
		remaining := max - cur
		size := want
		if size > remaining {
			size = remaining
		}
		if size <= 0 || size < need {
			return 0, ErrMemoryLimitReached
		}
		if a.total.CompareAndSwap(cur, cur+size) {
			return size, nil
		}
	}
}

// BucketData exposes the raw backing slice of every bucket, head-first, for
// internal/memprotect to mark read-only after a freeze. Callers must not
// retain these slices for writing.
func (a *Arena) BucketData() [][]byte {
	var out [][]byte
	for b := a.head.Load(); b != nil; b = b.next.Load() {
		out = append(out, b.data)
	}
	return out
}

// CurrentBytes returns the total bytes currently reserved across all
// buckets. Advisory: it is updated with a Release-ordered store on
// allocation and observed here without further synchronization; it guides
// cap enforcement but is not a correctness variable.
func (a *Arena) CurrentBytes() int64 { return a.total.Load() }

// SetMaxBytes updates the memory ceiling. A value <= 0 means unbounded.
func (a *Arena) SetMaxBytes(n int64) {
	if n <= 0 {
		n = unbounded
	}
	a.maxBytes.Store(n)
}
