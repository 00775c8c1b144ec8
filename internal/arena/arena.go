// Package arena implements the bump-allocating, append-only byte storage
// that backs every string a single-writer interner hands out: a plain,
// portable bump allocator built from ordinary byte slices. Each bucket is a
// contiguous []byte with a length cursor, buckets grow geometrically, and
// oversized inputs get a dedicated bucket sized exactly to fit them.
//
// Arena is *not* safe for concurrent use; callers (pkg/internarena.Rodeo)
// already serialize access to it. See internal/concurrentarena for the
// lock-free multi-writer sibling.
//
// ⚠️ Returned strings alias bucket-owned memory via an unsafe, zero-copy
// conversion (internal/unsafehelpers.BytesToString). They are valid until
// the arena is Cleared or dropped — callers must not let them escape past
// the owning interner's lifetime.
//
// © 2025 internarena authors. MIT License.
package arena

import (
	"errors"

	"github.com/Voskan/internarena/internal/unsafehelpers"
)

// Sentinel errors returned by Store. Callers map these onto the three-kind
// error model in pkg/internarena.
var (
	// ErrMemoryLimitReached means the configured MaxBytes ceiling would be
	// exceeded by this allocation; the arena is unchanged.
	ErrMemoryLimitReached = errors.New("arena: memory limit reached")
	// ErrAllocationFailed is returned on host-allocator failure (practically
	// unreachable in Go, which panics on true OOM, but kept for parity with
	// the three-kind error taxonomy and as a defensive guard against
	// pathological bucket sizes).
	ErrAllocationFailed = errors.New("arena: allocation failed")
)

const (
	// defaultFirstBucketBytes matches pkg/internarena's DefaultCapacity.
	defaultFirstBucketBytes = 4096
	// unbounded is used internally when the caller does not set a memory
	// ceiling; it keeps the cap-enforcement code path uniform.
	unbounded = int64(1) << 62
)

type bucket struct {
	data []byte // len(data) == cap; [0:used) is initialized and borrowed out
	used int
}

func newBucket(capBytes int) *bucket {
	return &bucket{data: make([]byte, capBytes)}
}

func (b *bucket) remaining() int { return len(b.data) - b.used }

// Arena is a single-writer bump allocator. The zero value is not usable;
// construct one with New.
type Arena struct {
	buckets  []*bucket // all buckets ever allocated; tail is always last
	tailCap  int       // capacity of the bucket growth is measured against
	maxBytes int64     // 0 from New() is normalized to `unbounded`
	total    int64     // sum of bucket capacities allocated so far
}

// New constructs an arena whose first bucket is firstBucketBytes bytes, with
// an optional total-byte ceiling (0 or negative means unbounded).
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

	a := &Arena{maxBytes: max}
	b := newBucket(firstBucketBytes)
	a.buckets = append(a.buckets, b)
	a.tailCap = firstBucketBytes
	a.total = int64(firstBucketBytes)
	return a, nil
}

// tail returns the bucket that currently serves geometrically-growing small
// allocations. It is always the last element of a.buckets.
func (a *Arena) tail() *bucket { return a.buckets[len(a.buckets)-1] }

// Store copies buf into the arena and returns a string aliasing the copy.
// Empty slices are never stored: the arena returns "" directly, per the
// empty-string policy (this keeps CurrentBytes accurate and preserves "any
// stored slice has length >= 1").
func (a *Arena) Store(buf []byte) (string, error) {
	if len(buf) == 0 {
		return "", nil
	}

	t := a.tail()
	if t.remaining() >= len(buf) {
		return a.copyInto(t, buf), nil
	}

	// Tail has no room. Decide between the oversized-string path and the
	// normal geometric-growth path.
	planned := a.tailCap * 2
	if planned <= 0 { // overflow guard for pathological tailCap
		planned = a.tailCap
	}

	if len(buf) > planned {
		// Large-string policy: a dedicated bucket sized exactly to buf,
		// inserted behind the current tail so the tail keeps serving future
		// small allocations.
		size, err := a.reserve(len(buf), len(buf))
		if err != nil {
			return "", err
		}
		nb := newBucket(size)
		i := len(a.buckets) - 1
		a.buckets = append(a.buckets, nil)
		copy(a.buckets[i+1:], a.buckets[i:])
		a.buckets[i] = nb
		return a.copyInto(nb, buf), nil
	}

	// Normal growth path: allocate a new, doubled tail.
	size, err := a.reserve(planned, len(buf))
	if err != nil {
		return "", err
	}
	nb := newBucket(size)
	a.buckets = append(a.buckets, nb)
	a.tailCap = size
	return a.copyInto(nb, buf), nil
}

// reserve validates and clamps a planned bucket size against the memory
// ceiling, accounting for it in a.total on success. need is the minimum size
// that must remain after clamping (the slice being stored must still fit).
func (a *Arena) reserve(want, need int) (int, error) {
	remaining := a.maxBytes - a.total
	size := want
	if int64(size) > remaining {
		size = int(remaining)
	}
	if size <= 0 || size < need {
		return 0, ErrMemoryLimitReached
	}
	a.total += int64(size)
	return size, nil
}

func (a *Arena) copyInto(b *bucket, buf []byte) string {
	start := b.used
	n := copy(b.data[start:], buf)
	b.used += n
	return unsafehelpers.BytesToString(b.data[start : start+n])
}

// Clear resets every bucket's length cursor to zero without deallocating.
// All previously returned strings become dangling: it is the caller's
// responsibility to ensure none survive a Clear.
func (a *Arena) Clear() {
	for _, b := range a.buckets {
		b.used = 0
	}
}

// BucketData exposes the raw backing slice of every bucket, in allocation
// order, for internal/memprotect to mark read-only after a freeze. Callers
// must not retain these slices for writing.
func (a *Arena) BucketData() [][]byte {
	out := make([][]byte, len(a.buckets))
	for i, b := range a.buckets {
		out[i] = b.data
	}
	return out
}

// CurrentBytes returns the total bytes currently reserved across all
// buckets (bucket capacities, not bytes used -- this is what the memory
// ceiling is measured against).
func (a *Arena) CurrentBytes() int64 { return a.total }

// SetMaxBytes updates the memory ceiling. A value <= 0 means unbounded.
// Lowering the ceiling below CurrentBytes does not shrink existing buckets;
// it only affects future Store calls.
func (a *Arena) SetMaxBytes(n int64) {
	if n <= 0 {
		n = unbounded
	}
	a.maxBytes = n
}
