// Package bench provides reproducible micro-benchmarks for internarena.
// Run via:  go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// The benchmarks intentionally use a *single* dataset shape so results are
// comparable across versions:
//   • Key    – key.Key32 (fits in register, the common choice)
//   • Corpus – 1M strings drawn from a deterministic seeded generator,
//     14–19 bytes each, Zipf-skewed so repeats dominate the way identifier
//     workloads do in practice
//
// We measure:
//   1. Intern          – write-heavy workload against the single-writer Rodeo
//   2. Get             – read-only workload (after warm-up)
//   3. InternParallel  – highly concurrent interning (b.RunParallel) against
//                        ThreadedRodeo
//   4. Resolve         – key → string on a frozen ResolverView
//
// Results are printed in ns/op + alloc/op so CI can diff via benchstat.
//
// NOTE: Unit tests live elsewhere; this file is *only* for performance.
//
// © 2025 internarena authors. MIT License.

package bench

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/Voskan/internarena/pkg/internarena"
	"github.com/Voskan/internarena/pkg/key"
)

const corpusSize = 1 << 20 // 1M strings in the shared dataset

// global dataset reused across benches to avoid reallocating large slices.
// Each string pairs a Zipf draw over 64k base identifiers with a second Zipf
// draw taken mod 100 as a suffix: most draws repeat, exactly the workload
// interning exists for.
var ds = func() []string {
	rnd := rand.New(rand.NewSource(42))
	z := rand.NewZipf(rnd, 1.2, 1.0, 1<<16-1)
	arr := make([]string, corpusSize)
	for i := range arr {
		arr[i] = fmt.Sprintf("identifier_%d_%d", z.Uint64(), z.Uint64()%100)
	}
	return arr
}()

func newRodeo(b *testing.B) *internarena.Rodeo[key.Key32, *key.Key32] {
	b.Helper()
	r, err := internarena.New[key.Key32, *key.Key32]()
	if err != nil {
		b.Fatal(err)
	}
	return r
}

func BenchmarkIntern(b *testing.B) {
	r := newRodeo(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.TryIntern(ds[i&(corpusSize-1)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGet(b *testing.B) {
	r := newRodeo(b)
	// pre-populate (warm-up)
	for _, s := range ds {
		if _, err := r.TryIntern(s); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Get(ds[i&(corpusSize-1)])
	}
}

func BenchmarkInternParallel(b *testing.B) {
	tr, err := internarena.NewThreaded[key.Key32, *key.Key32]()
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		idx := rand.Intn(corpusSize)
		for pb.Next() {
			idx = (idx + 1) & (corpusSize - 1)
			_, _ = tr.TryIntern(ds[idx])
		}
	})
}

func BenchmarkResolve(b *testing.B) {
	r := newRodeo(b)
	keys := make([]key.Key32, 0, corpusSize)
	for _, s := range ds {
		k, err := r.TryIntern(s)
		if err != nil {
			b.Fatal(err)
		}
		keys = append(keys, k)
	}
	resolver := r.IntoResolver()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resolver.Resolve(keys[i&(corpusSize-1)])
	}
}
