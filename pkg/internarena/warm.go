package internarena

// warm.go adds a bulk-ingest helper over ThreadedRodeo. It fans a batch of
// strings out across a worker pool and interns each one concurrently,
// collecting the first error via errgroup.Group. No singleflight layer is
// needed: the per-shard write lock in TryIntern already gives exactly-once
// insertion for a racing duplicate, so there is nothing left for
// de-duplication middleware to do.
//
// © 2025 internarena authors. MIT License.

import (
	"context"
	"runtime"

	"github.com/Voskan/internarena/pkg/key"
	"golang.org/x/sync/errgroup"
)

// WarmConcurrent interns every string in batch using up to workers
// goroutines, returning the first error encountered (if any). workers <= 0
// defaults to runtime.GOMAXPROCS(0). The call returns once every string has
// either been interned or the context was canceled.
func WarmConcurrent[K key.Key, PK key.Constructible[K]](ctx context.Context, t *ThreadedRodeo[K, PK], batch []string, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, s := range batch {
		s := s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := t.TryIntern(s)
			return err
		})
	}
	return g.Wait()
}
