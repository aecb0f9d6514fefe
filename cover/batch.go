package cover

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/hdt3213/geocover/geometry"
)

// Batch covers several polygons on a shared goroutine pool and returns one
// result slice per polygon, in input order. Each polygon scans its rows one
// at a time while holding its pool worker, so the pool size bounds the total
// parallelism. The first error cancels the remaining polygons. A progress
// sink passed through opts observes each polygon's cover separately.
func Batch(ctx context.Context, polygons []*geometry.Polygon, precision int, criterion Criterion, opts ...Option) ([][]string, error) {
	if polygons == nil {
		return nil, ErrNullPolygon
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	pool, err := ants.NewPool(o.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]string, len(polygons))
	errs := make([]error, len(polygons))
	var wg sync.WaitGroup
	for i, polygon := range polygons {
		i, polygon := i, polygon
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			hashes, err := Cover(ctx, polygon, precision, criterion, append(opts, WithWorkers(1))...)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			results[i] = hashes
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
			cancel()
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
