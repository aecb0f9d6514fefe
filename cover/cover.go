// Package cover enumerates the geohash cells matching a polygon at a fixed
// precision. Polygons crossing the antimeridian are split first; each piece
// is gridded at the precision's native cell size and scanned in parallel
// across latitude rows.
package cover

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/hdt3213/geocover/datastruct/set"
	"github.com/hdt3213/geocover/geohash"
	"github.com/hdt3213/geocover/geometry"
	"github.com/hdt3213/geocover/lib/logger"
)

// Criterion selects which cells a cover includes.
type Criterion int

const (
	// Contains includes a cell iff its bounding box is fully inside the
	// polygon; boundary contact excludes.
	Contains Criterion = iota
	// Intersects includes a cell iff its bounding box shares any area, edge
	// or point with the polygon.
	Intersects
)

// Errors returned by Cover.
var (
	ErrNullPolygon        = errors.New("cover: nil polygon")
	ErrMultiMeridianSplit = errors.New("cover: polygon requires splitting at more than one meridian")
)

type options struct {
	workers  int
	progress func(float64)
}

// Option customizes a Cover call.
type Option func(*options)

// WithWorkers sets the number of latitude rows scanned concurrently.
// Defaults to the host's available parallelism.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithProgress installs a sink receiving completion fractions in [0, 1].
// Reports are strictly monotone without duplicates; 1.0 is delivered exactly
// once when the cover completes.
func WithProgress(sink func(float64)) Option {
	return func(o *options) {
		o.progress = sink
	}
}

func defaultOptions() *options {
	return &options{
		workers: runtime.NumCPU(),
	}
}

// Cover returns the geohash cells of the given precision matching the
// polygon under the criterion, in unspecified order. The context cancels
// the scan between latitude rows; a cancelled call returns the context
// error with no partial result.
func Cover(ctx context.Context, polygon *geometry.Polygon, precision int, criterion Criterion, opts ...Option) ([]string, error) {
	if polygon == nil {
		return nil, ErrNullPolygon
	}
	if precision < geohash.MinPrecision || precision > geohash.MaxPrecision {
		return nil, fmt.Errorf("%w: %d", geohash.ErrInvalidPrecision, precision)
	}
	if criterion != Contains && criterion != Intersects {
		return nil, fmt.Errorf("cover: unknown criterion %d", int(criterion))
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = 1
	}

	tracker := newTracker(o.progress)
	if polygon.Empty() {
		tracker.finish()
		return []string{}, nil
	}
	if err := polygon.Validate(); err != nil {
		return nil, err
	}

	pieces, err := splitAntimeridian(polygon)
	if err != nil {
		return nil, err
	}
	latStep, lngStep, err := geohash.CellSize(precision)
	if err != nil {
		return nil, err
	}

	grids := make([]grid, 0, len(pieces))
	totalRows := 0
	for _, piece := range pieces {
		g := makeGrid(piece, latStep, lngStep)
		if g.rows() <= 0 || g.cols() <= 0 {
			continue
		}
		grids = append(grids, g)
		totalRows += g.rows()
	}
	logger.Debugf("cover: precision=%d pieces=%d rows=%d workers=%d", precision, len(grids), totalRows, o.workers)
	tracker.start(totalRows)
	if totalRows == 0 {
		tracker.finish()
		return []string{}, nil
	}

	results := set.MakeConcurrent(o.workers * 4)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for _, g := range grids {
		g := g
		for latIdx := g.minLatIdx; latIdx < g.maxLatIdx; latIdx++ {
			latIdx := latIdx
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				g.scanRow(latIdx, precision, criterion, results)
				tracker.rowDone()
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		logger.Debugf("cover: aborted: %v", err)
		return nil, err
	}
	tracker.finish()
	return results.ToSlice(), nil
}

// grid is one antimeridian piece mapped onto integer cell indices. Cell
// (latIdx, lngIdx) spans [latIdx*latStep, (latIdx+1)*latStep) by
// [lngIdx*lngStep, (lngIdx+1)*lngStep), which lines up exactly with the
// geohash cells of the precision the steps were derived from.
type grid struct {
	piece   *geometry.Polygon
	latStep float64
	lngStep float64

	minLatIdx, maxLatIdx int
	minLngIdx, maxLngIdx int
}

func makeGrid(piece *geometry.Polygon, latStep, lngStep float64) grid {
	env := piece.Envelope()
	// half-cell expansion so edge-touching cells are not missed
	minLat := math.Max(env.Min.Lat()-latStep/2, -90)
	maxLat := math.Min(env.Max.Lat()+latStep/2, 90)
	minLng := math.Max(env.Min.Lon()-lngStep/2, -180)
	maxLng := math.Min(env.Max.Lon()+lngStep/2, 180)
	return grid{
		piece:     piece,
		latStep:   latStep,
		lngStep:   lngStep,
		minLatIdx: int(math.Floor(minLat / latStep)),
		maxLatIdx: int(math.Ceil(maxLat / latStep)),
		minLngIdx: int(math.Floor(minLng / lngStep)),
		maxLngIdx: int(math.Ceil(maxLng / lngStep)),
	}
}

func (g grid) rows() int {
	return g.maxLatIdx - g.minLatIdx
}

func (g grid) cols() int {
	return g.maxLngIdx - g.minLngIdx
}

// scanRow tests every cell of one latitude row against the piece. Rows are
// independent; hits go straight into the shared concurrent set.
func (g grid) scanRow(latIdx, precision int, criterion Criterion, results *set.ConcurrentSet) {
	centerLat := (float64(latIdx) + 0.5) * g.latStep
	for lngIdx := g.minLngIdx; lngIdx < g.maxLngIdx; lngIdx++ {
		centerLng := (float64(lngIdx) + 0.5) * g.lngStep
		hash, err := geohash.Encode(centerLat, centerLng, precision)
		if err != nil {
			continue // clamped grid centers always encode
		}
		box, err := geohash.Bounds(hash)
		if err != nil {
			continue
		}
		cell := orb.Bound{
			Min: orb.Point{box.MinLng, box.MinLat},
			Max: orb.Point{box.MaxLng, box.MaxLat},
		}
		var hit bool
		if criterion == Contains {
			hit = g.piece.ContainsBox(cell)
		} else {
			hit = g.piece.IntersectsBox(cell)
		}
		if hit {
			results.Add(hash)
		}
	}
}
