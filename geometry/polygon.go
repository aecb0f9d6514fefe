// Package geometry is the planar engine behind the coverer. It wraps
// paulmach/orb polygons with the predicates the coverer needs: validity
// checking, envelope, box containment and intersection, and clipping
// against half-plane strips. All operations are planar in (lng, lat)
// degree space; edge touching counts as intersection but not containment.
package geometry

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
)

// ErrInvalidPolygon reports a polygon rejected by validation.
var ErrInvalidPolygon = errors.New("geometry: invalid polygon")

// Polygon is a planar polygon: an exterior shell plus zero or more holes.
type Polygon struct {
	poly  orb.Polygon
	bound orb.Bound
}

// NewPolygon builds a validated polygon from a shell ring and optional
// holes. Rings must be closed, have at least 4 points and not
// self-intersect, otherwise ErrInvalidPolygon is returned.
func NewPolygon(shell orb.Ring, holes ...orb.Ring) (*Polygon, error) {
	poly := make(orb.Polygon, 0, len(holes)+1)
	poly = append(poly, shell)
	poly = append(poly, holes...)
	return FromOrb(poly)
}

// FromOrb wraps and validates an orb polygon.
func FromOrb(poly orb.Polygon) (*Polygon, error) {
	p := Wrap(poly)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Wrap wraps an orb polygon without validation. Intended for geometry that
// is known valid, such as clipper output.
func Wrap(poly orb.Polygon) *Polygon {
	return &Polygon{
		poly:  poly,
		bound: poly.Bound(),
	}
}

// Orb returns the underlying orb polygon.
func (p *Polygon) Orb() orb.Polygon {
	return p.poly
}

// Envelope returns the bounding box of the polygon.
func (p *Polygon) Envelope() orb.Bound {
	return p.bound
}

// Empty reports whether the polygon has no area to speak of: no rings, or a
// shell with fewer points than a closed triangle.
func (p *Polygon) Empty() bool {
	return len(p.poly) == 0 || len(p.poly[0]) < 4
}

// Validate checks that every ring is closed, has at least 4 points and does
// not self-intersect. An empty polygon is valid.
func (p *Polygon) Validate() error {
	if len(p.poly) == 0 {
		return nil
	}
	for i, ring := range p.poly {
		if len(ring) == 0 && i > 0 {
			return fmt.Errorf("%w: empty hole ring %d", ErrInvalidPolygon, i)
		}
		if len(ring) == 0 {
			return nil // empty shell, empty polygon
		}
		if len(ring) < 4 {
			return fmt.Errorf("%w: ring %d has %d points", ErrInvalidPolygon, i, len(ring))
		}
		if !ring.Closed() {
			return fmt.Errorf("%w: ring %d is not closed", ErrInvalidPolygon, i)
		}
		if selfIntersects(ring) {
			return fmt.Errorf("%w: ring %d self-intersects", ErrInvalidPolygon, i)
		}
	}
	return nil
}

// ClipToBound returns the part of the polygon inside b, or nil when they
// are disjoint. The bound may extend far beyond the valid coordinate range;
// the antimeridian splitter relies on that.
func (p *Polygon) ClipToBound(b orb.Bound) orb.Polygon {
	if p.Empty() {
		return nil
	}
	clipped := clip.Polygon(b, p.poly.Clone())
	if len(clipped) == 0 || len(clipped[0]) < 4 {
		return nil
	}
	return clipped
}

// selfIntersects reports whether any two non-adjacent segments of the ring
// touch or cross.
func selfIntersects(ring orb.Ring) bool {
	n := len(ring) - 1 // closed: last point repeats the first
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue // adjacent segments share an endpoint
			}
			if segmentsIntersect(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}
