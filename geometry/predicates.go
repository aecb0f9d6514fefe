package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// IntersectsBox reports whether the box shares any area, edge or point with
// the polygon. Boundary contact counts.
func (p *Polygon) IntersectsBox(b orb.Bound) bool {
	if p.Empty() || !b.Intersects(p.bound) {
		return false
	}
	// a polygon vertex inside the box means the boundary passes through it
	for _, ring := range p.poly {
		for _, pt := range ring {
			if b.Contains(pt) {
				return true
			}
		}
	}
	// a box corner inside the polygon covers box-within-polygon and overlap
	for _, corner := range corners(b) {
		if planar.PolygonContains(p.poly, corner) {
			return true
		}
	}
	// edges may still cross with every vertex outside the other shape
	return p.boundaryIntersectsBox(b)
}

// ContainsBox reports whether the box lies fully inside the polygon.
// Boundary contact excludes: a box touching the shell or reaching into a
// hole is not contained.
func (p *Polygon) ContainsBox(b orb.Bound) bool {
	if p.Empty() || !b.Intersects(p.bound) {
		return false
	}
	for _, corner := range corners(b) {
		if !planar.PolygonContains(p.poly, corner) {
			return false
		}
	}
	// a polygon vertex inside the box puts boundary (or a whole hole) there
	for _, ring := range p.poly {
		for _, pt := range ring {
			if b.Contains(pt) {
				return false
			}
		}
	}
	return !p.boundaryIntersectsBox(b)
}

// ContainsPoint reports whether the point is inside the polygon and outside
// all of its holes.
func (p *Polygon) ContainsPoint(pt orb.Point) bool {
	if p.Empty() {
		return false
	}
	return planar.PolygonContains(p.poly, pt)
}

// boundaryIntersectsBox reports whether any ring segment touches or crosses
// an edge of the box.
func (p *Polygon) boundaryIntersectsBox(b orb.Bound) bool {
	c := corners(b)
	edges := [4][2]orb.Point{
		{c[0], c[1]},
		{c[1], c[2]},
		{c[2], c[3]},
		{c[3], c[0]},
	}
	for _, ring := range p.poly {
		for i := 0; i+1 < len(ring); i++ {
			for _, edge := range edges {
				if segmentsIntersect(ring[i], ring[i+1], edge[0], edge[1]) {
					return true
				}
			}
		}
	}
	return false
}

// corners returns the box corners counter-clockwise from the minimum.
func corners(b orb.Bound) [4]orb.Point {
	return [4]orb.Point{
		{b.Min.Lon(), b.Min.Lat()},
		{b.Max.Lon(), b.Min.Lat()},
		{b.Max.Lon(), b.Max.Lat()},
		{b.Min.Lon(), b.Max.Lat()},
	}
}

// cross returns the z component of (b-a) x (c-a): positive when c is left
// of a->b, zero when collinear.
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// onSegment reports whether collinear point c lies within segment ab.
func onSegment(a, b, c orb.Point) bool {
	return min(a[0], b[0]) <= c[0] && c[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= c[1] && c[1] <= max(a[1], b[1])
}

// segmentsIntersect reports whether segments p1p2 and q1q2 share any point,
// endpoints and collinear overlap included.
func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(q1, q2, p1) {
		return true
	}
	if d2 == 0 && onSegment(q1, q2, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, q2) {
		return true
	}
	return false
}
