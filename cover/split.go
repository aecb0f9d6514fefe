package cover

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/hdt3213/geocover/geometry"
	"github.com/hdt3213/geocover/lib/logger"
)

// clip strips extend far past the valid coordinate range so that any
// unwrap depth stays inside them
const worldLimit = 1000

const lngEpsilon = 1e-9

// splitAntimeridian cuts a polygon whose ring jumps across the ±180°
// meridian into pieces that each lie inside [-180, 180]. Polygons already
// in range, and whole-world polygons whose envelope spans a full 360°, come
// back unchanged as a single piece.
func splitAntimeridian(polygon *geometry.Polygon) ([]*geometry.Polygon, error) {
	env := polygon.Envelope()
	if env.Max.Lon()-env.Min.Lon() >= 360 {
		return []*geometry.Polygon{polygon}, nil
	}
	rings := polygon.Orb()
	if !crossesAntimeridian(rings[0]) {
		return []*geometry.Polygon{polygon}, nil
	}

	// unwrap the shell into one continuous ring, then bring each hole into
	// the shell's frame
	unwrapped := make(orb.Polygon, 0, len(rings))
	shell := unwrapRing(rings[0])
	unwrapped = append(unwrapped, shell)
	shellBound := shell.Bound()
	for _, hole := range rings[1:] {
		unwrapped = append(unwrapped, alignHole(unwrapRing(hole), shellBound))
	}

	b := unwrapped.Bound()
	over := b.Max.Lon() > 180
	under := b.Min.Lon() < -180
	if over && under {
		return nil, ErrMultiMeridianSplit
	}

	whole := geometry.Wrap(unwrapped)
	var pieces []*geometry.Polygon
	switch {
	case over:
		pieces = clipPieces(whole, 180, -360)
	case under:
		pieces = clipPieces(whole, -180, 360)
	default:
		pieces = []*geometry.Polygon{whole}
	}

	// a piece still out of range would need a second split
	for _, piece := range pieces {
		e := piece.Envelope()
		if e.Min.Lon() < -180-lngEpsilon || e.Max.Lon() > 180+lngEpsilon {
			return nil, ErrMultiMeridianSplit
		}
	}
	logger.Debugf("cover: split polygon at the antimeridian into %d pieces", len(pieces))
	return pieces, nil
}

// clipPieces cuts the unwrapped polygon at the given meridian. The near
// piece is already in range; the far piece is translated back by shift.
func clipPieces(polygon *geometry.Polygon, meridian, shift float64) []*geometry.Polygon {
	var nearBound, farBound orb.Bound
	if shift > 0 {
		// splitting at -180: the far side lies west of the meridian
		nearBound = orb.Bound{
			Min: orb.Point{meridian, -worldLimit},
			Max: orb.Point{worldLimit, worldLimit},
		}
		farBound = orb.Bound{
			Min: orb.Point{-worldLimit, -worldLimit},
			Max: orb.Point{meridian, worldLimit},
		}
	} else {
		// splitting at +180: the far side lies east of the meridian
		nearBound = orb.Bound{
			Min: orb.Point{-worldLimit, -worldLimit},
			Max: orb.Point{meridian, worldLimit},
		}
		farBound = orb.Bound{
			Min: orb.Point{meridian, -worldLimit},
			Max: orb.Point{worldLimit, worldLimit},
		}
	}

	var pieces []*geometry.Polygon
	if near := polygon.ClipToBound(nearBound); near != nil {
		pieces = append(pieces, geometry.Wrap(near))
	}
	if far := polygon.ClipToBound(farBound); far != nil {
		pieces = append(pieces, geometry.Wrap(translatePolygon(far, shift)))
	}
	return pieces
}

// crossesAntimeridian reports whether any consecutive ring edge jumps more
// than 180° in longitude.
func crossesAntimeridian(ring orb.Ring) bool {
	for i := 1; i < len(ring); i++ {
		if math.Abs(ring[i].Lon()-ring[i-1].Lon()) > 180 {
			return true
		}
	}
	return false
}

// unwrapRing removes antimeridian jumps by shifting the vertices after each
// jump by ±360, making the ring continuous in longitude.
func unwrapRing(ring orb.Ring) orb.Ring {
	out := make(orb.Ring, len(ring))
	offset := 0.0
	for i, pt := range ring {
		if i > 0 {
			delta := pt.Lon() - ring[i-1].Lon()
			if delta > 180 {
				offset -= 360
			} else if delta < -180 {
				offset += 360
			}
		}
		out[i] = orb.Point{pt.Lon() + offset, pt.Lat()}
	}
	return out
}

// alignHole shifts an unwrapped hole by ±360 when it landed on the wrong
// side of the shell's frame.
func alignHole(hole orb.Ring, shell orb.Bound) orb.Ring {
	center := hole.Bound().Center()
	if center.Lon() > shell.Max.Lon() {
		return translateRing(hole, -360)
	}
	if center.Lon() < shell.Min.Lon() {
		return translateRing(hole, 360)
	}
	return hole
}

func translateRing(ring orb.Ring, dLng float64) orb.Ring {
	for i := range ring {
		ring[i][0] += dLng
	}
	return ring
}

func translatePolygon(poly orb.Polygon, dLng float64) orb.Polygon {
	for _, ring := range poly {
		translateRing(ring, dLng)
	}
	return poly
}
