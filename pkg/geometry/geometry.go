// Package geometry provides the fixed-point polygon sets used throughout the
// board model.
//
// Coordinates are integers in nanometres. A polygon set ([Paths]) is an
// ordered collection of closed rings; outer boundaries wind counter-clockwise
// (positive area) and holes clockwise, which is the orientation every boolean
// operation in this package produces. All functions are pure: they never
// modify their inputs and always return freshly allocated slices.
//
// Boolean operations and offsetting are delegated to go.clipper (see clip.go).
// Everything else in this package (area, bounds, containment, circles) is
// plain arithmetic over [Path] values.
package geometry

import "math"

// Coord is a fixed-point coordinate in nanometres.
type Coord int64

// UnitsPerMM is the number of coordinate units per millimetre.
const UnitsPerMM = 1_000_000

// MaxDeviationMM is the tolerance used for circle approximation and round
// offset joins.
const MaxDeviationMM = 0.005

// Epsilon is [MaxDeviationMM] in coordinate units.
const Epsilon Coord = Coord(MaxDeviationMM * UnitsPerMM)

// FromMM converts millimetres to coordinate units, rounding to the nearest unit.
func FromMM(mm float64) Coord {
	return Coord(math.Round(mm * UnitsPerMM))
}

// ToMM converts coordinate units to millimetres.
func ToMM(c Coord) float64 {
	return float64(c) / UnitsPerMM
}

// Point is a fixed-point 2D coordinate.
type Point struct {
	X, Y Coord
}

// Pt builds a point from millimetre values.
func Pt(xmm, ymm float64) Point {
	return Point{X: FromMM(xmm), Y: FromMM(ymm)}
}

// Path is a closed ring. The closing edge from the last point back to the
// first is implicit.
type Path []Point

// Paths is a polygon set.
type Paths []Path

// Clone returns a deep copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Clone returns a deep copy of ps.
func (ps Paths) Clone() Paths {
	if ps == nil {
		return nil
	}
	out := make(Paths, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

// Empty reports whether the set contains no ring with at least three points.
func (ps Paths) Empty() bool {
	for _, p := range ps {
		if len(p) >= 3 {
			return false
		}
	}
	return true
}

// Append returns a new set holding the rings of all given sets, in order.
// No boolean merge is performed.
func Append(sets ...Paths) Paths {
	var n int
	for _, s := range sets {
		n += len(s)
	}
	out := make(Paths, 0, n)
	for _, s := range sets {
		out = append(out, s.Clone()...)
	}
	return out
}

// SignedArea returns the signed area of the ring in square coordinate units.
// Counter-clockwise rings are positive.
func (p Path) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	j := len(p) - 1
	for i := range p {
		sum += (float64(p[j].X) + float64(p[i].X)) * (float64(p[j].Y) - float64(p[i].Y))
		j = i
	}
	return -sum / 2
}

// Area returns the net area of the set in square millimetres, counting holes
// negatively. For normalized sets (the output of any boolean operation) this
// is the covered area.
func Area(ps Paths) float64 {
	var sum float64
	for _, p := range ps {
		sum += p.SignedArea()
	}
	return sum / (UnitsPerMM * UnitsPerMM)
}

// Reverse returns the ring with its winding reversed.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Contains reports whether pt lies inside the ring or on its boundary.
// Winding is ignored.
func (p Path) Contains(pt Point) bool {
	if len(p) < 3 {
		return false
	}
	inside := false
	j := len(p) - 1
	for i := range p {
		a, b := p[j], p[i]
		if onSegment(a, b, pt) {
			return true
		}
		if (b.Y > pt.Y) != (a.Y > pt.Y) {
			// X coordinate of the edge at pt.Y.
			x := float64(b.X) + float64(pt.Y-b.Y)*float64(a.X-b.X)/float64(a.Y-b.Y)
			if float64(pt.X) < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Encloses reports whether pt lies strictly inside the ring, off its
// boundary.
func (p Path) Encloses(pt Point) bool {
	if !p.Contains(pt) {
		return false
	}
	j := len(p) - 1
	for i := range p {
		if onSegment(p[j], p[i], pt) {
			return false
		}
		j = i
	}
	return true
}

func onSegment(a, b, pt Point) bool {
	cross := float64(b.X-a.X)*float64(pt.Y-a.Y) - float64(b.Y-a.Y)*float64(pt.X-a.X)
	if cross != 0 {
		return false
	}
	return min(a.X, b.X) <= pt.X && pt.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= pt.Y && pt.Y <= max(a.Y, b.Y)
}

// Rect is an axis-aligned rectangle in coordinate units.
type Rect struct {
	Left, Bottom, Right, Top Coord
}

// Width returns the horizontal extent.
func (r Rect) Width() Coord { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() Coord { return r.Top - r.Bottom }

// Bounds returns the bounding box over every point in ps. The second result
// is false when ps has no points.
func Bounds(ps Paths) (Rect, bool) {
	r := Rect{
		Left: math.MaxInt64, Bottom: math.MaxInt64,
		Right: math.MinInt64, Top: math.MinInt64,
	}
	found := false
	for _, p := range ps {
		for _, pt := range p {
			r.Left = min(r.Left, pt.X)
			r.Right = max(r.Right, pt.X)
			r.Bottom = min(r.Bottom, pt.Y)
			r.Top = max(r.Top, pt.Y)
			found = true
		}
	}
	if !found {
		return Rect{}, false
	}
	return r, true
}

// Rectangle returns a counter-clockwise rectangle ring from millimetre corners.
func Rectangle(x0, y0, x1, y1 float64) Path {
	return Path{Pt(x0, y0), Pt(x1, y0), Pt(x1, y1), Pt(x0, y1)}
}
