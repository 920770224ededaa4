package geometry

import "math"

// CircleVertexCount returns the smallest number of vertices (at least 3) for
// which a regular polygon inscribed in a circle of the given diameter stays
// within [Epsilon] of the true circle.
func CircleVertexCount(diameter Coord) int {
	eps := float64(Epsilon)
	r := float64(diameter) * 0.5
	x := 0.0
	if r > eps {
		x = 1 - eps/r
	}
	// Largest central angle whose chord sagitta r(1-cos(th/2)) is <= eps.
	th := math.Acos(2*x*x - 1)
	n := int(math.Ceil(2*math.Pi/th - 1e-9))
	if n < 3 {
		n = 3
	}
	return n
}

// RenderCircle approximates a circle of the given diameter as a
// counter-clockwise ring of [CircleVertexCount] vertices, the first one on
// the positive X axis.
func RenderCircle(center Point, diameter Coord) Path {
	n := CircleVertexCount(diameter)
	r := float64(diameter) * 0.5
	out := make(Path, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = Point{
			X: center.X + Coord(math.Round(math.Cos(a)*r)),
			Y: center.Y + Coord(math.Round(math.Sin(a)*r)),
		}
	}
	return out
}
