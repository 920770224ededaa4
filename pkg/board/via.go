package board

import "github.com/matzehuels/stackup/pkg/geometry"

// Via is a plated hole connecting a span of copper layers.
type Via struct {
	Center geometry.Point
	// Diameter is the finished (post-plating) hole diameter.
	Diameter geometry.Coord
	// Plating is the barrel wall thickness.
	Plating geometry.Coord
	// Lower and Upper are copper layer indices, bottom layer 0. A negative
	// Upper means the top-most copper layer.
	Lower, Upper int
}

// Span resolves the via's layer span against a stack of n copper layers.
// Out-of-range indices are clamped to [0, n-1]; a reversed span is swapped.
// With no copper layers the span is (0, 0).
func (v Via) Span(n int) (lower, upper int) {
	if n <= 0 {
		return 0, 0
	}
	lower, upper = v.Lower, v.Upper
	if upper < 0 {
		upper = n - 1
	}
	lower = clamp(lower, 0, n-1)
	upper = clamp(upper, 0, n-1)
	if lower > upper {
		lower, upper = upper, lower
	}
	return lower, upper
}

// OuterDiameter is the diameter of the drilled hole, barrel included.
func (v Via) OuterDiameter() geometry.Coord {
	return v.Diameter + 2*v.Plating
}

// Inner returns the finished hole ring.
func (v Via) Inner() geometry.Path {
	return geometry.RenderCircle(v.Center, v.Diameter)
}

// Outer returns the drilled hole ring.
func (v Via) Outer() geometry.Path {
	return geometry.RenderCircle(v.Center, v.OuterDiameter())
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
