package geometry

import "math"

// Region is a single connected area: one outer ring and the holes inside it.
type Region struct {
	Outline Path
	Holes   Paths
}

// Contains reports whether pt lies within the region's outline. Holes are
// not consulted.
func (r Region) Contains(pt Point) bool {
	return r.Outline.Contains(pt)
}

// Paths returns the outline followed by the holes.
func (r Region) Paths() Paths {
	out := make(Paths, 0, 1+len(r.Holes))
	out = append(out, r.Outline)
	return append(out, r.Holes...)
}

// Regions splits a normalized set into regions. Rings with positive area are
// outlines; each negative ring becomes a hole of the smallest outline
// containing its first vertex. Holes with no enclosing outline are dropped.
// Regions are returned in the order their outlines appear in ps.
func Regions(ps Paths) []Region {
	var regions []Region
	var areas []float64
	for _, p := range ps {
		if a := p.SignedArea(); a > 0 {
			regions = append(regions, Region{Outline: p.Clone()})
			areas = append(areas, a)
		}
	}
	for _, p := range ps {
		if p.SignedArea() >= 0 {
			continue
		}
		best := -1
		bestArea := math.Inf(1)
		for i, r := range regions {
			if areas[i] < bestArea && r.Outline.Contains(p[0]) {
				best, bestArea = i, areas[i]
			}
		}
		if best >= 0 {
			regions[best].Holes = append(regions[best].Holes, p.Clone())
		}
	}
	return regions
}
