package geometry

import (
	clipper "github.com/ctessum/go.clipper"
)

// FillRule selects how overlapping rings of a single input are interpreted.
type FillRule int

const (
	// NonZero treats any area with non-zero winding as filled.
	NonZero FillRule = iota
	// EvenOdd alternates filled and unfilled at every ring crossing.
	EvenOdd
)

func (f FillRule) clipper() clipper.PolyFillType {
	if f == EvenOdd {
		return clipper.PftEvenOdd
	}
	return clipper.PftNonZero
}

func toClipper(ps Paths) clipper.Paths {
	out := make(clipper.Paths, 0, len(ps))
	for _, p := range ps {
		if len(p) < 3 {
			continue
		}
		cp := make(clipper.Path, len(p))
		for i, pt := range p {
			cp[i] = &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)}
		}
		out = append(out, cp)
	}
	return out
}

func fromClipper(cps clipper.Paths) Paths {
	if len(cps) == 0 {
		return nil
	}
	out := make(Paths, 0, len(cps))
	for _, cp := range cps {
		if len(cp) < 3 {
			continue
		}
		p := make(Path, len(cp))
		for i, pt := range cp {
			p[i] = Point{X: Coord(pt.X), Y: Coord(pt.Y)}
		}
		out = append(out, p)
	}
	return out
}

// execute runs a single boolean operation. Clipper only fails on coordinates
// outside its 62-bit range, which FromMM cannot produce for any physical
// board, so failure yields an empty set.
func execute(op clipper.ClipType, subject, clip Paths, fill FillRule) Paths {
	subj := toClipper(subject)
	clp := toClipper(clip)
	if len(subj) == 0 && (op != clipper.CtUnion || len(clp) == 0) {
		return nil
	}
	c := clipper.NewClipper(0)
	if len(subj) > 0 {
		c.AddPaths(subj, clipper.PtSubject, true)
	}
	if len(clp) > 0 {
		c.AddPaths(clp, clipper.PtClip, true)
	}
	res, ok := c.Execute1(op, fill.clipper(), fill.clipper())
	if !ok {
		return nil
	}
	return fromClipper(res)
}

// Normalize resolves self-overlaps in ps under the given fill rule and
// returns a set of non-overlapping, consistently oriented rings.
func Normalize(ps Paths, fill FillRule) Paths {
	return execute(clipper.CtUnion, ps, nil, fill)
}

// Union returns a ∪ b.
func Union(a, b Paths) Paths {
	return execute(clipper.CtUnion, a, b, NonZero)
}

// UnionAll returns the union of every given set.
func UnionAll(sets ...Paths) Paths {
	return Normalize(Append(sets...), NonZero)
}

// Intersect returns a ∩ b.
func Intersect(a, b Paths) Paths {
	return execute(clipper.CtIntersection, a, b, NonZero)
}

// Subtract returns a − b.
func Subtract(a, b Paths) Paths {
	return execute(clipper.CtDifference, a, b, NonZero)
}

// Offset grows (delta > 0) or shrinks (delta < 0) every ring of ps by delta
// coordinate units using round joins approximated to within [Epsilon].
func Offset(ps Paths, delta Coord) Paths {
	in := toClipper(ps)
	if len(in) == 0 {
		return nil
	}
	if delta == 0 {
		return Normalize(ps, NonZero)
	}
	co := clipper.NewClipperOffset()
	co.ArcTolerance = float64(Epsilon)
	co.MiterLimit = 2
	co.AddPaths(in, clipper.JtRound, clipper.EtClosedPolygon)
	return fromClipper(co.Execute(float64(delta)))
}
