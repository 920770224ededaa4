package mesh

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	libtess2 "github.com/hajimehoshi/go-libtess2"

	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/geometry"
)

// Triangles returns the triangle soup of every object, in order.
func (d *Document) Triangles() ([]*sdf.Triangle3, error) {
	var out []*sdf.Triangle3
	for _, o := range d.Objects {
		tris, err := o.Triangles()
		if err != nil {
			return nil, err
		}
		out = append(out, tris...)
	}
	return out, nil
}

// Triangles returns the triangles of the object: two per ring edge and a
// tessellation of every surface.
func (o *Object) Triangles() ([]*sdf.Triangle3, error) {
	var out []*sdf.Triangle3
	for _, r := range o.Rings {
		out = append(out, r.triangles()...)
	}
	for _, s := range o.Surfaces {
		tris, err := s.triangles()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "tessellate %s", o.Name)
		}
		out = append(out, tris...)
	}
	return out, nil
}

func vec(p geometry.Point, z float64) v3.Vec {
	return v3.Vec{X: geometry.ToMM(p.X), Y: geometry.ToMM(p.Y), Z: z}
}

func (r Ring) triangles() []*sdf.Triangle3 {
	out := make([]*sdf.Triangle3, 0, 2*len(r.Path))
	for i := range r.Path {
		a, b := r.Path[i], r.Path[(i+1)%len(r.Path)]
		a1, b1 := vec(a, r.Z1), vec(b, r.Z1)
		a2, b2 := vec(a, r.Z2), vec(b, r.Z2)
		out = append(out, &sdf.Triangle3{a1, b1, b2}, &sdf.Triangle3{a1, b2, a2})
	}
	return out
}

// triangles tessellates the face with the odd winding rule, which makes the
// orientation of the outline and holes irrelevant. Coordinates are taken
// relative to the first outline vertex to keep float32 precision.
func (s Surface) triangles() ([]*sdf.Triangle3, error) {
	origin := s.Outline[0]
	ox, oy := geometry.ToMM(origin.X), geometry.ToMM(origin.Y)

	contours := make([]libtess2.Contour, 0, 1+len(s.Holes))
	for _, p := range append(geometry.Paths{s.Outline}, s.Holes...) {
		if len(p) < 3 {
			continue
		}
		c := make(libtess2.Contour, len(p))
		for i, pt := range p {
			c[i] = libtess2.Vertex{
				X: float32(geometry.ToMM(pt.X - origin.X)),
				Y: float32(geometry.ToMM(pt.Y - origin.Y)),
			}
		}
		contours = append(contours, c)
	}

	elems, verts, err := libtess2.Tesselate(contours, libtess2.WindingRuleOdd)
	if err != nil {
		return nil, err
	}

	out := make([]*sdf.Triangle3, 0, len(elems)/3)
	for i := 0; i+2 < len(elems); i += 3 {
		if elems[i] < 0 || elems[i+1] < 0 || elems[i+2] < 0 {
			continue
		}
		var t sdf.Triangle3
		for j := 0; j < 3; j++ {
			v := verts[elems[i+j]]
			t[j] = v3.Vec{X: ox + float64(v.X), Y: oy + float64(v.Y), Z: s.Z}
		}
		ccw := (t[1].X-t[0].X)*(t[2].Y-t[0].Y)-(t[1].Y-t[0].Y)*(t[2].X-t[0].X) > 0
		if ccw != s.Up {
			t[1], t[2] = t[2], t[1]
		}
		out = append(out, &t)
	}
	return out, nil
}
