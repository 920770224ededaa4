// Package mesh generates the 3D solid model of a board.
//
// A [Document] is a list of named [Object] groups, each made of vertical
// ring walls and horizontal surfaces with holes. Objects are produced for
// every substrate and mask layer of the stack (see [AddBoard]) and for every
// copper net (see [AddCopper]); the document is then triangulated and
// written as Wavefront OBJ/MTL or binary STL.
package mesh

import "github.com/matzehuels/stackup/pkg/geometry"

// Material names. These are the only materials a document refers to.
const (
	MaterialSoldermask = "soldermask"
	MaterialSilkscreen = "silkscreen"
	MaterialFinish     = "finish"
	MaterialSubstrate  = "substrate"
	MaterialCopper     = "copper"
)

// Materials lists the material names in the order they are written.
var Materials = []string{
	MaterialSoldermask,
	MaterialSilkscreen,
	MaterialFinish,
	MaterialSubstrate,
	MaterialCopper,
}

// Ring is a vertical wall extruded from a closed path between two heights
// in mm. Wall faces point to the right of the path direction, so outlines
// wind counter-clockwise and holes clockwise.
type Ring struct {
	Path   geometry.Path
	Z1, Z2 float64
}

// Surface is a horizontal face at height Z bounded by Outline with Holes
// cut out. Up selects whether the face points towards +Z.
type Surface struct {
	Outline geometry.Path
	Holes   geometry.Paths
	Z       float64
	Up      bool
}

// Object is a named group of primitives sharing one material.
type Object struct {
	Name     string
	Material string
	Rings    []Ring
	Surfaces []Surface
}

// AddRing adds a vertical wall along p from z1 to z2.
func (o *Object) AddRing(p geometry.Path, z1, z2 float64) {
	if len(p) < 3 {
		return
	}
	o.Rings = append(o.Rings, Ring{Path: p, Z1: z1, Z2: z2})
}

// AddSurface adds a horizontal face.
func (o *Object) AddSurface(outline geometry.Path, holes geometry.Paths, z float64, up bool) {
	if len(outline) < 3 {
		return
	}
	o.Surfaces = append(o.Surfaces, Surface{Outline: outline, Holes: holes, Z: z, Up: up})
}

// AddSurfaces adds one face per region of a normalized set.
func (o *Object) AddSurfaces(ps geometry.Paths, z float64, up bool) {
	for _, r := range geometry.Regions(ps) {
		o.AddSurface(r.Outline, r.Holes, z, up)
	}
}

// AddSheet closes a normalized set into a solid slab from z1 to z2: a wall
// along every ring, a downward face at z1 and an upward face at z2.
func (o *Object) AddSheet(ps geometry.Paths, z1, z2 float64) {
	for _, p := range ps {
		o.AddRing(p, z1, z2)
	}
	o.AddSurfaces(ps, z1, false)
	o.AddSurfaces(ps, z2, true)
}

// Empty reports whether the object has no primitives.
func (o *Object) Empty() bool {
	return len(o.Rings) == 0 && len(o.Surfaces) == 0
}

// Document is an ordered list of objects.
type Document struct {
	Objects []*Object
}

// AddObject appends a new empty object and returns it.
func (d *Document) AddObject(name, material string) *Object {
	o := &Object{Name: name, Material: material}
	d.Objects = append(d.Objects, o)
	return o
}

// Object returns the object with the given name, or nil.
func (d *Document) Object(name string) *Object {
	for _, o := range d.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}
