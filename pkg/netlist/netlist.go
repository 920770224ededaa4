// Package netlist groups the copper of a board into electrical nets.
//
// A [Netlist] owns flat arrays of planar copper shapes and vias; each [Net]
// refers to its members by index into those arrays. Netlists are either
// extracted from a finished board with [Extract] or assembled by hand with
// [Netlist.AddShape], [Netlist.AddVia] and [Netlist.AddNet].
package netlist

import (
	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/geometry"
)

// Shape is a connected piece of copper on one copper layer.
type Shape struct {
	// Layer is the copper layer index, bottom layer 0.
	Layer   int
	Outline geometry.Path
	Holes   geometry.Paths
}

// Contains reports whether pt lies on the shape's copper: within the outline
// and not strictly inside one of its holes.
func (s Shape) Contains(pt geometry.Point) bool {
	if !s.Outline.Contains(pt) {
		return false
	}
	for _, h := range s.Holes {
		if h.Encloses(pt) {
			return false
		}
	}
	return true
}

// Net is one electrical net.
type Net struct {
	// Name is the logical net name, empty when unknown.
	Name string
	// Shapes indexes into Netlist.Shapes.
	Shapes []int
	// Vias indexes into Netlist.Vias.
	Vias []int
}

// Netlist is an ordered list of nets over owned shape and via arrays.
type Netlist struct {
	// Layers is the number of copper layers the netlist was built against.
	Layers int
	Shapes []Shape
	Vias   []board.Via
	Nets   []Net
}

// New returns an empty netlist for a stack of the given copper layer count.
func New(layers int) *Netlist {
	return &Netlist{Layers: layers}
}

// AddShape appends a shape and returns its index.
func (n *Netlist) AddShape(s Shape) int {
	n.Shapes = append(n.Shapes, s)
	return len(n.Shapes) - 1
}

// AddVia appends a via and returns its index.
func (n *Netlist) AddVia(v board.Via) int {
	n.Vias = append(n.Vias, v)
	return len(n.Vias) - 1
}

// AddNet appends a net over previously added shapes and vias.
func (n *Netlist) AddNet(name string, shapes, vias []int) {
	n.Nets = append(n.Nets, Net{Name: name, Shapes: shapes, Vias: vias})
}

// NetAt returns the index of the net owning the shape on the given layer
// that contains pt, or -1.
func (n *Netlist) NetAt(layer int, pt geometry.Point) int {
	for ni, net := range n.Nets {
		for _, si := range net.Shapes {
			s := n.Shapes[si]
			if s.Layer == layer && s.Contains(pt) {
				return ni
			}
		}
	}
	return -1
}

// Probe attaches a logical net name to the copper under a point.
type Probe struct {
	Name  string
	Point geometry.Point
	Layer int
}

// ApplyProbes assigns probe names to the nets they touch. A net keeps the first
// name it receives; probes that touch no copper are ignored.
func (n *Netlist) ApplyProbes(probes []Probe) {
	for _, p := range probes {
		ni := n.NetAt(p.Layer, p.Point)
		if ni >= 0 && n.Nets[ni].Name == "" {
			n.Nets[ni].Name = p.Name
		}
	}
}
