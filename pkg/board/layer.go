package board

import "github.com/matzehuels/stackup/pkg/geometry"

// MaskThickness is the modelled thickness of a soldermask layer in mm.
const MaskThickness = 0.01

// Layer is one physical layer of the stack. The set of implementations is
// closed: *SubstrateLayer, *CopperLayer and *MaskLayer. Renderers dispatch on
// the concrete type with a type switch.
type Layer interface {
	// Name identifies the layer within the stack.
	Name() string
	// Thickness is the layer's physical thickness in mm.
	Thickness() float64
	// Mask is the region where this layer covers whatever is stacked
	// behind it, as used by surface finish derivation.
	Mask() geometry.Paths

	layer()
}

// Kind names the concrete layer type: "substrate", "copper" or "mask".
func Kind(l Layer) string {
	switch l.(type) {
	case *SubstrateLayer:
		return "substrate"
	case *CopperLayer:
		return "copper"
	case *MaskLayer:
		return "mask"
	default:
		return "unknown"
	}
}

type base struct {
	name      string
	thickness float64
}

func (b base) Name() string       { return b.name }
func (b base) Thickness() float64 { return b.thickness }
func (base) layer()               {}

// SubstrateLayer is a dielectric core or prepreg sheet.
type SubstrateLayer struct {
	base
	// Shape is the board outline with all holes cut.
	Shape geometry.Paths
	// Dielectric is the outline minus drilled plated holes and unplated holes.
	Dielectric geometry.Paths
	// Plating is the barrel annulus of every plated hole.
	Plating geometry.Paths
}

// Mask returns the dielectric region.
func (l *SubstrateLayer) Mask() geometry.Paths { return l.Dielectric }

func newSubstrateLayer(name string, thickness float64, shape, dielectric, plating geometry.Paths) *SubstrateLayer {
	return &SubstrateLayer{
		base:       base{name: name, thickness: thickness},
		Shape:      shape,
		Dielectric: dielectric,
		Plating:    plating,
	}
}

// CopperLayer is a conductive layer.
type CopperLayer struct {
	base
	// Raw is the copper as supplied, before board shape intersection.
	Raw geometry.Paths
	// Copper is Raw clipped to the board shape, all holes removed.
	Copper geometry.Paths
	// CopperExclPTH is Raw clipped to the board shape with plated holes left
	// in place. It is always a superset of Copper.
	CopperExclPTH geometry.Paths
}

// Mask returns the copper region.
func (l *CopperLayer) Mask() geometry.Paths { return l.Copper }

func newCopperLayer(name string, thickness float64, shape, shapeExclPTH, raw geometry.Paths) *CopperLayer {
	return &CopperLayer{
		base:          base{name: name, thickness: thickness},
		Raw:           raw.Clone(),
		Copper:        geometry.Intersect(shape, raw),
		CopperExclPTH: geometry.Intersect(shapeExclPTH, raw),
	}
}

// MaskLayer is a soldermask with its silkscreen print.
type MaskLayer struct {
	base
	// Openings are the soldermask openings as supplied.
	Openings geometry.Paths
	// Soldermask is the outline minus the openings.
	Soldermask geometry.Paths
	// Silk is the silkscreen print, limited to where soldermask exists.
	Silk geometry.Paths
	// Bottom is set for the bottom-side mask.
	Bottom bool
}

// Mask returns the soldermask region.
func (l *MaskLayer) Mask() geometry.Paths { return l.Soldermask }

func newMaskLayer(name string, outline, openings, silk geometry.Paths, bottom bool) *MaskLayer {
	mask := geometry.Subtract(outline, openings)
	return &MaskLayer{
		base:       base{name: name, thickness: MaskThickness},
		Openings:   openings.Clone(),
		Soldermask: mask,
		Silk:       geometry.Intersect(mask, silk),
		Bottom:     bottom,
	}
}
