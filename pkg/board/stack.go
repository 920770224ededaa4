package board

import (
	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/geometry"
)

// AddSubstrateLayer appends a substrate sheet of the given thickness in mm.
func (b *Board) AddSubstrateLayer(name string, thickness float64) error {
	if err := b.checkAppend(name, thickness); err != nil {
		return err
	}
	b.layers = append(b.layers, newSubstrateLayer(name, thickness, b.shape, b.dielectric, b.plating))
	return nil
}

// AddCopperLayer appends a copper layer built from the raw copper polygons.
func (b *Board) AddCopperLayer(name string, raw geometry.Paths, thickness float64) error {
	if err := b.checkAppend(name, thickness); err != nil {
		return err
	}
	b.layers = append(b.layers, newCopperLayer(name, thickness, b.shape, b.shapeExclPTH, raw))
	return nil
}

// AddMaskLayer appends a soldermask layer. openings are the soldermask
// openings and silk the silkscreen print for that side.
func (b *Board) AddMaskLayer(name string, openings, silk geometry.Paths, bottom bool) error {
	if err := b.checkAppend(name, MaskThickness); err != nil {
		return err
	}
	b.layers = append(b.layers, newMaskLayer(name, b.outline, openings, silk, bottom))
	return nil
}

func (b *Board) checkAppend(name string, thickness float64) error {
	if b.finalized {
		return errors.New(errors.ErrCodeFinalized, "cannot add layer %q after surface finish derivation", name)
	}
	if err := errors.ValidateName("layer", name); err != nil {
		return err
	}
	return errors.ValidateDimension("layer "+name+" thickness", thickness, false)
}

// DeriveSurfaceFinish computes the exposed copper on both sides and freezes
// the board. Scanning inward from each side, the masks of every layer in
// front of the first copper layer are accumulated; the finish is that
// layer's copper minus the accumulation and minus the via barrels.
func (b *Board) DeriveSurfaceFinish() error {
	if b.finalized {
		return errors.New(errors.ErrCodeFinalized, "surface finish already derived")
	}
	n := len(b.layers)
	b.bottomFinish = b.scanFinish(func(i int) Layer { return b.layers[i] }, n)
	b.topFinish = b.scanFinish(func(i int) Layer { return b.layers[n-1-i] }, n)
	b.finalized = true
	return nil
}

func (b *Board) scanFinish(at func(int) Layer, n int) geometry.Paths {
	covered := b.plating
	for i := 0; i < n; i++ {
		l := at(i)
		if c, ok := l.(*CopperLayer); ok {
			return geometry.Subtract(c.Copper, covered)
		}
		covered = geometry.Union(covered, l.Mask())
	}
	return nil
}

// Placement locates a layer in the stack.
type Placement struct {
	Index int
	Layer Layer
	// Z is the height of the layer's bottom face in mm.
	Z float64
}

// Top returns the height of the layer's top face in mm.
func (p Placement) Top() float64 { return p.Z + p.Layer.Thickness() }

// Stack returns every layer with its index and bottom height, bottom first.
func (b *Board) Stack() []Placement {
	out := make([]Placement, len(b.layers))
	var z float64
	for i, l := range b.layers {
		out[i] = Placement{Index: i, Layer: l, Z: z}
		z += l.Thickness()
	}
	return out
}

// Extent is the vertical span of a copper layer in mm.
type Extent struct {
	Bottom, Top float64
}

// CopperExtents returns the span of every copper layer, bottom first. The
// index into the result is the copper layer index used by vias and nets.
func (b *Board) CopperExtents() []Extent {
	var out []Extent
	for _, p := range b.Stack() {
		if _, ok := p.Layer.(*CopperLayer); ok {
			out = append(out, Extent{Bottom: p.Z, Top: p.Top()})
		}
	}
	return out
}

// CopperLayers returns the copper layers, bottom first.
func (b *Board) CopperLayers() []*CopperLayer {
	var out []*CopperLayer
	for _, l := range b.layers {
		if c, ok := l.(*CopperLayer); ok {
			out = append(out, c)
		}
	}
	return out
}
