// Package board reconstructs the physical layer stack of a circuit board.
//
// A [Board] is built in three phases:
//
//  1. [New] derives the board shape and substrate geometry from the outline
//     and drill polygons.
//  2. Layers are appended strictly bottom-up with [Board.AddMaskLayer],
//     [Board.AddCopperLayer] and [Board.AddSubstrateLayer].
//  3. [Board.DeriveSurfaceFinish] computes the exposed copper on each side
//     and freezes the board.
//
// After the third phase the board is read-only and may be shared between
// concurrent renderers without synchronization.
package board

import (
	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/geometry"
)

// Input holds the polygon sets a board is constructed from. All sets share
// the fixed-point space of package geometry.
type Input struct {
	Name string
	// Outline is the board edge, cutouts included.
	Outline geometry.Paths
	// PTH are the finished (post-plating) plated holes.
	PTH geometry.Paths
	// NPTH are the unplated holes.
	NPTH geometry.Paths
	// Vias are the plated holes that connect copper layers.
	Vias []Via
	// PlatingThickness is the barrel plating thickness in mm.
	PlatingThickness float64
}

// Board is a reconstructed circuit board.
type Board struct {
	name             string
	outline          geometry.Paths
	shape            geometry.Paths
	shapeExclPTH     geometry.Paths
	dielectric       geometry.Paths
	plating          geometry.Paths
	platingThickness float64
	vias             []Via

	layers       []Layer
	topFinish    geometry.Paths
	bottomFinish geometry.Paths
	finalized    bool
}

// New derives the board geometry from in. It fails with MISSING_OUTLINE when
// the outline contains no ring.
func New(in Input) (*Board, error) {
	if in.Outline.Empty() {
		return nil, errors.New(errors.ErrCodeMissingOutline, "board %q has no outline", in.Name)
	}
	if err := errors.ValidateDimension("plating thickness", in.PlatingThickness, true); err != nil {
		return nil, err
	}

	outline := geometry.Normalize(in.Outline, geometry.NonZero)
	pth := geometry.Normalize(in.PTH, geometry.NonZero)
	npth := geometry.Normalize(in.NPTH, geometry.NonZero)
	drilled := geometry.Offset(pth, geometry.FromMM(in.PlatingThickness))

	vias := make([]Via, len(in.Vias))
	copy(vias, in.Vias)

	return &Board{
		name:             in.Name,
		outline:          outline,
		shape:            geometry.Subtract(outline, geometry.Union(pth, npth)),
		shapeExclPTH:     geometry.Subtract(outline, npth),
		dielectric:       geometry.Subtract(outline, geometry.Union(drilled, npth)),
		plating:          geometry.Subtract(drilled, pth),
		platingThickness: in.PlatingThickness,
		vias:             vias,
	}, nil
}

// Name returns the board name given at construction.
func (b *Board) Name() string { return b.name }

// Outline returns the normalized board outline.
func (b *Board) Outline() geometry.Paths { return b.outline }

// Shape returns the outline minus all holes.
func (b *Board) Shape() geometry.Paths { return b.shape }

// ShapeExclPTH returns the outline minus unplated holes only.
func (b *Board) ShapeExclPTH() geometry.Paths { return b.shapeExclPTH }

// Dielectric returns the substrate region outside drilled and unplated holes.
func (b *Board) Dielectric() geometry.Paths { return b.dielectric }

// Plating returns the via barrel annuli.
func (b *Board) Plating() geometry.Paths { return b.plating }

// PlatingThickness returns the barrel plating thickness in mm.
func (b *Board) PlatingThickness() float64 { return b.platingThickness }

// Vias returns the board's vias.
func (b *Board) Vias() []Via { return b.vias }

// Layers returns the layer stack, bottom first.
func (b *Board) Layers() []Layer { return b.layers }

// TopFinish returns the exposed copper on the top side.
func (b *Board) TopFinish() geometry.Paths { return b.topFinish }

// BottomFinish returns the exposed copper on the bottom side.
func (b *Board) BottomFinish() geometry.Paths { return b.bottomFinish }

// Finish returns the surface finish seen from the bottom when flipped is
// true and from the top otherwise.
func (b *Board) Finish(flipped bool) geometry.Paths {
	if flipped {
		return b.bottomFinish
	}
	return b.topFinish
}

// Finalized reports whether the surface finish has been derived.
func (b *Board) Finalized() bool { return b.finalized }

// Bounds returns the bounding box of the outline.
func (b *Board) Bounds() geometry.Rect {
	r, _ := geometry.Bounds(b.outline)
	return r
}

// Thickness returns the total stack thickness in mm.
func (b *Board) Thickness() float64 {
	var t float64
	for _, l := range b.layers {
		t += l.Thickness()
	}
	return t
}
