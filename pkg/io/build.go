package io

import (
	"fmt"
	"sort"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/geometry"
	"github.com/matzehuels/stackup/pkg/netlist"
)

// side collects the merged input of one board side.
type side struct {
	copper, openings, silk geometry.Paths
	hasCopper, hasMask     bool
}

// Build constructs the finalized board described by d using the layer
// thicknesses of s. Layers are stacked bottom-up:
//
//	bottom mask, bottom copper, substrate, (inner copper, substrate)*,
//	top copper, top mask
//
// The substrate thickness is split evenly between the substrate layers. A
// side without copper input has no copper layer, and a side without mask or
// silk input has no mask layer.
func (d *Document) Build(s board.Stackup) (*board.Board, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var top, bottom side
	inner := make(map[int]geometry.Paths)
	for _, l := range d.Layers {
		ps := toPaths(l.Polygons)
		switch l.Side {
		case SideInner:
			inner[l.Index] = append(inner[l.Index], ps...)
		case SideTop:
			top.add(l.Role, ps)
		case SideBottom:
			bottom.add(l.Role, ps)
		}
	}
	indices := make([]int, 0, len(inner))
	for i := range inner {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	b, err := board.New(d.boardInput(s.PlatingThickness))
	if err != nil {
		return nil, err
	}

	substrates := len(indices) + 1
	substrate := func(i int) error {
		name := "substrate"
		if substrates > 1 {
			name = fmt.Sprintf("substrate_%d", i+1)
		}
		return b.AddSubstrateLayer(name, s.SubstrateThickness/float64(substrates))
	}

	steps := []func() error{}
	if bottom.hasMask {
		steps = append(steps, func() error { return b.AddMaskLayer("bottom_mask", bottom.openings, bottom.silk, true) })
	}
	if bottom.hasCopper {
		steps = append(steps, func() error { return b.AddCopperLayer("bottom_copper", bottom.copper, s.CopperThickness) })
	}
	steps = append(steps, func() error { return substrate(0) })
	for n, idx := range indices {
		steps = append(steps,
			func() error {
				return b.AddCopperLayer(fmt.Sprintf("inner%d_copper", idx), normalize(inner[idx]), s.CopperThickness)
			},
			func() error { return substrate(n + 1) },
		)
	}
	if top.hasCopper {
		steps = append(steps, func() error { return b.AddCopperLayer("top_copper", top.copper, s.CopperThickness) })
	}
	if top.hasMask {
		steps = append(steps, func() error { return b.AddMaskLayer("top_mask", top.openings, top.silk, false) })
	}
	steps = append(steps, b.DeriveSurfaceFinish)

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s *side) add(role string, ps geometry.Paths) {
	switch role {
	case RoleCopper:
		s.copper = geometry.Union(s.copper, ps)
		s.hasCopper = true
	case RoleMask:
		s.openings = geometry.Union(s.openings, ps)
		s.hasMask = true
	case RoleSilk:
		s.silk = geometry.Union(s.silk, ps)
		s.hasMask = true
	}
}

func normalize(ps geometry.Paths) geometry.Paths {
	return geometry.Normalize(ps, geometry.NonZero)
}

// boardInput threads the outline, milled slots and drills into a board
// input. Milled rings are merged with the outline under the even-odd rule
// so that an internal slot becomes a cutout.
func (d *Document) boardInput(plating float64) board.Input {
	in := board.Input{
		Name:             d.Name,
		Outline:          geometry.Normalize(append(toPaths(d.Outline), toPaths(d.Mill)...), geometry.EvenOdd),
		PlatingThickness: plating,
	}
	for _, dr := range d.Drills {
		center := geometry.Pt(dr.X, dr.Y)
		hole := geometry.RenderCircle(center, geometry.FromMM(dr.Diameter))
		if !dr.Plated {
			in.NPTH = append(in.NPTH, hole)
			continue
		}
		in.PTH = append(in.PTH, hole)
		v := board.Via{
			Center:   center,
			Diameter: geometry.FromMM(dr.Diameter),
			Plating:  geometry.FromMM(plating),
			Upper:    -1,
		}
		if dr.From != nil {
			v.Lower = *dr.From
		}
		if dr.To != nil {
			v.Upper = *dr.To
		}
		in.Vias = append(in.Vias, v)
	}
	return in
}

// Probes returns the named probe points of every net.
func (d *Document) Probes() []netlist.Probe {
	var out []netlist.Probe
	for _, n := range d.Nets {
		for _, p := range n.Probes {
			out = append(out, netlist.Probe{
				Name:  n.Name,
				Point: geometry.Pt(p.X, p.Y),
				Layer: p.Layer,
			})
		}
	}
	return out
}

// Load reads the board document at path and builds it.
func Load(path string, s board.Stackup) (*Document, *board.Board, error) {
	d, err := ImportJSON(path)
	if err != nil {
		return nil, nil, err
	}
	b, err := d.Build(s)
	if err != nil {
		return nil, nil, errors.Wrap(errors.GetCode(err), err, "build %s", path)
	}
	return d, b, nil
}
