package mesh

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/geometry"
	"github.com/matzehuels/stackup/pkg/netlist"
)

// NetObjectName returns the object name of the net at the given zero-based
// position: its logical name, or "net" when unnamed, followed by the
// one-based ordinal.
func NetObjectName(name string, index int) string {
	if name == "" {
		name = "net"
	}
	return fmt.Sprintf("%s_%d", name, index+1)
}

// AddCopper appends one copper object per net of nl, in net order. extents
// holds the vertical span of each copper layer, bottom first. With workers
// > 1 nets are meshed concurrently; the output is identical either way.
//
// A shape on a layer outside extents, or any net geometry on a board
// without copper layers, fails with LAYER_MISMATCH and leaves doc unchanged.
func AddCopper(ctx context.Context, doc *Document, extents []board.Extent, nl *netlist.Netlist, workers int) error {
	objects := make([]*Object, len(nl.Nets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i := range nl.Nets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := netObject(NetObjectName(nl.Nets[i].Name, i), extents, nl, nl.Nets[i])
			if err != nil {
				return err
			}
			objects[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	doc.Objects = append(doc.Objects, objects...)
	return nil
}

type viaRings struct {
	center       geometry.Point
	inner, outer geometry.Path
	lower, upper int
}

func netObject(name string, extents []board.Extent, nl *netlist.Netlist, net netlist.Net) (*Object, error) {
	n := len(extents)
	if n == 0 && (len(net.Shapes) > 0 || len(net.Vias) > 0) {
		return nil, errors.New(errors.ErrCodeLayerMismatch, "net %s has copper but the stack has no copper layers", name)
	}
	for _, si := range net.Shapes {
		if l := nl.Shapes[si].Layer; l < 0 || l >= n {
			return nil, errors.New(errors.ErrCodeLayerMismatch,
				"net %s: shape %d is on copper layer %d, stack has %d", name, si, l, n)
		}
	}

	o := &Object{Name: name, Material: MaterialCopper}

	vias := make([]viaRings, 0, len(net.Vias))
	for _, vi := range net.Vias {
		v := nl.Vias[vi]
		lower, upper := v.Span(n)
		r := viaRings{
			center: v.Center,
			inner:  v.Inner(),
			outer:  v.Outer(),
			lower:  lower,
			upper:  upper,
		}
		// The drilled bore runs through the whole span and faces inward.
		o.AddRing(r.inner.Reverse(), extents[lower].Bottom, extents[upper].Top)
		// The barrel between each pair of connected layers faces outward.
		for l := lower; l < upper; l++ {
			o.AddRing(r.outer, extents[l].Top, extents[l+1].Bottom)
		}
		vias = append(vias, r)
	}

	for _, si := range net.Shapes {
		s := nl.Shapes[si]
		ext := extents[s.Layer]

		o.AddRing(s.Outline, ext.Bottom, ext.Top)
		for _, h := range s.Holes {
			o.AddRing(h, ext.Bottom, ext.Top)
		}

		for side := 0; side < 2; side++ {
			z := ext.Bottom
			if side == 1 {
				z = ext.Top
			}
			holes := s.Holes.Clone()
			for _, v := range vias {
				if s.Layer < v.lower || s.Layer > v.upper || !s.Outline.Contains(v.center) {
					continue
				}
				terminal := (s.Layer == v.lower && side == 0) || (s.Layer == v.upper && side == 1)
				if terminal {
					holes = append(holes, v.inner)
				} else {
					holes = append(holes, v.outer)
				}
			}
			o.AddSurface(s.Outline, holes, z, side == 1)
		}
	}
	return o, nil
}
