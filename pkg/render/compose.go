package render

import (
	"fmt"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/geometry"
)

// Margin is the blank border around the board in every view, in mm.
const Margin = 10.0

// FinishGroup is the id of the trailing surface finish group.
const FinishGroup = "finish"

// Fill is a polygon set painted in one color.
type Fill struct {
	Paths geometry.Paths
	Color board.Color
}

// Group is one painted layer of a view.
type Group struct {
	ID    string
	Fills []Fill
}

// Compose returns the groups of the view from the top (flipped false) or
// from the bottom (flipped true), back to front. Layers are named
// "layer<N>" after their stack index; the last group is the visible side's
// surface finish.
func Compose(b *board.Board, colors board.ColorScheme, flipped bool) []Group {
	stack := b.Stack()
	groups := make([]Group, 0, len(stack)+1)
	for i := range stack {
		p := stack[i]
		if flipped {
			p = stack[len(stack)-1-i]
		}
		groups = append(groups, Group{
			ID:    fmt.Sprintf("layer%d", p.Index),
			Fills: layerFills(p.Layer, colors, flipped),
		})
	}
	groups = append(groups, Group{
		ID:    FinishGroup,
		Fills: nonEmpty(Fill{b.Finish(flipped), colors.Finish}),
	})
	return groups
}

func layerFills(l board.Layer, colors board.ColorScheme, flipped bool) []Fill {
	switch l := l.(type) {
	case *board.SubstrateLayer:
		return nonEmpty(
			Fill{l.Dielectric, colors.Substrate},
			Fill{l.Plating, colors.Finish},
		)
	case *board.CopperLayer:
		return nonEmpty(Fill{l.Copper, colors.Copper})
	case *board.MaskLayer:
		mask := Fill{l.Soldermask, colors.Soldermask}
		silk := Fill{l.Silk, colors.Silkscreen}
		// The silkscreen sits on the outside of the mask it belongs to.
		if l.Bottom == flipped {
			return nonEmpty(mask, silk)
		}
		return nonEmpty(silk, mask)
	}
	return nil
}

func nonEmpty(fills ...Fill) []Fill {
	out := fills[:0]
	for _, f := range fills {
		if !f.Paths.Empty() {
			out = append(out, f)
		}
	}
	return out
}

// Frame maps board coordinates to view coordinates in mm, with y pointing
// down.
type Frame struct {
	// Width and Height are the view size in mm, margins included.
	Width, Height float64
	// OffsetX and OffsetY translate board mm after mirroring.
	OffsetX, OffsetY float64
	// ScaleX is -1 for the flipped view.
	ScaleX float64
}

// NewFrame returns the frame of b seen from the top or the bottom.
func NewFrame(b *board.Board, flipped bool) Frame {
	r := b.Bounds()
	left, right := geometry.ToMM(r.Left), geometry.ToMM(r.Right)
	bottom, top := geometry.ToMM(r.Bottom), geometry.ToMM(r.Top)
	f := Frame{
		Width:   right - left + 2*Margin,
		Height:  top - bottom + 2*Margin,
		OffsetX: Margin - left,
		OffsetY: Margin + top,
		ScaleX:  1,
	}
	if flipped {
		f.OffsetX = Margin + right
		f.ScaleX = -1
	}
	return f
}

// Apply maps a board point to view mm.
func (f Frame) Apply(p geometry.Point) (x, y float64) {
	return f.OffsetX + f.ScaleX*geometry.ToMM(p.X), f.OffsetY - geometry.ToMM(p.Y)
}
