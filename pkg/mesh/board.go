package mesh

import (
	"fmt"

	"github.com/matzehuels/stackup/pkg/board"
)

// Soldermask is drawn slightly thinner than it is, centered in its layer, so
// that its faces never coincide with the copper and silkscreen faces.
const (
	maskInset  = 0.01
	maskOutset = 0.99
)

// AddBoard appends the per-layer objects of b: a dielectric slab for each
// substrate layer, a soldermask slab and silkscreen face for each mask
// layer, and the surface finish faces. Copper layers contribute nothing
// here; copper is added per net by [AddCopper].
func AddBoard(doc *Document, b *board.Board) {
	for _, p := range b.Stack() {
		z, t := p.Z, p.Layer.Thickness()
		switch l := p.Layer.(type) {
		case *board.SubstrateLayer:
			doc.AddObject(fmt.Sprintf("layer%d_%s", p.Index, l.Name()), MaterialSubstrate).
				AddSheet(l.Dielectric, z, z+t)
		case *board.CopperLayer:
		case *board.MaskLayer:
			maskName, silkName, silkZ := "_GTS", "_GTO", z+t
			if l.Bottom {
				maskName, silkName, silkZ = "_GBS", "_GBO", z
			}
			doc.AddObject(fmt.Sprintf("layer%d%s", p.Index, maskName), MaterialSoldermask).
				AddSheet(l.Soldermask, z+t*maskInset, z+t*maskOutset)
			doc.AddObject(fmt.Sprintf("layer%d%s", p.Index, silkName), MaterialSilkscreen).
				AddSurfaces(l.Silk, silkZ, !l.Bottom)
		}
	}

	ext := b.CopperExtents()
	if len(ext) == 0 {
		return
	}
	if !b.BottomFinish().Empty() {
		doc.AddObject("finish_bottom", MaterialFinish).AddSurfaces(b.BottomFinish(), ext[0].Bottom, false)
	}
	if !b.TopFinish().Empty() {
		doc.AddObject("finish_top", MaterialFinish).AddSurfaces(b.TopFinish(), ext[len(ext)-1].Top, true)
	}
}
