package netlist

import (
	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/geometry"
)

// Extract builds the physical netlist of b. Each copper layer's copper
// (plated holes left in place) is split into shapes; a via joins every shape
// that contains its center on every layer of its span. Nets are the
// connected groups, ordered by their first member: shapes by layer and
// position in the layer, then vias.
func Extract(b *board.Board) *Netlist {
	copper := b.CopperLayers()
	nl := New(len(copper))
	for li, c := range copper {
		for _, r := range geometry.Regions(c.CopperExclPTH) {
			nl.AddShape(Shape{Layer: li, Outline: r.Outline, Holes: r.Holes})
		}
	}
	for _, v := range b.Vias() {
		v.Lower, v.Upper = v.Span(nl.Layers)
		nl.AddVia(v)
	}

	shapes := len(nl.Shapes)
	uf := newUnionFind(shapes + len(nl.Vias))
	for vi, v := range nl.Vias {
		for si, s := range nl.Shapes {
			if s.Layer >= v.Lower && s.Layer <= v.Upper && s.Contains(v.Center) {
				uf.union(si, shapes+vi)
			}
		}
	}

	index := make(map[int]int)
	for e := 0; e < uf.len(); e++ {
		root := uf.find(e)
		ni, ok := index[root]
		if !ok {
			ni = len(nl.Nets)
			index[root] = ni
			nl.Nets = append(nl.Nets, Net{})
		}
		if e < shapes {
			nl.Nets[ni].Shapes = append(nl.Nets[ni].Shapes, e)
		} else {
			nl.Nets[ni].Vias = append(nl.Nets[ni].Vias, e-shapes)
		}
	}
	return nl
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) len() int { return len(u.parent) }

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union keeps the smaller index as root so that roots are stable.
func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	switch {
	case ra < rb:
		u.parent[rb] = ra
	case rb < ra:
		u.parent[ra] = rb
	}
}
