package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/geometry"
	"github.com/matzehuels/stackup/pkg/netlist"
	"github.com/matzehuels/stackup/pkg/render/netgraph"
)

// Summary describes a finished board: its extent, the layer stack and the
// nets. It is the payload of the json format and of the inspector.
type Summary struct {
	Name      string  `json:"name"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Thickness float64 `json:"thickness"`
	Vias      int     `json:"vias"`

	// TopFinish and BottomFinish are the exposed copper areas in mm².
	TopFinish    float64 `json:"top_finish"`
	BottomFinish float64 `json:"bottom_finish"`

	Layers []LayerSummary `json:"layers"`
	Nets   []NetSummary   `json:"nets"`
}

// LayerSummary describes one placed layer.
type LayerSummary struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Z         float64 `json:"z"`
	Thickness float64 `json:"thickness"`
	// Area is the covered area in mm²: dielectric, copper or soldermask.
	Area float64 `json:"area"`
}

// NetSummary describes one net.
type NetSummary struct {
	Name   string `json:"name"`
	Layers []int  `json:"layers"`
	Shapes int    `json:"shapes"`
	Vias   int    `json:"vias"`
}

// Summarize describes b and nl.
func Summarize(b *board.Board, nl *netlist.Netlist) Summary {
	bounds := b.Bounds()
	s := Summary{
		Name:      b.Name(),
		Width:     geometry.ToMM(bounds.Width()),
		Height:    geometry.ToMM(bounds.Height()),
		Thickness: b.Thickness(),
		Vias:      len(b.Vias()),

		TopFinish:    geometry.Area(b.TopFinish()),
		BottomFinish: geometry.Area(b.BottomFinish()),
	}
	for _, p := range b.Stack() {
		s.Layers = append(s.Layers, LayerSummary{
			Index:     p.Index,
			Name:      p.Layer.Name(),
			Kind:      board.Kind(p.Layer),
			Z:         p.Z,
			Thickness: p.Layer.Thickness(),
			Area:      geometry.Area(p.Layer.Mask()),
		})
	}
	if nl != nil {
		for i, net := range nl.Nets {
			layers := netgraph.Layers(nl, net)
			if layers == nil {
				layers = []int{}
			}
			s.Nets = append(s.Nets, NetSummary{
				Name:   netgraph.Label(net, i),
				Layers: layers,
				Shapes: len(net.Shapes),
				Vias:   len(net.Vias),
			})
		}
	}
	return s
}

// JSON encodes the summary with indentation.
func (s Summary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
