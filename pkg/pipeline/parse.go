package pipeline

import (
	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/io"
	"github.com/matzehuels/stackup/pkg/netlist"
)

// Parse decodes a board document and builds the finished board.
func Parse(data []byte, s board.Stackup) (*io.Document, *board.Board, error) {
	doc, err := io.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	b, err := doc.Build(s)
	if err != nil {
		return nil, nil, err
	}
	return doc, b, nil
}

// Nets extracts the physical netlist of b and names its nets from the
// document's probes.
func Nets(doc *io.Document, b *board.Board) *netlist.Netlist {
	nl := netlist.Extract(b)
	nl.ApplyProbes(doc.Probes())
	return nl
}
