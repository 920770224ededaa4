package mesh

import (
	"context"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/netlist"
)

// Options configures [Build].
type Options struct {
	// Workers bounds the number of nets meshed concurrently. Zero or one
	// meshes sequentially.
	Workers int
}

// Build produces the complete solid model of a finished board: the layer
// objects followed by one copper object per net of nl. When nl is nil the
// physical netlist of b is extracted.
func Build(ctx context.Context, b *board.Board, nl *netlist.Netlist, opts Options) (*Document, error) {
	if nl == nil {
		nl = netlist.Extract(b)
	}
	doc := &Document{}
	AddBoard(doc, b)
	if err := AddCopper(ctx, doc, b.CopperExtents(), nl, opts.Workers); err != nil {
		return nil, err
	}
	return doc, nil
}
