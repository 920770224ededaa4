package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/mesh"
	"github.com/matzehuels/stackup/pkg/netlist"
	"github.com/matzehuels/stackup/pkg/render/netgraph"
	"github.com/matzehuels/stackup/pkg/render/raster"
	"github.com/matzehuels/stackup/pkg/render/svg"
)

// Render generates the artifacts of every format in opts.Formats.
func Render(ctx context.Context, b *board.Board, nl *netlist.Netlist, opts Options) (map[string][]byte, error) {
	r := newRenderer(b, nl, opts)
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		out, err := r.render(ctx, format)
		if err != nil {
			return nil, err
		}
		for name, data := range out {
			artifacts[name] = data
		}
	}
	return artifacts, nil
}

// renderer renders the formats of one board. The solid model is built at
// most once and shared by the obj and stl formats.
type renderer struct {
	board   *board.Board
	netlist *netlist.Netlist
	opts    Options
	model   *mesh.Document
}

func newRenderer(b *board.Board, nl *netlist.Netlist, opts Options) *renderer {
	return &renderer{board: b, netlist: nl, opts: opts}
}

func (r *renderer) render(ctx context.Context, format string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := r.renderFormat(ctx, format)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return out, nil
}

func (r *renderer) renderFormat(ctx context.Context, format string) (map[string][]byte, error) {
	b, o := r.board, r.opts
	switch format {
	case FormatSVG:
		var svgOpts []svg.Option
		if o.Shadow {
			svgOpts = append(svgOpts, svg.WithShadow())
		}
		return map[string][]byte{
			"top.svg":    svg.Render(b, o.Colors, false, o.Scale, svgOpts...),
			"bottom.svg": svg.Render(b, o.Colors, true, o.Scale, svgOpts...),
		}, nil

	case FormatPNG:
		top, err := raster.RenderPNG(b, o.Colors, false, raster.WithResolution(o.Resolution))
		if err != nil {
			return nil, err
		}
		bottom, err := raster.RenderPNG(b, o.Colors, true, raster.WithResolution(o.Resolution))
		if err != nil {
			return nil, err
		}
		return map[string][]byte{"top.png": top, "bottom.png": bottom}, nil

	case FormatOBJ:
		model, err := r.mesh(ctx)
		if err != nil {
			return nil, err
		}
		var obj, mtl bytes.Buffer
		if err := mesh.WriteOBJ(&obj, model, mesh.WithMaterialLibrary("board.mtl")); err != nil {
			return nil, err
		}
		if err := mesh.WriteMTL(&mtl, o.Colors); err != nil {
			return nil, err
		}
		return map[string][]byte{"board.obj": obj.Bytes(), "board.mtl": mtl.Bytes()}, nil

	case FormatSTL:
		model, err := r.mesh(ctx)
		if err != nil {
			return nil, err
		}
		var stl bytes.Buffer
		if err := mesh.WriteSTL(&stl, model); err != nil {
			return nil, err
		}
		return map[string][]byte{"board.stl": stl.Bytes()}, nil

	case FormatJSON:
		data, err := Summarize(b, r.netlist).JSON()
		if err != nil {
			return nil, err
		}
		return map[string][]byte{"summary.json": data}, nil

	case FormatNets:
		dot := netgraph.ToDOT(r.netlist, CopperNames(b), netgraph.Options{})
		data, err := netgraph.RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		return map[string][]byte{"nets.dot": []byte(dot), "nets.svg": data}, nil

	default:
		return nil, ValidateFormat(format)
	}
}

func (r *renderer) mesh(ctx context.Context) (*mesh.Document, error) {
	if r.model != nil {
		return r.model, nil
	}
	model, err := mesh.Build(ctx, r.board, r.netlist, mesh.Options{Workers: r.opts.Workers})
	if err != nil {
		return nil, err
	}
	r.model = model
	return model, nil
}

// CopperNames names the copper layers of b, bottom first.
func CopperNames(b *board.Board) []string {
	layers := b.CopperLayers()
	names := make([]string, len(layers))
	for i, l := range layers {
		names[i] = l.Name()
	}
	return names
}
