// Package netgraph renders the connectivity of a netlist as a Graphviz
// diagram: one box per copper layer, one ellipse per net, and an edge from
// each net to every copper layer it has copper on.
package netgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/netlist"
)

// Options configures net diagram rendering.
type Options struct {
	// Detailed adds shape and via counts to net labels.
	Detailed bool
	// SkipFloating omits nets without any planar copper, such as unconnected
	// vias.
	SkipFloating bool
}

// ToDOT converts nl to Graphviz DOT. layers names the copper layers bottom
// first; missing names fall back to "copper<N>".
func ToDOT(nl *netlist.Netlist, layers []string, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph nets {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, style=filled, fillcolor=white];\n")
	buf.WriteString("\n")

	for l := nl.Layers - 1; l >= 0; l-- {
		fmt.Fprintf(&buf, "  %q [shape=box, label=%q, fillcolor=\"#d9b34d\"];\n", layerID(l), layerName(layers, l))
	}
	buf.WriteString("\n")

	for i, net := range nl.Nets {
		if opts.SkipFloating && len(net.Shapes) == 0 {
			continue
		}
		label := Label(net, i)
		if opts.Detailed {
			label += fmt.Sprintf("\nshapes: %d\nvias: %d", len(net.Shapes), len(net.Vias))
		}
		fmt.Fprintf(&buf, "  %q [shape=ellipse, label=%q];\n", netID(i), label)
		for _, l := range Layers(nl, net) {
			fmt.Fprintf(&buf, "  %q -- %q;\n", netID(i), layerID(l))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Layers returns the sorted copper layer indices a net touches, through its
// shapes or the spans of its vias.
func Layers(nl *netlist.Netlist, net netlist.Net) []int {
	seen := make([]bool, nl.Layers)
	for _, si := range net.Shapes {
		if l := nl.Shapes[si].Layer; l >= 0 && l < nl.Layers {
			seen[l] = true
		}
	}
	for _, vi := range net.Vias {
		lower, upper := nl.Vias[vi].Span(nl.Layers)
		for l := lower; l <= upper && l < nl.Layers; l++ {
			seen[l] = true
		}
	}
	var out []int
	for l, ok := range seen {
		if ok {
			out = append(out, l)
		}
	}
	return out
}

// Label returns the display name of the net at index i.
func Label(net netlist.Net, i int) string {
	if net.Name != "" {
		return net.Name
	}
	return fmt.Sprintf("net %d", i+1)
}

func layerName(names []string, l int) string {
	if l < len(names) && names[l] != "" {
		return names[l]
	}
	return fmt.Sprintf("copper%d", l)
}

func netID(i int) string   { return "n" + strconv.Itoa(i) }
func layerID(l int) string { return "l" + strconv.Itoa(l) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render net graph")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which carries point
// units and a transform-dependent viewBox, with a plain one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
