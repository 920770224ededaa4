// Package svg renders the layered 2D view of a board as an SVG document.
package svg

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/geometry"
	"github.com/matzehuels/stackup/pkg/render"
)

const shadowFilter = `
    <filter id="shadow" x="-10%" y="-10%" width="120%" height="120%">
      <feDropShadow dx="0.2" dy="0.2" stdDeviation="0.2" flood-opacity="0.7"/>
    </filter>`

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	shadow    bool
	precision int
}

// WithShadow adds a drop shadow under the board.
func WithShadow() Option { return func(r *renderer) { r.shadow = true } }

// WithPrecision sets the number of decimals written for coordinates in mm.
func WithPrecision(decimals int) Option { return func(r *renderer) { r.precision = decimals } }

// Render draws b as seen from the top, or from the bottom when flipped.
// scale is the number of SVG user units per mm for the width and height
// attributes; the viewBox is always in mm.
func Render(b *board.Board, colors board.ColorScheme, flipped bool, scale float64, opts ...Option) []byte {
	r := renderer{precision: 6}
	for _, opt := range opts {
		opt(&r)
	}

	f := render.NewFrame(b, flipped)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		r.num(f.Width), r.num(f.Height), r.num(f.Width*scale), r.num(f.Height*scale))
	if r.shadow {
		fmt.Fprintf(&buf, "  <defs>%s\n  </defs>\n", shadowFilter)
	}

	fmt.Fprintf(&buf, `  <g transform="translate(%s %s) scale(%s -1)"`, r.num(f.OffsetX), r.num(f.OffsetY), r.num(f.ScaleX))
	if r.shadow {
		buf.WriteString(` filter="url(#shadow)"`)
	}
	buf.WriteString(">\n")

	for _, g := range render.Compose(b, colors, flipped) {
		fmt.Fprintf(&buf, "    <g id=\"%s\">\n", g.ID)
		for _, fill := range g.Fills {
			r.writeFill(&buf, fill)
		}
		buf.WriteString("    </g>\n")
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func (r renderer) writeFill(buf *bytes.Buffer, f render.Fill) {
	fmt.Fprintf(buf, `      <path fill="%s" fill-opacity="%s" fill-rule="evenodd" d="%s"/>`+"\n",
		f.Color.SVG(), r.num(f.Color.A), r.pathData(f.Paths))
}

// pathData writes every ring as a closed subpath in board mm.
func (r renderer) pathData(ps geometry.Paths) string {
	var sb strings.Builder
	for _, p := range ps {
		if len(p) < 3 {
			continue
		}
		for i, pt := range p {
			if i == 0 {
				sb.WriteString("M")
			} else {
				sb.WriteString(" L")
			}
			sb.WriteString(r.num(geometry.ToMM(pt.X)))
			sb.WriteByte(' ')
			sb.WriteString(r.num(geometry.ToMM(pt.Y)))
		}
		sb.WriteString(" Z ")
	}
	return strings.TrimSpace(sb.String())
}

func (r renderer) num(v float64) string {
	p := math.Pow10(r.precision)
	v = math.Round(v*p) / p
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
