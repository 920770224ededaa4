// Package raster renders the 2D view of a board to a PNG image.
//
// The view is the same as the SVG one: groups from [render.Compose] painted
// back to front inside the frame of [render.NewFrame]. Polygons are filled
// with the anti-aliasing rasterizer of golang.org/x/image/vector.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/render"
)

// MaxPixels caps the image area so that a huge board or resolution cannot
// exhaust memory.
const MaxPixels = 64 << 20

// Option configures raster rendering.
type Option func(*rasterizer)

type rasterizer struct {
	dpmm       float64
	background color.Color
}

// WithResolution sets the resolution in pixels per mm (default 10).
func WithResolution(dpmm float64) Option {
	return func(r *rasterizer) { r.dpmm = dpmm }
}

// WithBackground fills the image before painting. The default is
// transparent.
func WithBackground(c color.Color) Option {
	return func(r *rasterizer) { r.background = c }
}

// Render paints the view of b from the top, or from the bottom when flipped.
func Render(b *board.Board, colors board.ColorScheme, flipped bool, opts ...Option) (*image.NRGBA, error) {
	r := rasterizer{dpmm: 10, background: color.Transparent}
	for _, opt := range opts {
		opt(&r)
	}
	if r.dpmm <= 0 || math.IsNaN(r.dpmm) || math.IsInf(r.dpmm, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "resolution must be positive, got %g", r.dpmm)
	}

	f := render.NewFrame(b, flipped)
	w := int(math.Ceil(f.Width * r.dpmm))
	h := int(math.Ceil(f.Height * r.dpmm))
	if w <= 0 || h <= 0 || w*h > MaxPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image of %dx%d pixels is out of range", w, h)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(w, h)
	for _, g := range render.Compose(b, colors, flipped) {
		for _, fill := range g.Fills {
			z.Reset(w, h)
			r.trace(z, f, fill)
			z.Draw(img, img.Bounds(), image.NewUniform(nrgba(fill.Color)), image.Point{})
		}
	}
	return img, nil
}

// RenderPNG renders the view and encodes it as PNG.
func RenderPNG(b *board.Board, colors board.ColorScheme, flipped bool, opts ...Option) ([]byte, error) {
	img, err := Render(b, colors, flipped, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func (r rasterizer) trace(z *vector.Rasterizer, f render.Frame, fill render.Fill) {
	for _, p := range fill.Paths {
		if len(p) < 3 {
			continue
		}
		for i, pt := range p {
			x, y := f.Apply(pt)
			px, py := float32(x*r.dpmm), float32(y*r.dpmm)
			if i == 0 {
				z.MoveTo(px, py)
			} else {
				z.LineTo(px, py)
			}
		}
		z.ClosePath()
	}
}

func nrgba(c board.Color) color.NRGBA {
	r, g, b, a := c.RGBA8()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
