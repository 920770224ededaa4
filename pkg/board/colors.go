package board

import (
	"fmt"
	"math"
)

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGBA builds a color from a 4-element slice, as stored in config files.
// A 3-element slice is treated as opaque.
func RGBA(v []float64) (Color, error) {
	switch len(v) {
	case 3:
		v = append(v[:3:3], 1)
	case 4:
	default:
		return Color{}, fmt.Errorf("color needs 3 or 4 components, got %d", len(v))
	}
	for _, c := range v {
		if c < 0 || c > 1 || math.IsNaN(c) {
			return Color{}, fmt.Errorf("color component %v out of range [0, 1]", c)
		}
	}
	return Color{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

// SVG returns the color as an SVG rgb() value.
func (c Color) SVG() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", to8(c.R), to8(c.G), to8(c.B))
}

// RGBA8 returns the components scaled to 0..255.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ColorScheme holds the colors of the five board materials.
type ColorScheme struct {
	Soldermask Color
	Silkscreen Color
	Finish     Color
	Substrate  Color
	Copper     Color
}

// DefaultColors is a green soldermask board with white silkscreen and a tin
// finish.
var DefaultColors = ColorScheme{
	Soldermask: Color{R: 0.100, G: 0.600, B: 0.300, A: 0.600},
	Silkscreen: Color{R: 0.899, G: 0.899, B: 0.899, A: 0.899},
	Finish:     Color{R: 0.699, G: 0.699, B: 0.699, A: 1.0},
	Substrate:  Color{R: 0.600, G: 0.500, B: 0.300, A: 1.0},
	Copper:     Color{R: 0.800, G: 0.700, B: 0.300, A: 1.0},
}
