package io

import (
	"math"

	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/geometry"
)

// Layer roles.
const (
	RoleCopper = "copper"
	RoleMask   = "mask"
	RoleSilk   = "silk"
)

// Layer sides.
const (
	SideTop    = "top"
	SideBottom = "bottom"
	SideInner  = "inner"
)

// Point is an [x, y] pair in mm.
type Point [2]float64

// Ring is a closed polygon ring; the closing edge is implicit.
type Ring []Point

// Document is a board document.
type Document struct {
	Name    string  `json:"name,omitempty"`
	Outline []Ring  `json:"outline"`
	Mill    []Ring  `json:"mill,omitempty"`
	Drills  []Drill `json:"drills,omitempty"`
	Layers  []Layer `json:"layers"`
	Nets    []Net   `json:"nets,omitempty"`
}

// Drill is a round hole.
type Drill struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Diameter float64 `json:"diameter"`
	Plated   bool    `json:"plated"`
	From     *int    `json:"from,omitempty"`
	To       *int    `json:"to,omitempty"`
}

// Layer is the raw polygon input of one layer.
type Layer struct {
	Role     string `json:"role"`
	Side     string `json:"side"`
	Index    int    `json:"index,omitempty"`
	Polygons []Ring `json:"polygons"`
}

// Net names the copper under a set of probe points.
type Net struct {
	Name   string  `json:"name"`
	Probes []Probe `json:"probes"`
}

// Probe is a point on a copper layer.
type Probe struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Layer int     `json:"layer"`
}

// Validate checks the document for structural errors. It does not require an
// outline; a board without one fails in [Document.Build] with
// MISSING_OUTLINE.
func (d *Document) Validate() error {
	if err := errors.ValidateName("board", d.Name); err != nil {
		return err
	}
	if err := validateRings("outline", d.Outline); err != nil {
		return err
	}
	if err := validateRings("mill", d.Mill); err != nil {
		return err
	}
	for i, dr := range d.Drills {
		if !finite(dr.X) || !finite(dr.Y) {
			return errors.New(errors.ErrCodeInvalidInput, "drill %d: coordinates must be finite", i)
		}
		if err := errors.ValidateDimension("drill diameter", dr.Diameter, false); err != nil {
			return err
		}
	}

	inner := make(map[int]bool)
	var top, bottom bool
	for i, l := range d.Layers {
		switch l.Role {
		case RoleCopper, RoleMask, RoleSilk:
		default:
			return errors.New(errors.ErrCodeInvalidInput, "layer %d: unknown role %q", i, l.Role)
		}
		switch l.Side {
		case SideTop:
			top = top || l.Role == RoleCopper
		case SideBottom:
			bottom = bottom || l.Role == RoleCopper
		case SideInner:
			if l.Role != RoleCopper {
				return errors.New(errors.ErrCodeInvalidInput, "layer %d: %s layers cannot be inner", i, l.Role)
			}
			if l.Index <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "layer %d: inner layer index must be positive", i)
			}
			inner[l.Index] = true
		default:
			return errors.New(errors.ErrCodeInvalidInput, "layer %d: unknown side %q", i, l.Side)
		}
		if err := validateRings("layer", l.Polygons); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "layer %d", i)
		}
	}

	layers := len(inner)
	for _, present := range []bool{top, bottom} {
		if present {
			layers++
		}
	}
	for _, n := range d.Nets {
		if err := errors.ValidateName("net", n.Name); err != nil {
			return err
		}
		for _, p := range n.Probes {
			if !finite(p.X) || !finite(p.Y) {
				return errors.New(errors.ErrCodeInvalidInput, "net %s: probe coordinates must be finite", n.Name)
			}
			if p.Layer < 0 || p.Layer >= layers {
				return errors.New(errors.ErrCodeLayerMismatch, "net %s: probe on copper layer %d, document has %d copper layers", n.Name, p.Layer, layers)
			}
		}
	}
	return nil
}

func validateRings(what string, rings []Ring) error {
	for i, r := range rings {
		if len(r) < 3 {
			return errors.New(errors.ErrCodeInvalidInput, "%s ring %d has %d points, need at least 3", what, i, len(r))
		}
		for _, p := range r {
			if !finite(p[0]) || !finite(p[1]) {
				return errors.New(errors.ErrCodeInvalidInput, "%s ring %d has a non-finite coordinate", what, i)
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func toPaths(rings []Ring) geometry.Paths {
	out := make(geometry.Paths, 0, len(rings))
	for _, r := range rings {
		p := make(geometry.Path, len(r))
		for i, pt := range r {
			p[i] = geometry.Pt(pt[0], pt[1])
		}
		out = append(out, p)
	}
	return out
}
