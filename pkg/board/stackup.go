package board

import "github.com/matzehuels/stackup/pkg/errors"

// Stackup holds the physical layer thicknesses in mm.
type Stackup struct {
	CopperThickness    float64 `json:"copper_thickness" toml:"copper_thickness"`
	SubstrateThickness float64 `json:"substrate_thickness" toml:"substrate_thickness"`
	PlatingThickness   float64 `json:"plating_thickness" toml:"plating_thickness"`
}

// CopperOz is the thickness of 1 oz/ft² copper in mm.
const CopperOz = 0.0348

// DefaultStackup is a 1.6 mm two-layer board with 1 oz copper and half an
// ounce of barrel plating.
var DefaultStackup = Stackup{
	CopperThickness:    CopperOz,
	SubstrateThickness: 1.5,
	PlatingThickness:   0.5 * CopperOz,
}

// Validate checks that every thickness is a usable physical length.
func (s Stackup) Validate() error {
	if err := errors.ValidateDimension("copper_thickness", s.CopperThickness, false); err != nil {
		return err
	}
	if err := errors.ValidateDimension("substrate_thickness", s.SubstrateThickness, false); err != nil {
		return err
	}
	return errors.ValidateDimension("plating_thickness", s.PlatingThickness, true)
}
