// Package pipeline provides the board render pipeline for stackup.
//
// This package implements the complete parse → build → netlist → render
// pipeline shared by the CLI and the HTTP server, so both produce identical
// artifacts for identical inputs.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Parse the board document and assemble the finished layer stack
//  2. Netlist: Extract the physical nets and apply probe names
//  3. Render: Generate artifacts in the requested formats
//
// Rendered artifacts are cached per format under a key derived from the
// document content and every option that changes the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Document: data,
//	    Formats:  []string{"svg", "obj"},
//	})
//	if err != nil {
//	    return err
//	}
//	top := result.Artifacts["top.svg"]
package pipeline

import (
	"path"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/cache"
	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/io"
	"github.com/matzehuels/stackup/pkg/netlist"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the SVG user units per mm.
	DefaultScale = 1.0

	// DefaultResolution is the PNG resolution in pixels per mm.
	DefaultResolution = 10.0

	// DefaultWorkers bounds concurrent net meshing.
	DefaultWorkers = 4
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatOBJ  = "obj"
	FormatSTL  = "stl"
	FormatJSON = "json"
	FormatNets = "nets"
)

// DefaultFormats are rendered when no format is requested.
var DefaultFormats = []string{FormatSVG}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatOBJ:  true,
	FormatSTL:  true,
	FormatJSON: true,
	FormatNets: true,
}

// formatArtifacts lists the files each format produces.
var formatArtifacts = map[string][]string{
	FormatSVG:  {"top.svg", "bottom.svg"},
	FormatPNG:  {"top.png", "bottom.png"},
	FormatOBJ:  {"board.obj", "board.mtl"},
	FormatSTL:  {"board.stl"},
	FormatJSON: {"summary.json"},
	FormatNets: {"nets.dot", "nets.svg"},
}

// Artifacts returns the artifact names a format produces, or nil for an
// unknown format.
func Artifacts(format string) []string {
	return formatArtifacts[format]
}

var contentTypes = map[string]string{
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".obj":  "model/obj",
	".mtl":  "model/mtl",
	".stl":  "model/stl",
	".dot":  "text/vnd.graphviz",
	".json": "application/json",
}

// ContentType returns the media type of an artifact by its extension.
func ContentType(name string) string {
	if ct, ok := contentTypes[path.Ext(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Document is the raw board document (see package io).
	Document []byte `json:"-"`

	// Build options
	Stackup board.Stackup `json:"stackup"`

	// Render options
	Formats    []string          `json:"formats,omitempty"`
	Colors     board.ColorScheme `json:"colors"`
	Scale      float64           `json:"scale,omitempty"`
	Resolution float64           `json:"resolution,omitempty"`
	Shadow     bool              `json:"shadow,omitempty"`
	Workers    int               `json:"workers,omitempty"`
	Refresh    bool              `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed board document.
	Document *io.Document

	// DocumentHash is the content hash of the raw document.
	DocumentHash string

	// Board is the finished board.
	Board *board.Board

	// Netlist holds the board's physical nets with probe names applied.
	Netlist *netlist.Netlist

	// Artifacts contains rendered outputs keyed by artifact name.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks cache hits.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Layers     int           `json:"layers"`
	Nets       int           `json:"nets"`
	Vias       int           `json:"vias"`
	BuildTime  time.Duration `json:"build_time"`
	NetTime    time.Duration `json:"net_time"`
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	// Hits lists the formats served from the cache.
	Hits []string `json:"hits,omitempty"`
	// RenderHit is true when every format came from the cache.
	RenderHit bool `json:"render_hit"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, obj, stl, json, nets)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Document) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "board document is empty")
	}

	if o.Stackup == (board.Stackup{}) {
		o.Stackup = board.DefaultStackup
	}
	if err := o.Stackup.Validate(); err != nil {
		return err
	}
	if o.Colors == (board.ColorScheme{}) {
		o.Colors = board.DefaultColors
	}

	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)

	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	if o.Resolution == 0 {
		o.Resolution = DefaultResolution
	}
	if o.Resolution < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "resolution must be positive, got %v", o.Resolution)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers cannot be negative, got %d", o.Workers)
	}

	o.validated = true
	return nil
}

// ArtifactKeyOpts returns the options that affect the given format's output.
// Options a format ignores are left zero so they do not split the cache.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Stackup: o.Stackup}
	switch format {
	case FormatSVG:
		k.Colors = o.Colors
		k.Scale = o.Scale
		k.Shadow = o.Shadow
	case FormatPNG:
		k.Colors = o.Colors
		k.Resolution = o.Resolution
	case FormatOBJ:
		k.Colors = o.Colors
	}
	return k
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
