// Package io reads and writes board documents.
//
// # Overview
//
// A board document is a JSON description of an already-parsed circuit board:
// the outline and milled slots, the drill list, and the raw polygons of every
// copper, soldermask and silkscreen layer. All coordinates are in millimetres.
// This package is the boundary between whatever produced the polygons (a
// Gerber parser, a CAD export, a test fixture) and the [board] model.
//
// # JSON Format
//
//	{
//	  "name": "demo",
//	  "outline": [[[0,0],[10,0],[10,10],[0,10]]],
//	  "mill": [],
//	  "drills": [{"x": 5, "y": 5, "diameter": 0.3, "plated": true}],
//	  "layers": [
//	    {"role": "copper", "side": "top", "polygons": [[[4,4],[6,4],[6,6],[4,6]]]},
//	    {"role": "mask", "side": "top", "polygons": [[[4,4],[6,4],[6,6],[4,6]]]},
//	    {"role": "silk", "side": "top", "polygons": []},
//	    {"role": "copper", "side": "inner", "index": 1, "polygons": []}
//	  ],
//	  "nets": [{"name": "VCC", "probes": [{"x": 5, "y": 5, "layer": 1}]}]
//	}
//
// # Layers
//
// Each layer entry has a role and a side:
//
//   - copper: raw copper polygons; side "top", "bottom" or "inner" (inner
//     layers carry an index and are stacked in ascending index order)
//   - mask: soldermask openings; side "top" or "bottom"
//   - silk: silkscreen print; side "top" or "bottom"
//
// Several entries with the same role and side are merged.
//
// # Drills
//
// Drill diameters are finished hole sizes. Plated drills become vias; "from"
// and "to" restrict a via to a span of copper layers (bottom layer 0, a
// negative "to" or an absent one meaning the top layer).
//
// # Building
//
// [Document.Build] turns a document into a finalized [board.Board] given the
// physical layer thicknesses of a [board.Stackup]. [Document.Probes] returns
// the named probe points for [netlist.Netlist.ApplyProbes].
//
// [board]: github.com/matzehuels/stackup/pkg/board
// [board.Board]: github.com/matzehuels/stackup/pkg/board.Board
// [board.Stackup]: github.com/matzehuels/stackup/pkg/board.Stackup
// [netlist.Netlist.ApplyProbes]: github.com/matzehuels/stackup/pkg/netlist.Netlist.ApplyProbes
package io
