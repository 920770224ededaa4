// Package pkg provides the core libraries of stackup.
//
// # Overview
//
// Stackup reconstructs the physical layer stack of a printed circuit board
// from its 2D layer geometry (outline, drills, copper, soldermask and
// silkscreen polygons) and turns it into board views, solid models and net
// diagrams. The pkg directory is organized into three areas:
//
//  1. Domain model: [geometry], [board], [netlist], [io]
//  2. Outputs: [render], [render/svg], [render/raster], [render/netgraph], [mesh]
//  3. Orchestration and infrastructure: [pipeline], [cache], [session],
//     [server], [audit], [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow through stackup:
//
//	Board document (JSON)
//	         ↓
//	    [io] package (decode and validate)
//	         ↓
//	    [board] package (stack layers, derive dielectric, plating, finish)
//	         ↓
//	    [netlist] package (connect copper through vias)
//	         ↓
//	    [render] / [mesh] packages
//	         ↓
//	    SVG/PNG views, OBJ/STL models, net diagrams, JSON summary
//
// # Quick Start
//
// Load a board and write its solid model:
//
//	doc, b, _ := io.Load("board.json", board.DefaultStackup)
//	nl := netlist.Extract(b)
//	nl.ApplyProbes(doc.Probes())
//
//	model, _ := mesh.Build(ctx, b, nl, mesh.Options{Workers: 4})
//	_ = mesh.WriteSTL(f, model)
//
// Or run the whole pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, _ := runner.Execute(ctx, pipeline.Options{
//	    Document: data,
//	    Formats:  []string{"svg", "obj"},
//	})
//
// [geometry]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/geometry
// [board]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/board
// [netlist]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/netlist
// [io]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/render/svg
// [render/raster]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/render/raster
// [render/netgraph]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/render/netgraph
// [mesh]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/mesh
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/server
// [audit]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/audit
// [config]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/stackup/pkg/buildinfo
package pkg
