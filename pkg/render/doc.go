// Package render composes the 2D view of a board.
//
// # Overview
//
// A view is the stack of layers seen from one side, painted back to front.
// [Compose] turns a finalized [board.Board] into that ordered list of
// [Group] values, one per layer plus the surface finish, each holding the
// filled polygon sets of the layer in its material colors. The subpackages
// turn groups into output formats:
//
//   - [svg]: layered SVG document, one <g> element per group
//   - [raster]: PNG raster of the same view
//   - [netgraph]: net connectivity diagram via Graphviz
//
// # Frame
//
// Both the SVG and the raster view share the same frame: the board bounds
// grown by [Margin] on every side, with the board's left edge (or right edge
// for the flipped view) and top edge mapped to the margin. [NewFrame] holds
// that mapping.
//
//	groups := render.Compose(b, board.DefaultColors, false)
//	doc := svg.Render(b, board.DefaultColors, false, 1)
//
// [board.Board]: github.com/matzehuels/stackup/pkg/board.Board
// [svg]: github.com/matzehuels/stackup/pkg/render/svg
// [raster]: github.com/matzehuels/stackup/pkg/render/raster
// [netgraph]: github.com/matzehuels/stackup/pkg/render/netgraph
package render
