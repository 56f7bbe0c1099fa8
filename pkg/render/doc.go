// Package render lays out pipeline timing diagrams and drives drawing
// surfaces.
//
// # Overview
//
// A [Renderer] reads the instructions and edges of a pipeline through the
// [Source] interface and produces a [Diagram]: boxes for every stage, axis
// ticks, row and cycle labels, connectors for every dependency, and the
// legend. The diagram is then replayed onto a [Surface].
//
//	r := render.NewRenderer(render.DefaultConfig())
//	d, err := r.Layout(p)         // pure, no drawing
//	err = r.Draw(p, surface)      // layout + replay
//
// # Coordinates
//
// Layout works in data units. The x axis counts cycles; a stage spanning
// cycles s..e is centered at (s+e)/2 and is (e-s+1)-0.2 wide. The y axis
// counts instruction rows, with the first instruction at the top: the row of
// the instruction at index i is len(ops)-i. Surfaces map data units to their
// own pixel or character grid.
//
// # Edge Routing
//
// [Config.EdgeRouting] selects how connectors run from the last cycle of a
// source stage to the first cycle of the target stage:
//
//   - "orthogonal": horizontal then vertical, a three-point polyline
//   - "curved": a quadratic curve bent by a fixed curvature of 0.15
//
// Any other value fails with INVALID_ROUTING_MODE before a surface is
// touched.
//
// # Legend
//
// Edges with a non-empty legend contribute one row per distinct legend
// text. Rows appear in order of first use; the style comes from the last
// edge that used the text.
//
// # Configuration
//
// [Config] is TOML-serializable. [LoadConfig] overlays a file on
// [DefaultConfig]:
//
//	style = "darkgrid"
//	edge_routing = "orthogonal"
//	x_axis_label_stride = 8
//	x_axis_tick_stride = 8
//
// # Format Conversion
//
// [ToPDF] converts SVG output to PDF with the external rsvg-convert tool
// (from librsvg).
package render
