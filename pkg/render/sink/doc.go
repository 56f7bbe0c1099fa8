// Package sink provides the drawing surfaces for pipeline diagrams.
//
// Every surface implements [render.Surface]. A surface records the calls it
// receives and paints them at End in its own layer order, then exposes the
// result through Bytes:
//
//   - [SVGSurface]: standalone SVG document
//   - [PNGSurface]: raster image drawn with github.com/fogleman/gg and the Go fonts
//   - [TermSurface]: colored text for terminals, styled with lipgloss
//   - [JSONSurface]: the laid-out diagram as JSON
//
// [RenderPDF] converts the SVG output with rsvg-convert.
//
// The RenderX helpers create a surface, draw, and return the bytes:
//
//	svg, err := sink.RenderSVG(p, p.Renderer())
//	png, err := sink.RenderPNG(p, p.Renderer())
//
// Surfaces are not safe for concurrent use. A surface may be reused; each
// Begin discards the previous scene.
package sink
