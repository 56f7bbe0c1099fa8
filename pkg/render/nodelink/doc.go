// Package nodelink renders a pipeline as a node-link diagram instead of a
// timing diagram.
//
// Instructions become Graphviz clusters laid out left to right, stages become
// boxes inside them, and dependency edges become arrows between the boxes.
// The view is useful for long programs where the timing grid gets too wide to
// follow individual dependencies.
//
// # Usage
//
//	dot, err := nodelink.ToDOT(p, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [RenderPDF] and [RenderPNG] convert the SVG with rsvg-convert:
//
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
