package sink

import "github.com/matzehuels/pipeviz/pkg/render"

// RenderPDF draws src as SVG and converts it to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(src render.Source, r *render.Renderer, opts ...SVGOption) ([]byte, error) {
	svg, err := RenderSVG(src, r, opts...)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}
