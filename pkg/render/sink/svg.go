package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/matzehuels/pipeviz/pkg/model"
	"github.com/matzehuels/pipeviz/pkg/render"
)

// SVGOption configures an [SVGSurface].
type SVGOption func(*SVGSurface)

// WithTitle adds a <title> element, shown by browsers as a tooltip.
func WithTitle(title string) SVGOption { return func(s *SVGSurface) { s.title = title } }

// WithTransparentBackground skips the figure background so the SVG can be
// embedded on colored pages. The plot area keeps its theme color.
func WithTransparentBackground() SVGOption { return func(s *SVGSurface) { s.transparent = true } }

// SVGSurface draws a diagram as a standalone SVG document.
type SVGSurface struct {
	scene
	title       string
	transparent bool
	out         []byte
}

// NewSVG returns an empty SVG surface.
func NewSVG(opts ...SVGOption) *SVGSurface {
	s := &SVGSurface{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RenderSVG draws src with r and returns the SVG document.
func RenderSVG(src render.Source, r *render.Renderer, opts ...SVGOption) ([]byte, error) {
	s := NewSVG(opts...)
	if err := r.Draw(src, s); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// Bytes returns the document produced by the last completed draw.
func (s *SVGSurface) Bytes() []byte { return s.out }

// End paints the recorded scene.
func (s *SVGSurface) End() error {
	f := s.frame
	v := newViewport(f)
	th := f.Theme
	textColor := themeColor(th.TextColor)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		f.Width, f.Height, f.Width, f.Height, escapeXML(f.FontFamily))
	if s.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(s.title))
	}
	if !s.transparent {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			f.Width, f.Height, hexOf(th.Background))
	}
	fmt.Fprintf(&buf, `  <rect class="plot" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		v.left, v.top, v.right-v.left, v.bottom-v.top, hexOf(th.PlotBackground))

	s.writeGrid(&buf, v, th)

	for _, b := range s.boxes {
		writeBox(&buf, v, b, f.FontSize)
	}
	for _, t := range s.texts {
		p := v.textPos(t)
		fmt.Fprintf(&buf, `  <text class="%s" x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="central" font-size="%.1f" fill="%s">%s</text>`+"\n",
			textClass(t.Kind), p.X, p.Y, svgAnchor(t.Anchor), t.Size, render.Hex(textColor), escapeXML(t.Content))
	}
	for _, c := range s.conns {
		writeConnector(&buf, v, c)
	}
	if len(s.legend) > 0 {
		writeLegend(&buf, v, s.legend, f.YLabelFontSize, textColor)
	}

	buf.WriteString("</svg>\n")
	s.out = buf.Bytes()
	return nil
}

func (s *SVGSurface) writeGrid(buf *bytes.Buffer, v viewport, th render.Theme) {
	if th.Grid {
		stroke := hexOf(th.GridColor)
		for _, t := range s.xTicks {
			x := v.x(t.Pos)
			fmt.Fprintf(buf, `  <line class="grid" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
				x, v.top, x, v.bottom, stroke)
		}
		for _, t := range s.yTicks {
			y := v.y(t.Pos)
			fmt.Fprintf(buf, `  <line class="grid" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
				v.left, y, v.right, y, stroke)
		}
	}
	if th.TickMarks {
		stroke := hexOf(th.SpineColor)
		for _, t := range s.xTicks {
			x := v.x(t.Pos)
			fmt.Fprintf(buf, `  <line class="tick" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
				x, v.bottom, x, v.bottom+tickMarkLength, stroke)
		}
		for _, t := range s.yTicks {
			y := v.y(t.Pos)
			fmt.Fprintf(buf, `  <line class="tick" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
				v.left-tickMarkLength, y, v.left, y, stroke)
		}
	}
	if th.Spines {
		fmt.Fprintf(buf, `  <rect class="spines" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="1.25"/>`+"\n",
			v.left, v.top, v.right-v.left, v.bottom-v.top, hexOf(th.SpineColor))
	}
}

func writeBox(buf *bytes.Buffer, v viewport, b render.Box, fontSize float64) {
	x, y, w, h := v.boxRect(b)
	r := math.Min(v.sx(boxCornerRadius), v.sy(boxCornerRadius))
	fmt.Fprintf(buf, `  <rect class="stage" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" fill-opacity="%.1f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		x, y, w, h, r, render.Hex(b.Fill), boxOpacity, render.Hex(b.Outline), boxStrokeWidth,
		dashAttr(b.LineStyle, boxStrokeWidth))

	size := math.Min(fontSize, h*0.6)
	label := truncateLabel(b.Label, w, size)
	c := v.pt(b.Center)
	fmt.Fprintf(buf, `  <text class="stage-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-size="%.1f" font-weight="bold">%s</text>`+"\n",
		c.X, c.Y, size, escapeXML(label))
}

func writeConnector(buf *bytes.Buffer, v viewport, c render.Connector) {
	a := connectorArrow(v, c)
	col := render.Hex(c.Color)

	var d strings.Builder
	fmt.Fprintf(&d, "M %.2f %.2f", a.shaft[0].X, a.shaft[0].Y)
	if a.curved {
		fmt.Fprintf(&d, " Q %.2f %.2f %.2f %.2f", a.shaft[1].X, a.shaft[1].Y, a.shaft[2].X, a.shaft[2].Y)
	} else {
		for _, p := range a.shaft[1:] {
			fmt.Fprintf(&d, " L %.2f %.2f", p.X, p.Y)
		}
	}

	fmt.Fprintf(buf, `  <g class="connector" opacity="%.1f">`+"\n", connectorOpacity)
	if c.Legend != "" {
		fmt.Fprintf(buf, "    <title>%s</title>\n", escapeXML(c.Legend))
	}
	fmt.Fprintf(buf, `    <path d="%s" fill="none" stroke="%s" stroke-width="%.0f"%s/>`+"\n",
		d.String(), col, connectorWidth, dashAttr(c.LineStyle, connectorWidth))
	fmt.Fprintf(buf, `    <polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s"/>`+"\n",
		a.head[0].X, a.head[0].Y, a.head[1].X, a.head[1].Y, a.head[2].X, a.head[2].Y, col)
	buf.WriteString("  </g>\n")
}

func writeLegend(buf *bytes.Buffer, v viewport, entries []render.LegendEntry, size float64, textColor color.RGBA) {
	x, y, w, h := legendBox(v, entries, size)
	pad := size * 0.6
	fmt.Fprintf(buf, `  <g class="legend">`+"\n")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="white" fill-opacity="0.8" stroke="#cccccc"/>`+"\n",
		x, y, w, h)
	for i, e := range entries {
		cy := y + pad/2 + (float64(i)+0.5)*size*lineHeight
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.0f" stroke-opacity="%.1f"%s/>`+"\n",
			x+pad, cy, x+pad+legendSample, cy, render.Hex(e.Color), connectorWidth, connectorOpacity,
			dashAttr(e.LineStyle, connectorWidth))
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" dominant-baseline="central" font-size="%.1f" fill="%s">%s</text>`+"\n",
			x+pad*2+legendSample, cy, size, render.Hex(textColor), escapeXML(e.Text))
	}
	buf.WriteString("  </g>\n")
}

func dashAttr(ls model.LineStyle, width float64) string {
	pattern := render.DashPattern(ls, width)
	if len(pattern) == 0 {
		return ""
	}
	parts := make([]string, len(pattern))
	for i, p := range pattern {
		parts[i] = fmt.Sprintf("%.1f", p)
	}
	return fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, ","))
}

func textClass(k render.TextKind) string {
	if k == render.RowLabel {
		return "row-label"
	}
	return "cycle-label"
}

// themeColor resolves a theme color. Theme colors are fixed at compile time
// and covered by tests, so a failure here is a programming error.
func themeColor(s string) color.RGBA { return render.MustParseColor(s) }

func hexOf(s string) string { return render.Hex(themeColor(s)) }
