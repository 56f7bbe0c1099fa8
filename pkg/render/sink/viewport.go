package sink

import (
	"math"

	"github.com/matzehuels/pipeviz/pkg/render"
)

// Text metrics used to size margins and the legend without a font engine.
const (
	charWidthRatio = 0.55
	lineHeight     = 1.6
	marginRatio    = 0.04
	maxLeftRatio   = 0.45
)

// Arrow head and stroke geometry, in pixels.
const (
	connectorWidth   = 2.0
	connectorOpacity = 0.5
	arrowLength      = 12.0
	arrowHalfWidth   = 4.5
	boxOpacity       = 0.6
	boxStrokeWidth   = 1.5
	boxCornerRadius  = 0.05 // data units
	tickMarkLength   = 5.0
)

type pt struct{ X, Y float64 }

// viewport maps data coordinates to pixels. The plot area leaves room for
// row labels on the left and cycle labels below.
type viewport struct {
	width, height            float64
	left, right, top, bottom float64
	xlim, ylim               [2]float64
}

func newViewport(f render.Frame) viewport {
	mx := f.Width * marginRatio
	my := f.Height * marginRatio
	labelW := textWidth(f.MaxRowLabel, f.YLabelFontSize) + 2*render.LabelPad
	left := math.Min(math.Max(mx, labelW), f.Width*maxLeftRatio)
	bottom := f.Height - math.Max(my, render.LabelPad*2+f.XLabelFontSize*lineHeight)

	return viewport{
		width: f.Width, height: f.Height,
		left: left, right: f.Width - mx,
		top: my, bottom: bottom,
		xlim: f.XLim, ylim: f.YLim,
	}
}

func (v viewport) x(x float64) float64 {
	return v.left + (x-v.xlim[0])/(v.xlim[1]-v.xlim[0])*(v.right-v.left)
}

func (v viewport) y(y float64) float64 {
	return v.bottom - (y-v.ylim[0])/(v.ylim[1]-v.ylim[0])*(v.bottom-v.top)
}

func (v viewport) pt(p render.Point) pt { return pt{v.x(p.X), v.y(p.Y)} }

// sx and sy convert a data length to pixels.
func (v viewport) sx(d float64) float64 { return d / (v.xlim[1] - v.xlim[0]) * (v.right - v.left) }
func (v viewport) sy(d float64) float64 { return d / (v.ylim[1] - v.ylim[0]) * (v.bottom - v.top) }

// textPos returns the pixel anchor of a free-standing label.
func (v viewport) textPos(t render.Text) pt {
	p := v.pt(t.Pos)
	return pt{p.X + t.Offset.X, p.Y + t.Offset.Y}
}

// boxRect returns the pixel rectangle (x, y, w, h) of a box, top-left origin.
func (v viewport) boxRect(b render.Box) (x, y, w, h float64) {
	w = math.Max(0, v.sx(b.Width))
	h = v.sy(b.Height)
	c := v.pt(b.Center)
	return c.X - w/2, c.Y - h/2, w, h
}

// arrow is a connector in pixel space: the shaft ends at the base of the
// head so the line does not poke through the tip.
type arrow struct {
	shaft  []pt // polyline, or [start, control, end] when curved
	curved bool
	head   [3]pt // tip, left, right
}

func connectorArrow(v viewport, c render.Connector) arrow {
	pts := make([]pt, len(c.Points))
	for i, p := range c.Points {
		pts[i] = v.pt(p)
	}
	tip := pts[len(pts)-1]

	// direction of travel at the tip
	from := pts[0]
	for i := len(pts) - 2; i >= 0; i-- {
		if pts[i] != tip {
			from = pts[i]
			break
		}
	}
	dx, dy := tip.X-from.X, tip.Y-from.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		dx, dy, l = 1, 0, 1
	}
	ux, uy := dx/l, dy/l

	base := pt{tip.X - ux*arrowLength, tip.Y - uy*arrowLength}
	pts[len(pts)-1] = base

	return arrow{
		shaft:  pts,
		curved: c.Curved,
		head: [3]pt{
			tip,
			{base.X - uy*arrowHalfWidth, base.Y + ux*arrowHalfWidth},
			{base.X + uy*arrowHalfWidth, base.Y - ux*arrowHalfWidth},
		},
	}
}

// legendBox returns the top-left corner and size of the legend panel placed
// in the upper right corner of the plot area.
func legendBox(v viewport, entries []render.LegendEntry, size float64) (x, y, w, h float64) {
	longest := 0
	for _, e := range entries {
		longest = max(longest, len([]rune(e.Text)))
	}
	pad := size * 0.6
	w = legendSample + pad*3 + textWidth(longest, size)
	h = float64(len(entries))*size*lineHeight + pad
	return v.right - w - pad, v.top + pad, w, h
}

const legendSample = 28.0 // pixels of line drawn per legend row

func textWidth(chars int, size float64) float64 {
	return float64(chars) * size * charWidthRatio
}
