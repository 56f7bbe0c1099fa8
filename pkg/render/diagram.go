package render

import (
	"image/color"

	"github.com/matzehuels/pipeviz/pkg/model"
)

// Box geometry in data units.
const (
	BoxHeight   = 0.6
	BoxGap      = 0.2 // subtracted from the duration to separate adjacent boxes
	Curvature   = 0.15
	LabelPad    = 8.0 // pixels between the plot edge and axis labels
	minPlotSpan = 1.0
)

// Point is a position in data coordinates: x in cycles, y in rows.
type Point struct {
	X, Y float64
}

// Frame describes the figure a surface draws on: pixel size, data limits,
// and the typography and theme to use.
type Frame struct {
	Width, Height  float64 // pixels
	XLim, YLim     [2]float64
	Theme          Theme
	FontFamily     string
	FontSize       float64
	YLabelFontSize float64
	XLabelFontSize float64
	MaxRowLabel    int // runes in the longest row label
}

// Box is a laid-out stage.
type Box struct {
	Op        string // instruction label
	Label     string
	Row       int
	Start     int
	End       int
	Center    Point
	Width     float64
	Height    float64
	Fill      color.RGBA
	Outline   color.RGBA
	LineStyle model.LineStyle
}

// Connector is one arrow between two consecutive nodes of an edge.
//
// For orthogonal routing Points is the polyline [source, corner, target].
// For curved routing Points is [source, control, target] of a quadratic
// Bézier curve.
type Connector struct {
	From      string // source node, "label@cycle"
	To        string
	Points    []Point
	Curved    bool
	Color     color.RGBA
	LineStyle model.LineStyle
	Legend    string
}

// Source returns the start point of the connector.
func (c Connector) Source() Point { return c.Points[0] }

// Target returns the end point of the connector.
func (c Connector) Target() Point { return c.Points[len(c.Points)-1] }

// Tick is an axis tick position in data units.
type Tick struct {
	Pos float64
}

// Anchor is the horizontal alignment of a text relative to its position.
type Anchor int

const (
	AnchorMiddle Anchor = iota
	AnchorStart
	AnchorEnd
)

// TextKind distinguishes the label families a surface may style differently.
type TextKind int

const (
	RowLabel TextKind = iota
	CycleLabel
)

// Text is a free-standing label. Offset is applied in pixels after mapping
// Pos to the surface, with y growing downward.
type Text struct {
	Kind    TextKind
	Content string
	Pos     Point
	Offset  Point
	Anchor  Anchor
	Size    float64
}

// LegendEntry is one row of the diagram legend.
type LegendEntry struct {
	Text      string
	Color     color.RGBA
	LineStyle model.LineStyle
}

// Diagram is a complete, validated layout ready to be drawn on a [Surface].
type Diagram struct {
	Frame      Frame
	Routing    string
	Boxes      []Box
	XTicks     []Tick
	YTicks     []Tick
	Labels     []Text
	Connectors []Connector
	Legend     []LegendEntry
}

// XRange returns the smallest and largest cycle covered by any box, and false
// if there are no boxes.
func (d Diagram) XRange() (lo, hi int, ok bool) {
	for i, b := range d.Boxes {
		if i == 0 {
			lo, hi = b.Start, b.End
		}
		lo = min(lo, b.Start, b.End)
		hi = max(hi, b.Start, b.End)
	}
	return lo, hi, len(d.Boxes) > 0
}

// Rows returns the number of instruction rows.
func (d Diagram) Rows() int {
	n := 0
	for _, t := range d.Labels {
		if t.Kind == RowLabel {
			n++
		}
	}
	return n
}
