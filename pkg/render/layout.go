package render

import (
	"image/color"
	"strconv"
	"unicode/utf8"

	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/model"
)

// Layout computes the diagram for src. It is a pure function of the pipeline
// contents and the configuration: calling it twice yields equal diagrams.
//
// Row r of an instruction at index i is len(ops) - i, so the first
// instruction is drawn at the top. The x limits span exactly the cycles
// covered by the boxes, padded by half a cycle.
func (r *Renderer) Layout(src Source) (Diagram, error) {
	cfg := r.cfg
	if err := cfg.Validate(); err != nil {
		return Diagram{}, err
	}
	theme, _ := LookupTheme(cfg.Style)

	ops := src.Ops()
	rows := make(map[string]int, len(ops))
	for i, op := range ops {
		rows[op.ID] = len(ops) - i
	}

	d := Diagram{Routing: cfg.EdgeRouting}

	defaultFill, err := ParseColor(theme.NodeFill)
	if err != nil {
		return Diagram{}, err
	}
	outline, err := ParseColor(theme.NodeOutline)
	if err != nil {
		return Diagram{}, err
	}

	for i, op := range ops {
		row := len(ops) - i
		for _, n := range op.Stages() {
			fill := defaultFill
			if n.Style.IsStyled() {
				if fill, err = ParseColor(n.Style.Color); err != nil {
					return Diagram{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "stage %s of %q", n, op.Label)
				}
			}
			d.Boxes = append(d.Boxes, Box{
				Op:        op.Label,
				Label:     n.Label,
				Row:       row,
				Start:     n.Start,
				End:       n.End(),
				Center:    Point{X: (float64(n.Start) + float64(n.End())) / 2, Y: float64(row)},
				Width:     float64(n.Duration) - BoxGap,
				Height:    BoxHeight,
				Fill:      fill,
				Outline:   outline,
				LineStyle: n.Style.LineStyle.OrSolid(),
			})
		}
	}

	yLim := [2]float64{0.5, float64(len(ops)) + 0.5}
	if len(ops) == 0 {
		yLim[1] = 0.5 + minPlotSpan
	}
	for i := range ops {
		d.YTicks = append(d.YTicks, Tick{Pos: float64(len(ops)) + 0.5 - float64(i)})
	}

	xLim := [2]float64{-0.5, 0.5}
	if lo, hi, ok := d.XRange(); ok {
		xLim = [2]float64{float64(lo) - 0.5, float64(hi) + 0.5}
		for _, c := range strideCycles(lo, hi, cfg.XAxisTickStride) {
			d.XTicks = append(d.XTicks, Tick{Pos: float64(c) + 0.5})
		}
		for _, c := range strideCycles(lo, hi, cfg.XAxisLabelStride) {
			d.Labels = append(d.Labels, Text{
				Kind:    CycleLabel,
				Content: strconv.Itoa(c),
				Pos:     Point{X: float64(c), Y: yLim[0]},
				Offset:  Point{Y: LabelPad + cfg.XLabelFontSize/2},
				Anchor:  AnchorMiddle,
				Size:    cfg.XLabelFontSize,
			})
		}
	}

	rowLabels := make([]Text, 0, len(ops))
	for i, op := range ops {
		rowLabels = append(rowLabels, Text{
			Kind:    RowLabel,
			Content: op.Label,
			Pos:     Point{X: xLim[0], Y: float64(len(ops) - i)},
			Offset:  Point{X: -LabelPad},
			Anchor:  AnchorEnd,
			Size:    cfg.YLabelFontSize,
		})
	}
	d.Labels = append(rowLabels, d.Labels...)

	legend := newLegendBuilder()
	for _, e := range src.Edges() {
		conns, err := connectors(e, rows, cfg.EdgeRouting)
		if err != nil {
			return Diagram{}, err
		}
		d.Connectors = append(d.Connectors, conns...)
		if e.HasLegend() {
			c, _ := ParseColor(e.Style.Color)
			legend.set(e.Legend, c, e.Style.LineStyle.OrSolid())
		}
	}
	d.Legend = legend.entries()

	d.Frame = Frame{
		Width:          cfg.Width(),
		Height:         cfg.Height(),
		XLim:           xLim,
		YLim:           yLim,
		Theme:          theme,
		FontFamily:     cfg.FontFamily,
		FontSize:       cfg.FontSize,
		YLabelFontSize: cfg.YLabelFontSize,
		XLabelFontSize: cfg.XLabelFontSize,
		MaxRowLabel:    maxRowLabel(ops),
	}
	return d, nil
}

// strideCycles returns lo, lo+stride, ... up to hi. The step count is
// computed on the unsigned span so cycles near the int limits cannot wrap.
func strideCycles(lo, hi, stride int) []int {
	steps := uint(hi-lo) / uint(stride)
	out := make([]int, 0, min(steps+1, 1<<16))
	for k := uint(0); ; k++ {
		out = append(out, lo+int(k*uint(stride)))
		if k == steps {
			return out
		}
	}
}

func maxRowLabel(ops []*model.Op) int {
	n := 0
	for _, op := range ops {
		n = max(n, utf8.RuneCountInString(op.Label))
	}
	return n
}

func connectors(e *model.Edge, rows map[string]int, routing string) ([]Connector, error) {
	col, err := ParseColor(e.Style.Color)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "edge %s", e.Deps())
	}

	deps := e.Deps()
	nodeRows := make([]int, len(deps))
	for i, n := range deps {
		row, ok := rows[n.OpID()]
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingNode, "node %s belongs to no instruction in the pipeline", n)
		}
		nodeRows[i] = row
	}

	out := make([]Connector, 0, max(0, len(deps)-1))
	for i := 0; i+1 < len(deps); i++ {
		from, to := deps[i], deps[i+1]
		src := Point{X: float64(from.End()), Y: float64(nodeRows[i])}
		tgt := Point{X: float64(to.Start), Y: float64(nodeRows[i+1])}

		c := Connector{
			From:      from.String(),
			To:        to.String(),
			Color:     col,
			LineStyle: e.Style.LineStyle.OrSolid(),
			Legend:    e.Legend,
		}
		switch routing {
		case RoutingOrthogonal:
			c.Points = []Point{src, {X: tgt.X, Y: src.Y}, tgt}
		case RoutingCurved:
			c.Points = []Point{src, arcControl(src, tgt, Curvature), tgt}
			c.Curved = true
		}
		out = append(out, c)
	}
	return out, nil
}

// arcControl returns the control point of a quadratic curve bowing away from
// the straight line src-tgt by a fraction rad of its length.
func arcControl(src, tgt Point, rad float64) Point {
	mx, my := (src.X+tgt.X)/2, (src.Y+tgt.Y)/2
	dx, dy := tgt.X-src.X, tgt.Y-src.Y
	return Point{X: mx + rad*dy, Y: my - rad*dx}
}

// legendBuilder keeps the first-seen order of legend texts while letting the
// last edge with a given text decide its style.
type legendBuilder struct {
	order []string
	byKey map[string]LegendEntry
}

func newLegendBuilder() *legendBuilder {
	return &legendBuilder{byKey: make(map[string]LegendEntry)}
}

func (b *legendBuilder) set(text string, c color.RGBA, ls model.LineStyle) {
	if _, ok := b.byKey[text]; !ok {
		b.order = append(b.order, text)
	}
	b.byKey[text] = LegendEntry{Text: text, Color: c, LineStyle: ls}
}

func (b *legendBuilder) entries() []LegendEntry {
	if len(b.order) == 0 {
		return nil
	}
	out := make([]LegendEntry, len(b.order))
	for i, t := range b.order {
		out[i] = b.byKey[t]
	}
	return out
}
