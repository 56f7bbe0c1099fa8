package render

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/model"
)

type testSource struct {
	ops   []*model.Op
	edges []*model.Edge
}

func (s *testSource) Ops() []*model.Op     { return s.ops }
func (s *testSource) Edges() []*model.Edge { return s.edges }

// recorder is a Surface that logs the calls it receives.
type recorder struct {
	calls  []string
	frame  Frame
	boxes  []Box
	xTicks []Tick
	yTicks []Tick
	texts  []Text
	conns  []Connector
	legend []LegendEntry
}

func (r *recorder) Begin(f Frame) error {
	r.calls = append(r.calls, "begin")
	r.frame = f
	return nil
}

func (r *recorder) DrawBox(b Box) {
	r.calls = append(r.calls, "box")
	r.boxes = append(r.boxes, b)
}

func (r *recorder) SetTicks(x, y []Tick) {
	r.calls = append(r.calls, "ticks")
	r.xTicks, r.yTicks = x, y
}

func (r *recorder) DrawText(t Text) {
	r.calls = append(r.calls, "text")
	r.texts = append(r.texts, t)
}

func (r *recorder) DrawConnector(c Connector) {
	r.calls = append(r.calls, "conn")
	r.conns = append(r.conns, c)
}

func (r *recorder) DrawLegend(e []LegendEntry) {
	r.calls = append(r.calls, "legend")
	r.legend = e
}

func (r *recorder) End() error {
	r.calls = append(r.calls, "end")
	return nil
}

func fiveStage(label string, start int) *model.Op {
	op := model.NewOp(label)
	for i, s := range []string{"IF", "DE", "EX", "WB"} {
		if _, err := op.Create(s, start+i); err != nil {
			panic(err)
		}
	}
	return op
}

func mustEdge(deps model.Chainable, opts ...model.EdgeOption) *model.Edge {
	e, err := model.NewEdge(deps, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func singleOpSource() *testSource {
	op := fiveStage("add x1, x2, x3", 0)
	deps := model.MustChain(op.MustGet("IF"), op.MustGet("DE"), op.MustGet("EX"), op.MustGet("WB"))
	return &testSource{ops: []*model.Op{op}, edges: []*model.Edge{mustEdge(deps)}}
}

func TestLayoutSingleOp(t *testing.T) {
	d, err := NewRenderer(DefaultConfig()).Layout(singleOpSource())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	if len(d.Boxes) != 4 {
		t.Fatalf("Boxes = %d, want 4", len(d.Boxes))
	}
	for i, b := range d.Boxes {
		if b.Row != 1 {
			t.Errorf("box %s row = %d, want 1", b.Label, b.Row)
		}
		if b.Center != (Point{X: float64(i), Y: 1}) {
			t.Errorf("box %s center = %v, want (%d, 1)", b.Label, b.Center, i)
		}
		if diff := b.Width - 0.8; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("box %s width = %v, want 0.8", b.Label, b.Width)
		}
		if b.Height != BoxHeight {
			t.Errorf("box %s height = %v, want %v", b.Label, b.Height, BoxHeight)
		}
		if b.Fill != MustParseColor("white") {
			t.Errorf("unstyled box fill = %v, want white", b.Fill)
		}
	}

	lo, hi, ok := d.XRange()
	if !ok || lo != 0 || hi != 3 {
		t.Errorf("XRange() = %d, %d, %v, want 0, 3, true", lo, hi, ok)
	}
	if d.Frame.XLim != [2]float64{-0.5, 3.5} {
		t.Errorf("XLim = %v, want [-0.5 3.5]", d.Frame.XLim)
	}
	if d.Frame.YLim != [2]float64{0.5, 1.5} {
		t.Errorf("YLim = %v, want [0.5 1.5]", d.Frame.YLim)
	}
	if d.Rows() != 1 {
		t.Errorf("Rows() = %d, want 1", d.Rows())
	}
	if len(d.Connectors) != 3 {
		t.Errorf("Connectors = %d, want 3", len(d.Connectors))
	}
	if len(d.Legend) != 0 {
		t.Errorf("Legend = %v, want none", d.Legend)
	}
}

func TestLayoutDataHazard(t *testing.T) {
	i0 := fiveStage("add x1, x2, x3", 0)
	i1 := fiveStage("sub x4, x1, x5", 1)
	e := mustEdge(model.MustChain(i0.MustGet("EX"), i1.MustGet("EX")), model.WithLegend("data hazard"))
	src := &testSource{ops: []*model.Op{i0, i1}, edges: []*model.Edge{e}}

	d, err := NewRenderer(DefaultConfig()).Layout(src)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	if d.Rows() != 2 {
		t.Errorf("Rows() = %d, want 2", d.Rows())
	}
	if d.Boxes[0].Row != 2 || d.Boxes[4].Row != 1 {
		t.Errorf("rows = %d, %d; first op should be above", d.Boxes[0].Row, d.Boxes[4].Row)
	}
	if len(d.Connectors) != 1 {
		t.Fatalf("Connectors = %d, want 1", len(d.Connectors))
	}
	c := d.Connectors[0]
	if c.Source() != (Point{X: 2, Y: 2}) || c.Target() != (Point{X: 3, Y: 1}) {
		t.Errorf("connector %v -> %v, want (2,2) -> (3,1)", c.Source(), c.Target())
	}
	if len(d.Legend) != 1 || d.Legend[0].Text != "data hazard" {
		t.Errorf("Legend = %v, want one \"data hazard\" row", d.Legend)
	}
	wantY := []Tick{{Pos: 2.5}, {Pos: 1.5}}
	if !reflect.DeepEqual(d.YTicks, wantY) {
		t.Errorf("YTicks = %v, want %v", d.YTicks, wantY)
	}
	if d.Frame.YLim != [2]float64{0.5, 2.5} {
		t.Errorf("YLim = %v, want [0.5 2.5]", d.Frame.YLim)
	}
}

func TestLayoutMultiCycleBounds(t *testing.T) {
	op := model.NewOp("ldr x1, [x2]")
	op.Create("IF", 1)
	op.AddNode(model.NewNode("MEM", 4, model.WithEnd(5)))
	op.Create("WB", 6)
	store := model.NewOp("str x3, [x5]")
	store.Stage("MEM", 8, 2)

	d, err := NewRenderer(DefaultConfig()).Layout(&testSource{ops: []*model.Op{op, store}})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	mem := d.Boxes[1]
	if mem.Center.X != 4.5 || mem.Width != 1.8 {
		t.Errorf("MEM center = %v width = %v, want 4.5 and 1.8", mem.Center.X, mem.Width)
	}
	lo, hi, _ := d.XRange()
	if lo != 1 || hi != 9 {
		t.Errorf("XRange() = %d..%d, want 1..9", lo, hi)
	}
	if d.Frame.XLim != [2]float64{0.5, 9.5} {
		t.Errorf("XLim = %v, want [0.5 9.5]", d.Frame.XLim)
	}
	if len(d.XTicks) != 9 || d.XTicks[0].Pos != 1.5 || d.XTicks[8].Pos != 9.5 {
		t.Errorf("XTicks = %v, want 1.5..9.5", d.XTicks)
	}
}

func TestLayoutStrides(t *testing.T) {
	op := model.NewOp("WLSU")
	op.Stage("load_weight1", 0, 32)
	op.Stage("load_weight2", 33, 32)

	cfg := DefaultConfig()
	cfg.XAxisLabelStride = 8
	cfg.XAxisTickStride = 16

	d, err := NewRenderer(cfg).Layout(&testSource{ops: []*model.Op{op}})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	var cycles []string
	for _, l := range d.Labels {
		if l.Kind == CycleLabel {
			cycles = append(cycles, l.Content)
		}
	}
	want := []string{"0", "8", "16", "24", "32", "40", "48", "56", "64"}
	if !reflect.DeepEqual(cycles, want) {
		t.Errorf("cycle labels = %v, want %v", cycles, want)
	}
	if len(d.XTicks) != 5 {
		t.Errorf("XTicks = %d, want 5 (0..64 by 16)", len(d.XTicks))
	}
}

func TestLayoutEmpty(t *testing.T) {
	d, err := NewRenderer(DefaultConfig()).Layout(&testSource{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if len(d.XTicks) != 0 || len(d.YTicks) != 0 || len(d.Labels) != 0 {
		t.Errorf("empty pipeline should have no ticks or labels, got %d/%d/%d",
			len(d.XTicks), len(d.YTicks), len(d.Labels))
	}
	if d.Frame.XLim != [2]float64{-0.5, 0.5} {
		t.Errorf("XLim = %v, want [-0.5 0.5]", d.Frame.XLim)
	}
	if d.Frame.YLim[1] <= d.Frame.YLim[0] {
		t.Errorf("YLim = %v, want a non-empty range", d.Frame.YLim)
	}
}

func TestLayoutRouting(t *testing.T) {
	i0 := fiveStage("i0", 0)
	i1 := fiveStage("i1", 2)
	e := mustEdge(model.MustChain(i0.MustGet("WB"), i1.MustGet("EX")))
	src := &testSource{ops: []*model.Op{i0, i1}, edges: []*model.Edge{e}}

	cfg := DefaultConfig()
	cfg.EdgeRouting = RoutingOrthogonal
	d, err := NewRenderer(cfg).Layout(src)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	want := []Point{{3, 2}, {4, 2}, {4, 1}}
	if c := d.Connectors[0]; c.Curved || !reflect.DeepEqual(c.Points, want) {
		t.Errorf("orthogonal points = %v curved = %v, want %v", c.Points, c.Curved, want)
	}

	cfg.EdgeRouting = RoutingCurved
	d, err = NewRenderer(cfg).Layout(src)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	c := d.Connectors[0]
	if !c.Curved || len(c.Points) != 3 {
		t.Fatalf("curved connector = %+v", c)
	}
	// src (3,2), tgt (4,1): midpoint (3.5,1.5), dx=1, dy=-1
	ctrl := Point{X: 3.5 + 0.15*-1, Y: 1.5 - 0.15*1}
	if got := c.Points[1]; !near(got.X, ctrl.X) || !near(got.Y, ctrl.Y) {
		t.Errorf("control point = %v, want %v", got, ctrl)
	}
}

func TestLegendDeduplication(t *testing.T) {
	i0 := fiveStage("i0", 0)
	i1 := fiveStage("i1", 1)
	i2 := fiveStage("i2", 2)
	edges := []*model.Edge{
		mustEdge(model.MustChain(i0.MustGet("WB"), i1.MustGet("EX")), model.WithEdgeColor("red"), model.WithLegend("RAW hazard")),
		mustEdge(model.MustChain(i0.MustGet("IF"), i1.MustGet("IF"))),
		mustEdge(model.MustChain(i1.MustGet("WB"), i2.MustGet("EX")), model.WithEdgeColor("blue"), model.WithLegend("structural")),
		mustEdge(model.MustChain(i1.MustGet("EX"), i2.MustGet("EX")), model.WithEdgeColor("green"),
			model.WithEdgeLineStyle(model.Dashed), model.WithLegend("RAW hazard")),
	}
	src := &testSource{ops: []*model.Op{i0, i1, i2}, edges: edges}

	d, err := NewRenderer(DefaultConfig()).Layout(src)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if len(d.Legend) != 2 {
		t.Fatalf("Legend = %v, want 2 rows", d.Legend)
	}
	if d.Legend[0].Text != "RAW hazard" || d.Legend[1].Text != "structural" {
		t.Errorf("legend order = %q, %q", d.Legend[0].Text, d.Legend[1].Text)
	}
	if d.Legend[0].Color != MustParseColor("green") || d.Legend[0].LineStyle != model.Dashed {
		t.Errorf("duplicate legend should take the later style, got %+v", d.Legend[0])
	}
}

func TestLayoutErrors(t *testing.T) {
	good := fiveStage("good", 0)
	orphan := fiveStage("orphan", 0)

	badColor := fiveStage("bad", 0)
	badColor.MustGet("IF").Style.Color = "notacolor"

	tests := []struct {
		name string
		cfg  func(*Config)
		src  *testSource
		code errors.Code
	}{
		{
			name: "routing",
			cfg:  func(c *Config) { c.EdgeRouting = "diagonal" },
			src:  singleOpSource(),
			code: errors.ErrCodeInvalidRoutingMode,
		},
		{
			name: "style",
			cfg:  func(c *Config) { c.Style = "neon" },
			src:  singleOpSource(),
			code: errors.ErrCodeInvalidStyle,
		},
		{
			name: "stride",
			cfg:  func(c *Config) { c.XAxisTickStride = 0 },
			src:  singleOpSource(),
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "dangling node",
			src: &testSource{
				ops:   []*model.Op{good},
				edges: []*model.Edge{mustEdge(model.MustChain(good.MustGet("WB"), orphan.MustGet("EX")))},
			},
			code: errors.ErrCodeDanglingNode,
		},
		{
			name: "node color",
			src:  &testSource{ops: []*model.Op{badColor}},
			code: errors.ErrCodeInvalidColor,
		},
		{
			name: "edge color",
			src: &testSource{
				ops:   []*model.Op{good},
				edges: []*model.Edge{mustEdge(good.MustGet("IF"), model.WithEdgeColor("#12"))},
			},
			code: errors.ErrCodeInvalidColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			rec := &recorder{}
			err := NewRenderer(cfg).Draw(tt.src, rec)
			if !errors.Is(err, tt.code) {
				t.Errorf("Draw() error = %v, want %s", err, tt.code)
			}
			if len(rec.calls) != 0 {
				t.Errorf("surface received %v before the error", rec.calls)
			}
		})
	}
}

func TestDrawCallOrder(t *testing.T) {
	i0 := fiveStage("i0", 0)
	i1 := fiveStage("i1", 1)
	e := mustEdge(model.MustChain(i0.MustGet("EX"), i1.MustGet("EX")), model.WithLegend("data hazard"))
	src := &testSource{ops: []*model.Op{i0, i1}, edges: []*model.Edge{e}}

	rec := &recorder{}
	if err := NewRenderer(DefaultConfig()).Draw(src, rec); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}

	var want []string
	want = append(want, "begin")
	for range 8 {
		want = append(want, "box")
	}
	want = append(want, "ticks")
	for range 2 + 5 { // row labels, cycle labels 0..4
		want = append(want, "text")
	}
	want = append(want, "conn", "legend", "end")

	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v\nwant    %v", rec.calls, want)
	}
	if rec.frame.Width != 1200 || rec.frame.Height != 800 {
		t.Errorf("frame = %vx%v, want 1200x800", rec.frame.Width, rec.frame.Height)
	}
}

func TestDrawNoLegend(t *testing.T) {
	rec := &recorder{}
	if err := NewRenderer(DefaultConfig()).Draw(singleOpSource(), rec); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	for _, c := range rec.calls {
		if c == "legend" {
			t.Error("DrawLegend should not be called without legend rows")
		}
	}
}

func TestLayoutIdempotent(t *testing.T) {
	src := singleOpSource()
	r := NewRenderer(DefaultConfig())
	a, _ := r.Layout(src)
	b, _ := r.Layout(src)
	if !reflect.DeepEqual(a, b) {
		t.Error("Layout() should be deterministic")
	}
}

func TestRowLabelsOutsidePlot(t *testing.T) {
	d, _ := NewRenderer(DefaultConfig()).Layout(singleOpSource())
	for _, l := range d.Labels {
		if l.Kind != RowLabel {
			continue
		}
		if l.Anchor != AnchorEnd || l.Pos.X != d.Frame.XLim[0] || l.Offset.X >= 0 {
			t.Errorf("row label %+v should be right-aligned left of the plot", l)
		}
		if l.Size != DefaultConfig().YLabelFontSize {
			t.Errorf("row label size = %v", l.Size)
		}
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func ExampleRenderer_Layout() {
	op := model.NewOp("add x1, x2, x3")
	for i, s := range []string{"IF", "DE", "EX", "WB"} {
		_, _ = op.Create(s, i)
	}

	d, _ := NewRenderer(DefaultConfig()).Layout(&testSource{ops: []*model.Op{op}})
	for _, b := range d.Boxes {
		fmt.Printf("%s row=%d x=%.1f\n", b.Label, b.Row, b.Center.X)
	}
	fmt.Println(d.Frame.XLim)
	// Output:
	// IF row=1 x=0.0
	// DE row=1 x=1.0
	// EX row=1 x=2.0
	// WB row=1 x=3.0
	// [-0.5 3.5]
}

func TestLayoutExtremeCycles(t *testing.T) {
	tests := []struct {
		name   string
		starts []int
		stride int
		ticks  int
	}{
		{"max int", []int{math.MaxInt}, 1, 1},
		{"max int strided", []int{math.MaxInt - 20, math.MaxInt}, 8, 3},
		{"min int", []int{math.MinInt}, 1, 1},
		{"min int strided", []int{math.MinInt, math.MinInt + 9}, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := model.NewOp("far")
			for i, start := range tt.starts {
				if _, err := op.Create(fmt.Sprintf("S%d", i), start); err != nil {
					t.Fatal(err)
				}
			}
			cfg := DefaultConfig()
			cfg.XAxisTickStride = tt.stride
			cfg.XAxisLabelStride = tt.stride

			done := make(chan Diagram, 1)
			errc := make(chan error, 1)
			go func() {
				d, err := NewRenderer(cfg).Layout(&testSource{ops: []*model.Op{op}})
				if err != nil {
					errc <- err
					return
				}
				done <- d
			}()

			select {
			case err := <-errc:
				t.Fatalf("Layout() error: %v", err)
			case d := <-done:
				if len(d.XTicks) != tt.ticks {
					t.Errorf("XTicks = %d, want %d", len(d.XTicks), tt.ticks)
				}
				first := d.Boxes[0]
				if first.Center.X != float64(tt.starts[0]) {
					t.Errorf("center = %v, want %v", first.Center.X, float64(tt.starts[0]))
				}
			case <-time.After(3 * time.Second):
				t.Fatal("Layout() did not return")
			}
		})
	}
}

func TestStrideCycles(t *testing.T) {
	tests := []struct {
		lo, hi, stride int
		want           []int
	}{
		{0, 3, 1, []int{0, 1, 2, 3}},
		{0, 9, 4, []int{0, 4, 8}},
		{5, 5, 8, []int{5}},
		{-2, 2, 2, []int{-2, 0, 2}},
		{math.MaxInt - 1, math.MaxInt, 1, []int{math.MaxInt - 1, math.MaxInt}},
		{math.MaxInt - 2, math.MaxInt, 2, []int{math.MaxInt - 2, math.MaxInt}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d..%d/%d", tt.lo, tt.hi, tt.stride), func(t *testing.T) {
			if got := strideCycles(tt.lo, tt.hi, tt.stride); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("strideCycles() = %v, want %v", got, tt.want)
			}
		})
	}
}
