package sink

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"strings"
	"testing"

	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/model"
	"github.com/matzehuels/pipeviz/pkg/render"
)

type testSource struct {
	ops   []*model.Op
	edges []*model.Edge
}

func (s *testSource) Ops() []*model.Op     { return s.ops }
func (s *testSource) Edges() []*model.Edge { return s.edges }

// hazardSource is two five-stage instructions with a data hazard from the
// first WB to the second EX.
func hazardSource(t *testing.T) *testSource {
	t.Helper()
	var ops []*model.Op
	for i, label := range []string{"add x1, x1, x3", "sub x4, x1, x5"} {
		op := model.NewOp(label)
		for j, s := range []string{"IF", "DE", "EX", "WB"} {
			if _, err := op.Create(s, i+j); err != nil {
				t.Fatal(err)
			}
		}
		ops = append(ops, op)
	}
	e, err := model.NewEdge(
		model.ListOf(ops[0].MustGet("WB"), ops[1].MustGet("EX")),
		model.WithEdgeColor("red"),
		model.WithLegend("data hazard"),
	)
	if err != nil {
		t.Fatal(err)
	}
	return &testSource{ops: ops, edges: []*model.Edge{e}}
}

func smallRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	cfg := render.DefaultConfig()
	cfg.Figsize = [2]float64{4, 3}
	cfg.DPI = 50
	return render.NewRenderer(cfg)
}

func TestRenderSVG(t *testing.T) {
	out, err := RenderSVG(hazardSource(t), smallRenderer(t), WithTitle("hazard"))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	svg := string(out)

	if !strings.HasPrefix(svg, "<svg ") {
		t.Fatalf("output does not start with <svg: %.40q", svg)
	}
	if got := strings.Count(svg, `class="stage"`); got != 8 {
		t.Errorf("stage rects = %d, want 8", got)
	}
	for _, want := range []string{
		`fill-opacity="0.6"`,
		`<polygon`,
		`class="legend"`,
		`data hazard`,
		`<title>hazard</title>`,
		`class="row-label"`,
		`>add x1, x1, x3</text>`,
		`viewBox="0 0 200.0 150.0"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestRenderSVGTransparent(t *testing.T) {
	out, err := RenderSVG(hazardSource(t), smallRenderer(t), WithTransparentBackground())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), `<rect x="0" y="0"`) {
		t.Error("transparent svg should not paint a background rect")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	out, err := RenderSVG(&testSource{}, smallRenderer(t))
	if err != nil {
		t.Fatalf("RenderSVG(empty): %v", err)
	}
	svg := string(out)
	if strings.Contains(svg, `class="stage"`) || strings.Contains(svg, `class="legend"`) {
		t.Error("empty pipeline should draw neither stages nor a legend")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestRenderSVGEscapes(t *testing.T) {
	op := model.NewOp("ldr x1, [x2] <tag> & co")
	if _, err := op.Create("MEM", 0); err != nil {
		t.Fatal(err)
	}
	out, err := RenderSVG(&testSource{ops: []*model.Op{op}}, smallRenderer(t))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "<tag>") {
		t.Error("label was not escaped")
	}
	if !strings.Contains(string(out), "&lt;tag&gt; &amp; co") {
		t.Error("escaped label missing")
	}
}

func TestRenderPNG(t *testing.T) {
	out, err := RenderPNG(hazardSource(t), smallRenderer(t))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("output is not a PNG: %q", out[:min(8, len(out))])
	}
}

func TestRenderJSON(t *testing.T) {
	out, err := RenderJSON(hazardSource(t), smallRenderer(t))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var doc jsonOutput
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Boxes) != 8 {
		t.Errorf("boxes = %d, want 8", len(doc.Boxes))
	}
	if doc.Theme != "whitegrid" {
		t.Errorf("theme = %q", doc.Theme)
	}
	if len(doc.Connectors) != 1 {
		t.Fatalf("connectors = %d, want 1", len(doc.Connectors))
	}
	c := doc.Connectors[0]
	if c.Color != "#ff0000" || c.Legend != "data hazard" || !c.Curved {
		t.Errorf("connector = %+v", c)
	}
	if len(doc.Legend) != 1 || doc.Legend[0].Text != "data hazard" {
		t.Errorf("legend = %+v", doc.Legend)
	}
	if doc.XLim != [2]float64{-0.5, 4.5} {
		t.Errorf("xlim = %v", doc.XLim)
	}
}

func TestRenderTerm(t *testing.T) {
	out, err := RenderTerm(hazardSource(t), smallRenderer(t), WithTermWidth(80))
	if err != nil {
		t.Fatalf("RenderTerm: %v", err)
	}
	text := string(out)
	for _, want := range []string{"add x1, x1, x3", "sub x4, x1, x5", "IF", "WB", "Dependencies", "Legend", "data hazard"} {
		if !strings.Contains(text, want) {
			t.Errorf("term output missing %q", want)
		}
	}
	// the first instruction is drawn on the top line
	lines := strings.Split(text, "\n")
	if !strings.Contains(lines[0], "add x1, x1, x3") {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestRenderTermEmpty(t *testing.T) {
	out, err := RenderTerm(&testSource{}, smallRenderer(t))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "Legend") {
		t.Errorf("empty pipeline rendered a legend: %q", out)
	}
}

func TestSurfaceReuse(t *testing.T) {
	r := smallRenderer(t)
	s := NewSVG()
	if err := r.Draw(hazardSource(t), s); err != nil {
		t.Fatal(err)
	}
	first := append([]byte(nil), s.Bytes()...)
	if err := r.Draw(hazardSource(t), s); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, s.Bytes()) {
		t.Error("second draw on the same surface produced different output")
	}
}

func TestDrawErrorLeavesNoOutput(t *testing.T) {
	op := model.NewOp("add")
	n, _ := op.Create("IF", 0)
	orphan := model.NewNode("EX", 1)
	e, err := model.NewEdge(model.ListOf(n, orphan))
	if err != nil {
		t.Fatal(err)
	}
	s := NewSVG()
	if err := smallRenderer(t).Draw(&testSource{ops: []*model.Op{op}, edges: []*model.Edge{e}}, s); err == nil {
		t.Fatal("expected dangling node error")
	}
	if s.Bytes() != nil {
		t.Error("surface produced output for a failed layout")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdef", 4, "abc…"},
		{"abc", 1, "a"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.width); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	out, err := RenderPDF(hazardSource(t), smallRenderer(t))
	if _, lookErr := exec.LookPath("rsvg-convert"); lookErr != nil {
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("without rsvg-convert: err = %v, want UNSUPPORTED", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF: %q", out[:min(len(out), 8)])
	}
}
