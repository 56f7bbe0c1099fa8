package sink

import (
	"encoding/json"

	"github.com/matzehuels/pipeviz/pkg/model"
	"github.com/matzehuels/pipeviz/pkg/render"
)

// JSONSurface exports the laid-out diagram as a JSON document for external
// tools. It is an export format only; there is no importer.
type JSONSurface struct {
	scene
	out []byte
}

// NewJSON returns an empty JSON surface.
func NewJSON() *JSONSurface { return &JSONSurface{} }

// RenderJSON draws src with r and returns the pretty-printed document.
func RenderJSON(src render.Source, r *render.Renderer) ([]byte, error) {
	s := NewJSON()
	if err := r.Draw(src, s); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// Bytes returns the document produced by the last completed draw.
func (s *JSONSurface) Bytes() []byte { return s.out }

type jsonOutput struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	XLim       [2]float64      `json:"xlim"`
	YLim       [2]float64      `json:"ylim"`
	Theme      string          `json:"theme"`
	Boxes      []jsonBox       `json:"boxes"`
	XTicks     []float64       `json:"x_ticks"`
	YTicks     []float64       `json:"y_ticks"`
	Labels     []jsonLabel     `json:"labels,omitempty"`
	Connectors []jsonConnector `json:"connectors,omitempty"`
	Legend     []jsonLegend    `json:"legend,omitempty"`
}

type jsonBox struct {
	Op        string          `json:"op"`
	Label     string          `json:"label"`
	Row       int             `json:"row"`
	Start     int             `json:"start"`
	End       int             `json:"end"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Fill      string          `json:"fill"`
	LineStyle model.LineStyle `json:"line_style"`
}

type jsonLabel struct {
	Kind   string  `json:"kind"` // "row" or "cycle"
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor string  `json:"anchor"`
	Size   float64 `json:"size"`
}

type jsonConnector struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Points    [][2]float64    `json:"points"`
	Curved    bool            `json:"curved,omitempty"`
	Color     string          `json:"color"`
	LineStyle model.LineStyle `json:"line_style"`
	Legend    string          `json:"legend,omitempty"`
}

type jsonLegend struct {
	Text      string          `json:"text"`
	Color     string          `json:"color"`
	LineStyle model.LineStyle `json:"line_style"`
}

// End encodes the recorded scene.
func (s *JSONSurface) End() error {
	out := jsonOutput{
		Width:  s.frame.Width,
		Height: s.frame.Height,
		XLim:   s.frame.XLim,
		YLim:   s.frame.YLim,
		Theme:  s.frame.Theme.Name,
		Boxes:  make([]jsonBox, 0, len(s.boxes)),
		XTicks: tickPositions(s.xTicks),
		YTicks: tickPositions(s.yTicks),
	}

	for _, b := range s.boxes {
		out.Boxes = append(out.Boxes, jsonBox{
			Op: b.Op, Label: b.Label, Row: b.Row,
			Start: b.Start, End: b.End,
			X: b.Center.X, Y: b.Center.Y,
			Width: b.Width, Height: b.Height,
			Fill:      render.Hex(b.Fill),
			LineStyle: b.LineStyle,
		})
	}
	for _, t := range s.texts {
		kind := "cycle"
		if t.Kind == render.RowLabel {
			kind = "row"
		}
		out.Labels = append(out.Labels, jsonLabel{
			Kind: kind, Text: t.Content,
			X: t.Pos.X, Y: t.Pos.Y,
			Anchor: svgAnchor(t.Anchor), Size: t.Size,
		})
	}
	for _, c := range s.conns {
		pts := make([][2]float64, len(c.Points))
		for i, p := range c.Points {
			pts[i] = [2]float64{p.X, p.Y}
		}
		out.Connectors = append(out.Connectors, jsonConnector{
			From: c.From, To: c.To, Points: pts, Curved: c.Curved,
			Color: render.Hex(c.Color), LineStyle: c.LineStyle, Legend: c.Legend,
		})
	}
	for _, e := range s.legend {
		out.Legend = append(out.Legend, jsonLegend{
			Text: e.Text, Color: render.Hex(e.Color), LineStyle: e.LineStyle,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	s.out = data
	return nil
}

func tickPositions(ticks []render.Tick) []float64 {
	out := make([]float64, len(ticks))
	for i, t := range ticks {
		out[i] = t.Pos
	}
	return out
}
