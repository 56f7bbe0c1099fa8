package sink

import "github.com/matzehuels/pipeviz/pkg/render"

// scene records surface calls so a sink can paint them in its own layer
// order at End. Grid lines, for example, arrive after the boxes but must be
// painted beneath them.
type scene struct {
	frame  render.Frame
	boxes  []render.Box
	xTicks []render.Tick
	yTicks []render.Tick
	texts  []render.Text
	conns  []render.Connector
	legend []render.LegendEntry
}

func (s *scene) Begin(f render.Frame) error {
	*s = scene{frame: f}
	return nil
}

func (s *scene) DrawBox(b render.Box)             { s.boxes = append(s.boxes, b) }
func (s *scene) DrawText(t render.Text)           { s.texts = append(s.texts, t) }
func (s *scene) DrawConnector(c render.Connector) { s.conns = append(s.conns, c) }
func (s *scene) DrawLegend(e []render.LegendEntry) {
	s.legend = append([]render.LegendEntry(nil), e...)
}

func (s *scene) SetTicks(x, y []render.Tick) {
	s.xTicks = append([]render.Tick(nil), x...)
	s.yTicks = append([]render.Tick(nil), y...)
}
