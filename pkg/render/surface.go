package render

// Surface is a drawing target. The renderer never creates or saves surfaces;
// callers construct one, pass it to [Renderer.Draw], and collect its output.
//
// Calls arrive in a fixed order: Begin, every DrawBox, SetTicks, every
// DrawText, every DrawConnector, DrawLegend when the legend has rows, End.
// Nothing is called when layout fails.
type Surface interface {
	Begin(f Frame) error
	DrawBox(b Box)
	SetTicks(x, y []Tick)
	DrawText(t Text)
	DrawConnector(c Connector)
	DrawLegend(entries []LegendEntry)
	End() error
}

// DrawTo replays the diagram onto s.
func (d Diagram) DrawTo(s Surface) error {
	if err := s.Begin(d.Frame); err != nil {
		return err
	}
	for _, b := range d.Boxes {
		s.DrawBox(b)
	}
	s.SetTicks(d.XTicks, d.YTicks)
	for _, t := range d.Labels {
		s.DrawText(t)
	}
	for _, c := range d.Connectors {
		s.DrawConnector(c)
	}
	if len(d.Legend) > 0 {
		s.DrawLegend(d.Legend)
	}
	return s.End()
}
