package render

import "github.com/matzehuels/pipeviz/pkg/model"

// DashPattern returns the on/off dash lengths for a line style drawn with the
// given stroke width, or nil for a solid line. The proportions follow the
// matplotlib defaults.
func DashPattern(ls model.LineStyle, width float64) []float64 {
	var unit []float64
	switch ls {
	case model.Dashed:
		unit = []float64{3.7, 1.6}
	case model.Dotted:
		unit = []float64{1, 1.65}
	case model.DashDot:
		unit = []float64{6.4, 1.6, 1, 1.6}
	default:
		return nil
	}
	out := make([]float64, len(unit))
	for i, u := range unit {
		out[i] = u * width
	}
	return out
}
