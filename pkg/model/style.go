package model

import (
	"strings"

	"github.com/matzehuels/pipeviz/pkg/errors"
)

// LineStyle is the stroke pattern of a box outline or a connector.
type LineStyle string

const (
	Solid   LineStyle = "solid"
	Dashed  LineStyle = "dashed"
	Dotted  LineStyle = "dotted"
	DashDot LineStyle = "dashdot"
)

// DefaultEdgeColor is the color of an edge that was not given one.
const DefaultEdgeColor = "black"

// ParseLineStyle parses a line style name or its short token.
// Accepted tokens are "-", "--", ":" and "-.", plus the full names.
// The empty string parses as [Solid].
func ParseLineStyle(s string) (LineStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "-", "solid":
		return Solid, nil
	case "--", "dashed":
		return Dashed, nil
	case ":", "dotted":
		return Dotted, nil
	case "-.", "dashdot":
		return DashDot, nil
	}
	return "", errors.New(errors.ErrCodeInvalidLineStyle, "unknown line style %q", s)
}

// OrSolid returns ls, or [Solid] if ls is the zero value.
func (ls LineStyle) OrSolid() LineStyle {
	if ls == "" {
		return Solid
	}
	return ls
}

// NodeStyle is the visual style of a stage box.
// An empty Color means the node is unstyled.
type NodeStyle struct {
	Color     string
	LineStyle LineStyle
}

// IsStyled reports whether a fill color has been chosen for the node.
func (s NodeStyle) IsStyled() bool { return s.Color != "" }

// EdgeStyle is the visual style of a dependency connector.
type EdgeStyle struct {
	Color     string
	LineStyle LineStyle
}

// DefaultEdgeStyle returns a black, solid edge style.
func DefaultEdgeStyle() EdgeStyle {
	return EdgeStyle{Color: DefaultEdgeColor, LineStyle: Solid}
}
