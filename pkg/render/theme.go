package render

import (
	"slices"
	"strings"

	"github.com/matzehuels/pipeviz/pkg/errors"
)

// Theme names, matching the seaborn axes styles.
const (
	ThemeWhiteGrid = "whitegrid"
	ThemeDarkGrid  = "darkgrid"
	ThemeWhite     = "white"
	ThemeDark      = "dark"
	ThemeTicks     = "ticks"
)

// Theme is the set of colors and axis decorations a surface uses around the
// diagram content. Colors are in any form [ParseColor] accepts.
type Theme struct {
	Name           string
	Background     string // figure background
	PlotBackground string // area inside the axes
	Grid           bool
	GridColor      string
	Spines         bool // frame around the plot area
	SpineColor     string
	TickMarks      bool // short outward marks at each tick
	TextColor      string
	NodeFill       string // fill of unstyled nodes
	NodeOutline    string
}

var themes = map[string]Theme{
	ThemeWhiteGrid: {
		Name: ThemeWhiteGrid, Background: "white", PlotBackground: "white",
		Grid: true, GridColor: "0.8", Spines: true, SpineColor: "0.8",
		TextColor: "0.15", NodeFill: "white", NodeOutline: "black",
	},
	ThemeDarkGrid: {
		Name: ThemeDarkGrid, Background: "white", PlotBackground: "#EAEAF2",
		Grid: true, GridColor: "white",
		TextColor: "0.15", NodeFill: "white", NodeOutline: "black",
	},
	ThemeWhite: {
		Name: ThemeWhite, Background: "white", PlotBackground: "white",
		Spines: true, SpineColor: "0.15",
		TextColor: "0.15", NodeFill: "white", NodeOutline: "black",
	},
	ThemeDark: {
		Name: ThemeDark, Background: "white", PlotBackground: "#EAEAF2",
		TextColor: "0.15", NodeFill: "white", NodeOutline: "black",
	},
	ThemeTicks: {
		Name: ThemeTicks, Background: "white", PlotBackground: "white",
		Spines: true, SpineColor: "0.15", TickMarks: true,
		TextColor: "0.15", NodeFill: "white", NodeOutline: "black",
	},
}

// LookupTheme returns the theme with the given name, or an INVALID_STYLE
// error.
func LookupTheme(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, errors.New(errors.ErrCodeInvalidStyle,
			"unknown style %q (must be one of: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return t, nil
}

// ThemeNames returns the supported theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
