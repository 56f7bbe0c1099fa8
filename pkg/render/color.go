package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/matzehuels/pipeviz/pkg/errors"
)

// Single-letter color codes, as understood by matplotlib.
var letterColors = map[string]color.RGBA{
	"b": {0, 0, 255, 255},
	"g": {0, 128, 0, 255},
	"r": {255, 0, 0, 255},
	"c": {0, 191, 191, 255},
	"m": {191, 0, 191, 255},
	"y": {191, 191, 0, 255},
	"k": {0, 0, 0, 255},
	"w": {255, 255, 255, 255},
}

// ParseColor resolves a color specification. It accepts CSS/SVG color names,
// single-letter codes (b, g, r, c, m, y, k, w), "#rgb", "#rrggbb" and
// "#rrggbbaa" hex strings, and grey levels written as a number between 0 and
// 1 ("0.8"). Anything else is an INVALID_COLOR error.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if c, ok := letterColors[spec]; ok {
		return c, nil
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") {
		if c, ok := parseHex(spec[1:]); ok {
			return c, nil
		}
	}
	if v, err := strconv.ParseFloat(spec, 64); err == nil && v >= 0 && v <= 1 {
		g := uint8(v*255 + 0.5)
		return color.RGBA{g, g, g, 255}, nil
	}
	return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid color %q", s)
}

// MustParseColor is like [ParseColor] but panics on error. Use it only for
// colors known at compile time.
func MustParseColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(h string) (color.RGBA, bool) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
