package sink

import (
	"bytes"
	"encoding/xml"

	"github.com/matzehuels/pipeviz/pkg/render"
)

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// truncateLabel shortens s so it fits in width pixels at the given font size.
func truncateLabel(s string, width, size float64) string {
	r := []rune(s)
	maxChars := int(width / (size * charWidthRatio))
	if maxChars < 3 {
		maxChars = 3
	}
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

func svgAnchor(a render.Anchor) string {
	switch a {
	case render.AnchorStart:
		return "start"
	case render.AnchorEnd:
		return "end"
	}
	return "middle"
}

func anchorFraction(a render.Anchor) float64 {
	switch a {
	case render.AnchorStart:
		return 0
	case render.AnchorEnd:
		return 1
	}
	return 0.5
}
