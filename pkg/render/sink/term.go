package sink

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pipeviz/pkg/model"
	"github.com/matzehuels/pipeviz/pkg/render"
)

const (
	defaultTermWidth = 100
	maxTermCell      = 6
	maxTermGutter    = 28
)

var (
	termDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	termLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	termHeader = lipgloss.NewStyle().Bold(true)
)

// TermOption configures a [TermSurface].
type TermOption func(*TermSurface)

// WithTermWidth sets the number of columns available (default 100). Wide
// diagrams get fewer columns per cycle, never less than one.
func WithTermWidth(cols int) TermOption { return func(t *TermSurface) { t.width = cols } }

// TermSurface draws a diagram as colored text: one line per instruction, a
// cycle ruler, and the connectors and legend listed underneath.
type TermSurface struct {
	scene
	width int
	out   []byte
}

// NewTerm returns an empty terminal surface.
func NewTerm(opts ...TermOption) *TermSurface {
	t := &TermSurface{width: defaultTermWidth}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RenderTerm draws src with r and returns the text.
func RenderTerm(src render.Source, r *render.Renderer, opts ...TermOption) ([]byte, error) {
	t := NewTerm(opts...)
	if err := r.Draw(src, t); err != nil {
		return nil, err
	}
	return t.Bytes(), nil
}

// Bytes returns the text produced by the last completed draw.
func (t *TermSurface) Bytes() []byte { return t.out }

// End lays out the character grid.
func (t *TermSurface) End() error {
	f := t.frame
	lo := int(math.Round(f.XLim[0] + 0.5))
	hi := int(math.Round(f.XLim[1] - 0.5))
	span := hi - lo + 1

	rowNames := map[int]string{}
	var cycles []render.Text
	for _, txt := range t.texts {
		switch txt.Kind {
		case render.RowLabel:
			rowNames[int(math.Round(txt.Pos.Y))] = txt.Content
		case render.CycleLabel:
			cycles = append(cycles, txt)
		}
	}

	gutter := min(f.MaxRowLabel, maxTermGutter) + 2
	cell := max(1, min(maxTermCell, (t.width-gutter)/max(span, 1)))

	var sb strings.Builder
	rows := len(rowNames)
	for row := rows; row >= 1; row-- {
		name := truncateRunes(rowNames[row], gutter-2)
		sb.WriteString(termLabel.Render(fmt.Sprintf("%*s", gutter-2, name)))
		sb.WriteString("  ")
		sb.WriteString(t.rowLine(row, lo, span, cell))
		sb.WriteString("\n")
	}

	if rows > 0 && len(t.boxes) > 0 {
		sb.WriteString(strings.Repeat(" ", gutter))
		sb.WriteString(termDim.Render(ruler(cycles, lo, span, cell)))
		sb.WriteString("\n")
	}

	if len(t.conns) > 0 {
		sb.WriteString("\n")
		sb.WriteString(termHeader.Render("Dependencies"))
		sb.WriteString("\n")
		for _, c := range t.conns {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(render.Hex(c.Color)))
			line := fmt.Sprintf("  %s %s %s", c.From, arrowFor(c.LineStyle), c.To)
			if c.Legend != "" {
				line += "  (" + c.Legend + ")"
			}
			sb.WriteString(style.Render(line))
			sb.WriteString("\n")
		}
	}

	if len(t.legend) > 0 {
		sb.WriteString("\n")
		sb.WriteString(termHeader.Render("Legend"))
		sb.WriteString("\n")
		for _, e := range t.legend {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(render.Hex(e.Color)))
			sb.WriteString("  " + style.Render(sampleFor(e.LineStyle)) + " " + e.Text + "\n")
		}
	}

	t.out = []byte(sb.String())
	return nil
}

// rowLine renders the boxes of one row. Overlapping boxes are clipped so the
// earlier one wins.
func (t *TermSurface) rowLine(row, lo, span, cell int) string {
	var boxes []render.Box
	for _, b := range t.boxes {
		if b.Row == row {
			boxes = append(boxes, b)
		}
	}
	slices.SortStableFunc(boxes, func(a, b render.Box) int { return cmp.Compare(a.Start, b.Start) })

	var sb strings.Builder
	cursor := 0
	for _, b := range boxes {
		from := max((b.Start-lo)*cell, cursor)
		to := (b.End - lo + 1) * cell
		if cell > 1 {
			to-- // gap between adjacent boxes
		}
		if to <= from {
			continue
		}
		sb.WriteString(termDim.Render(dots(cursor, from, cell)))

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(render.Hex(b.Fill))).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)
		if b.LineStyle != model.Solid {
			style = style.Italic(true)
		}
		sb.WriteString(style.Render(centerText(b.Label, to-from)))
		cursor = to
	}
	sb.WriteString(termDim.Render(dots(cursor, span*cell, cell)))
	return sb.String()
}

// dots fills columns [from, to) with a faint mark at each cycle boundary.
func dots(from, to, cell int) string {
	var sb strings.Builder
	for c := from; c < to; c++ {
		if c%cell == 0 {
			sb.WriteByte('.')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func ruler(labels []render.Text, lo, span, cell int) string {
	line := []rune(strings.Repeat(" ", span*cell+maxTermCell))
	for _, l := range labels {
		c, err := strconv.Atoi(l.Content)
		if err != nil {
			continue
		}
		col := (c - lo) * cell
		for i, r := range l.Content {
			if col+i < len(line) {
				line[col+i] = r
			}
		}
	}
	return strings.TrimRight(string(line), " ")
}

func centerText(s string, width int) string {
	s = truncateRunes(s, width)
	n := len([]rune(s))
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

func truncateRunes(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:max(width, 0)])
	}
	return string(r[:width-1]) + "…"
}

func arrowFor(ls model.LineStyle) string {
	switch ls {
	case model.Dashed, model.DashDot:
		return "╌▶"
	case model.Dotted:
		return "┄▶"
	}
	return "─▶"
}

func sampleFor(ls model.LineStyle) string {
	switch ls {
	case model.Dashed, model.DashDot:
		return "╌╌╌"
	case model.Dotted:
		return "┄┄┄"
	}
	return "───"
}
