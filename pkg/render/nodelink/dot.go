package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/model"
	"github.com/matzehuels/pipeviz/pkg/render"
)

// Options configures node-link diagram generation.
type Options struct {
	// Detailed adds the cycle range under each stage label.
	Detailed bool
}

// ToDOT converts pipeline contents to Graphviz DOT. Each instruction becomes
// a cluster holding its stages in creation order; each consecutive pair in an
// edge's chain becomes an arrow carrying the edge color, line style, and
// legend. Stages referenced by an edge must belong to an instruction in src,
// otherwise the error carries DANGLING_NODE.
func ToDOT(src render.Source, opts Options) (string, error) {
	ids := make(map[string]string)

	var buf bytes.Buffer
	buf.WriteString("digraph pipeline {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")

	for i, op := range src.Ops() {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%s;\n", dotQuote(op.Label))
		buf.WriteString("    style=\"rounded\";\n")
		buf.WriteString("    color=\"#999999\";\n")

		var prev string
		for j, n := range op.Stages() {
			id := fmt.Sprintf("op%d_s%d", i, j)
			ids[nodeKey(n)] = id
			attrs, err := nodeAttrs(n, opts.Detailed)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&buf, "    %s [%s];\n", dotQuote(id), strings.Join(attrs, ", "))
			if prev != "" {
				fmt.Fprintf(&buf, "    %s -> %s [style=invis];\n", dotQuote(prev), dotQuote(id))
			}
			prev = id
		}
		buf.WriteString("  }\n")
	}

	edges := src.Edges()
	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range edges {
		deps := e.Deps()
		for _, n := range deps {
			if _, ok := ids[nodeKey(n)]; !ok {
				return "", errors.New(errors.ErrCodeDanglingNode,
					"stage %s is not part of any instruction in the pipeline", n)
			}
		}
		attrs, err := edgeAttrs(e)
		if err != nil {
			return "", err
		}
		for k := 1; k < len(deps); k++ {
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n",
				dotQuote(ids[nodeKey(deps[k-1])]), dotQuote(ids[nodeKey(deps[k])]), strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// dotQuote returns s as a DOT double-quoted string. Only the quote and the
// backslash are escaped; every other rune is passed through as UTF-8.
func dotQuote(s string) string { return `"` + dotEscaper.Replace(s) + `"` }

// nodeKey identifies a stage by owner and label, so a stage replaced through
// Op.AddNode still resolves to its slot.
func nodeKey(n *model.Node) string { return n.OpID() + "\x00" + n.Label }

func nodeAttrs(n *model.Node, detailed bool) ([]string, error) {
	label := n.Label
	if detailed {
		label = n.String()
	}
	attrs := []string{"label=" + dotQuote(label)}

	if n.Style.IsStyled() {
		c, err := render.ParseColor(n.Style.Color)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, "fillcolor=" + dotQuote(render.Hex(c)))
	}
	if s := dotLineStyle(n.Style.LineStyle); s != "" {
		attrs = append(attrs, fmt.Sprintf("style=\"rounded,filled,%s\"", s))
	}
	return attrs, nil
}

func edgeAttrs(e *model.Edge) ([]string, error) {
	c, err := render.ParseColor(e.Style.Color)
	if err != nil {
		return nil, err
	}
	attrs := []string{"color=" + dotQuote(render.Hex(c))}
	if s := dotLineStyle(e.Style.LineStyle); s != "" {
		attrs = append(attrs, "style="+s)
	}
	if e.HasLegend() {
		attrs = append(attrs, "tooltip=" + dotQuote(e.Legend))
	}
	return attrs, nil
}

// dotLineStyle maps a line style to a Graphviz style keyword. Graphviz has
// no dash-dot pattern, so it falls back to dashed.
func dotLineStyle(ls model.LineStyle) string {
	switch ls {
	case model.Dashed, model.DashDot:
		return "dashed"
	case model.Dotted:
		return "dotted"
	}
	return ""
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which sizes the
// drawing in points, with one sized in pixels at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// doubles the resolution.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
