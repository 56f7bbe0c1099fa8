package pipeline

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/observability"
	"github.com/matzehuels/pipeviz/pkg/render"
	"github.com/matzehuels/pipeviz/pkg/render/nodelink"
	"github.com/matzehuels/pipeviz/pkg/render/sink"
)

// Format constants for output formats.
const (
	FormatSVG         = "svg"
	FormatPNG         = "png"
	FormatPDF         = "pdf"
	FormatJSON        = "json"
	FormatTerm        = "term"
	FormatDOT         = "dot"
	FormatNodelinkSVG = "nodelink-svg"
	FormatNodelinkPNG = "nodelink-png"
	FormatNodelinkPDF = "nodelink-pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:         true,
	FormatPNG:         true,
	FormatPDF:         true,
	FormatJSON:        true,
	FormatTerm:        true,
	FormatDOT:         true,
	FormatNodelinkSVG: true,
	FormatNodelinkPNG: true,
	FormatNodelinkPDF: true,
}

// Formats returns the supported formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Extension returns the file extension for an artifact format.
func Extension(format string) string {
	switch format {
	case FormatTerm:
		return "txt"
	case FormatNodelinkSVG:
		return "nodelink.svg"
	case FormatNodelinkPNG:
		return "nodelink.png"
	case FormatNodelinkPDF:
		return "nodelink.pdf"
	}
	return format
}

// ContentType returns the MIME type served for an artifact format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatNodelinkSVG:
		return "image/svg+xml"
	case FormatPNG, FormatNodelinkPNG:
		return "image/png"
	case FormatPDF, FormatNodelinkPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Render lays out the pipeline once and produces an artifact per format.
// Rendering is all-or-nothing: on error no artifacts are returned. With no
// formats, SVG is rendered.
func (p *Pipeline) Render(ctx context.Context, formats ...string) (map[string][]byte, error) {
	if len(formats) == 0 {
		formats = []string{FormatSVG}
	}
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	artifacts, err := p.render(ctx, formats)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (p *Pipeline) render(ctx context.Context, formats []string) (map[string][]byte, error) {
	d, err := p.layout(ctx)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if _, done := artifacts[format]; done {
			continue
		}
		data, err := p.renderFormat(ctx, d, format)
		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		p.logger.Debug("rendered", "format", format, "bytes", len(data))
		artifacts[format] = data
	}
	return artifacts, nil
}

func (p *Pipeline) renderFormat(ctx context.Context, d render.Diagram, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		s := sink.NewSVG()
		if err := d.DrawTo(s); err != nil {
			return nil, err
		}
		return s.Bytes(), nil
	case FormatPNG:
		s := sink.NewPNG()
		if err := d.DrawTo(s); err != nil {
			return nil, err
		}
		return s.Bytes(), nil
	case FormatPDF:
		s := sink.NewSVG()
		if err := d.DrawTo(s); err != nil {
			return nil, err
		}
		return render.ToPDF(s.Bytes())
	case FormatJSON:
		s := sink.NewJSON()
		if err := d.DrawTo(s); err != nil {
			return nil, err
		}
		return s.Bytes(), nil
	case FormatTerm:
		s := sink.NewTerm()
		if err := d.DrawTo(s); err != nil {
			return nil, err
		}
		return s.Bytes(), nil
	case FormatDOT, FormatNodelinkSVG, FormatNodelinkPNG, FormatNodelinkPDF:
		return p.renderNodelink(ctx, format)
	}
	return nil, ValidateFormat(format)
}

// nodelinkPNGScale doubles the Graphviz resolution for raster output.
const nodelinkPNGScale = 2.0

func (p *Pipeline) renderNodelink(ctx context.Context, format string) ([]byte, error) {
	dot, err := nodelink.ToDOT(p, nodelink.Options{})
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatNodelinkSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatNodelinkPNG:
		return nodelink.RenderPNG(ctx, dot, nodelinkPNGScale)
	case FormatNodelinkPDF:
		return nodelink.RenderPDF(ctx, dot)
	}
	return []byte(dot), nil
}
