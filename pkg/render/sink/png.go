package sink

import (
	"bytes"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/model"
	"github.com/matzehuels/pipeviz/pkg/render"
)

var (
	fontsOnce   sync.Once
	fontRegular *opentype.Font
	fontBold    *opentype.Font
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if fontRegular, fontsErr = opentype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		fontBold, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

// PNGSurface rasterizes a diagram with the Go fonts. It needs no external
// tools. The image size is the configured figure size times the DPI.
type PNGSurface struct {
	scene
	faces map[faceKey]font.Face
	out   []byte
}

type faceKey struct {
	size float64
	bold bool
}

// NewPNG returns an empty PNG surface.
func NewPNG() *PNGSurface {
	return &PNGSurface{faces: make(map[faceKey]font.Face)}
}

// RenderPNG draws src with r and returns the encoded PNG.
func RenderPNG(src render.Source, r *render.Renderer) ([]byte, error) {
	p := NewPNG()
	if err := r.Draw(src, p); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// Bytes returns the image produced by the last completed draw.
func (p *PNGSurface) Bytes() []byte { return p.out }

// End rasterizes the recorded scene.
func (p *PNGSurface) End() error {
	if err := loadFonts(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load fonts")
	}
	f := p.frame
	v := newViewport(f)
	th := f.Theme

	dc := gg.NewContext(int(math.Ceil(f.Width)), int(math.Ceil(f.Height)))

	dc.SetColor(themeColor(th.Background))
	dc.Clear()
	dc.SetColor(themeColor(th.PlotBackground))
	dc.DrawRectangle(v.left, v.top, v.right-v.left, v.bottom-v.top)
	dc.Fill()

	p.paintGrid(dc, v, th)

	for _, b := range p.boxes {
		if err := p.paintBox(dc, v, b, f.FontSize); err != nil {
			return err
		}
	}

	textColor := themeColor(th.TextColor)
	for _, t := range p.texts {
		if err := p.setFont(dc, t.Size, false); err != nil {
			return err
		}
		pos := v.textPos(t)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(t.Content, pos.X, pos.Y, anchorFraction(t.Anchor), 0.5)
	}

	for _, c := range p.conns {
		paintConnector(dc, v, c)
	}

	if len(p.legend) > 0 {
		if err := p.paintLegend(dc, v, f.YLabelFontSize, textColor); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	p.out = buf.Bytes()
	return nil
}

func (p *PNGSurface) setFont(dc *gg.Context, size float64, bold bool) error {
	key := faceKey{size: size, bold: bold}
	face, ok := p.faces[key]
	if !ok {
		f := fontRegular
		if bold {
			f = fontBold
		}
		var err error
		face, err = opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "font face %.1fpt", size)
		}
		p.faces[key] = face
	}
	dc.SetFontFace(face)
	return nil
}

func (p *PNGSurface) paintGrid(dc *gg.Context, v viewport, th render.Theme) {
	dc.SetDash()
	if th.Grid {
		dc.SetColor(themeColor(th.GridColor))
		dc.SetLineWidth(1)
		for _, t := range p.xTicks {
			x := v.x(t.Pos)
			dc.DrawLine(x, v.top, x, v.bottom)
			dc.Stroke()
		}
		for _, t := range p.yTicks {
			y := v.y(t.Pos)
			dc.DrawLine(v.left, y, v.right, y)
			dc.Stroke()
		}
	}
	if th.TickMarks {
		dc.SetColor(themeColor(th.SpineColor))
		dc.SetLineWidth(1)
		for _, t := range p.xTicks {
			x := v.x(t.Pos)
			dc.DrawLine(x, v.bottom, x, v.bottom+tickMarkLength)
			dc.Stroke()
		}
		for _, t := range p.yTicks {
			y := v.y(t.Pos)
			dc.DrawLine(v.left-tickMarkLength, y, v.left, y)
			dc.Stroke()
		}
	}
	if th.Spines {
		dc.SetColor(themeColor(th.SpineColor))
		dc.SetLineWidth(1.25)
		dc.DrawRectangle(v.left, v.top, v.right-v.left, v.bottom-v.top)
		dc.Stroke()
	}
}

func (p *PNGSurface) paintBox(dc *gg.Context, v viewport, b render.Box, fontSize float64) error {
	x, y, w, h := v.boxRect(b)
	r := math.Min(v.sx(boxCornerRadius), v.sy(boxCornerRadius))

	dc.DrawRoundedRectangle(x, y, w, h, r)
	dc.SetColor(withAlpha(b.Fill, boxOpacity))
	dc.FillPreserve()
	dc.SetColor(b.Outline)
	dc.SetLineWidth(boxStrokeWidth)
	setDash(dc, b.LineStyle, boxStrokeWidth)
	dc.Stroke()
	dc.SetDash()

	size := math.Min(fontSize, h*0.6)
	if err := p.setFont(dc, size, true); err != nil {
		return err
	}
	c := v.pt(b.Center)
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(truncateLabel(b.Label, w, size), c.X, c.Y, 0.5, 0.5)
	return nil
}

func paintConnector(dc *gg.Context, v viewport, c render.Connector) {
	a := connectorArrow(v, c)
	col := withAlpha(c.Color, connectorOpacity)

	dc.MoveTo(a.shaft[0].X, a.shaft[0].Y)
	if a.curved {
		dc.QuadraticTo(a.shaft[1].X, a.shaft[1].Y, a.shaft[2].X, a.shaft[2].Y)
	} else {
		for _, pnt := range a.shaft[1:] {
			dc.LineTo(pnt.X, pnt.Y)
		}
	}
	dc.SetColor(col)
	dc.SetLineWidth(connectorWidth)
	setDash(dc, c.LineStyle, connectorWidth)
	dc.Stroke()
	dc.SetDash()

	dc.MoveTo(a.head[0].X, a.head[0].Y)
	dc.LineTo(a.head[1].X, a.head[1].Y)
	dc.LineTo(a.head[2].X, a.head[2].Y)
	dc.ClosePath()
	dc.Fill()
}

func (p *PNGSurface) paintLegend(dc *gg.Context, v viewport, size float64, textColor color.RGBA) error {
	x, y, w, h := legendBox(v, p.legend, size)
	pad := size * 0.6

	dc.DrawRoundedRectangle(x, y, w, h, 4)
	dc.SetColor(withAlpha(color.RGBA{255, 255, 255, 255}, 0.8))
	dc.FillPreserve()
	dc.SetColor(render.MustParseColor("#cccccc"))
	dc.SetLineWidth(1)
	dc.Stroke()

	if err := p.setFont(dc, size, false); err != nil {
		return err
	}
	for i, e := range p.legend {
		cy := y + pad/2 + (float64(i)+0.5)*size*lineHeight
		dc.SetColor(withAlpha(e.Color, connectorOpacity))
		dc.SetLineWidth(connectorWidth)
		setDash(dc, e.LineStyle, connectorWidth)
		dc.DrawLine(x+pad, cy, x+pad+legendSample, cy)
		dc.Stroke()
		dc.SetDash()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(e.Text, x+pad*2+legendSample, cy, 0, 0.5)
	}
	return nil
}

func setDash(dc *gg.Context, ls model.LineStyle, width float64) {
	dc.SetDash(render.DashPattern(ls, width)...)
}

func withAlpha(c color.RGBA, a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * a))}
}
