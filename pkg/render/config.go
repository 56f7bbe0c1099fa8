package render

import (
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pipeviz/pkg/errors"
)

// Edge routing modes.
const (
	RoutingOrthogonal = "orthogonal"
	RoutingCurved     = "curved"
)

// Size limits. Raster surfaces allocate Width x Height pixels up front.
const (
	MaxDPI    = 1200
	MaxPixels = 16384
)

// RoutingModes lists the supported edge routing modes.
var RoutingModes = []string{RoutingCurved, RoutingOrthogonal}

// Config controls the appearance of a rendered diagram. It is passed in by the
// caller and never derived from the pipeline contents.
type Config struct {
	Figsize          [2]float64 `toml:"figsize" json:"figsize"` // inches
	DPI              float64    `toml:"dpi" json:"dpi"`
	Style            string     `toml:"style" json:"style"`
	EdgeRouting      string     `toml:"edge_routing" json:"edge_routing"`
	FontSize         float64    `toml:"font_size" json:"font_size"`
	FontFamily       string     `toml:"font_family" json:"font_family"`
	YLabelFontSize   float64    `toml:"y_label_font_size" json:"y_label_font_size"`
	XLabelFontSize   float64    `toml:"x_label_font_size" json:"x_label_font_size"`
	XAxisLabelStride int        `toml:"x_axis_label_stride" json:"x_axis_label_stride"`
	XAxisTickStride  int        `toml:"x_axis_tick_stride" json:"x_axis_tick_stride"`
}

// DefaultConfig returns the default render configuration.
func DefaultConfig() Config {
	return Config{
		Figsize:          [2]float64{12, 8},
		DPI:              100,
		Style:            ThemeWhiteGrid,
		EdgeRouting:      RoutingCurved,
		FontSize:         16,
		FontFamily:       "DejaVu Sans",
		YLabelFontSize:   12,
		XLabelFontSize:   16,
		XAxisLabelStride: 1,
		XAxisTickStride:  1,
	}
}

// Validate checks every field. Routing errors carry INVALID_ROUTING_MODE,
// unknown themes INVALID_STYLE, everything else INVALID_CONFIG.
func (c Config) Validate() error {
	if !slices.Contains(RoutingModes, c.EdgeRouting) {
		return errors.New(errors.ErrCodeInvalidRoutingMode,
			"invalid edge routing %q (must be one of: %s)", c.EdgeRouting, strings.Join(RoutingModes, ", "))
	}
	if _, err := LookupTheme(c.Style); err != nil {
		return err
	}
	if !(c.Figsize[0] > 0) || !(c.Figsize[1] > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "figsize must be positive, got %v", c.Figsize)
	}
	if !(c.DPI > 0) || c.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be in (0, %v], got %v", MaxDPI, c.DPI)
	}
	if !(c.Width() <= MaxPixels) || !(c.Height() <= MaxPixels) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"figure is %.0fx%.0f pixels, at most %d per side (reduce figsize or dpi)", c.Width(), c.Height(), MaxPixels)
	}
	if c.FontSize <= 0 || c.YLabelFontSize <= 0 || c.XLabelFontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font sizes must be positive")
	}
	if c.XAxisLabelStride < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "x_axis_label_stride must be at least 1, got %d", c.XAxisLabelStride)
	}
	if c.XAxisTickStride < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "x_axis_tick_stride must be at least 1, got %d", c.XAxisTickStride)
	}
	return nil
}

// Width returns the figure width in pixels.
func (c Config) Width() float64 { return c.Figsize[0] * c.DPI }

// Height returns the figure height in pixels.
func (c Config) Height() float64 { return c.Figsize[1] * c.DPI }

// LoadConfig reads a TOML file and overlays it on [DefaultConfig]. Keys the
// file sets override the defaults; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeConfig is like [LoadConfig] but reads from r.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
