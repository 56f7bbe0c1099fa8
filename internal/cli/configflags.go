package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeviz/pkg/catalog"
	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/render"
)

// configFlags holds the render configuration flags shared by render and
// config. Only flags set on the command line override the configuration.
type configFlags struct {
	path        string
	routing     string
	theme       string
	figsize     []float64
	dpi         float64
	labelStride int
	tickStride  int
}

func (f *configFlags) register(cmd *cobra.Command) {
	def := render.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVar(&f.path, "config", "", "TOML render configuration file")
	fs.StringVar(&f.routing, "routing", def.EdgeRouting, "edge routing: curved, orthogonal")
	fs.StringVar(&f.theme, "theme", def.Style, "theme: "+strings.Join(render.ThemeNames(), ", "))
	fs.Float64SliceVar(&f.figsize, "figsize", def.Figsize[:], "figure size in inches: width,height")
	fs.Float64Var(&f.dpi, "dpi", def.DPI, "pixels per inch (max 1200)")
	fs.IntVar(&f.labelStride, "label-stride", def.XAxisLabelStride, "label every n-th cycle")
	fs.IntVar(&f.tickStride, "tick-stride", def.XAxisTickStride, "grid line every n-th cycle")
}

// resolve builds the effective configuration: defaults or the --config file,
// then the example's own adjustments, then explicit flags.
func (f *configFlags) resolve(cmd *cobra.Command, entry *catalog.Entry) (render.Config, error) {
	cfg := render.DefaultConfig()
	if f.path != "" {
		loaded, err := render.LoadConfig(f.path)
		if err != nil {
			return render.Config{}, err
		}
		cfg = loaded
	}
	if entry != nil {
		cfg = entry.Config(cfg)
	}

	fs := cmd.Flags()
	if fs.Changed("routing") {
		cfg.EdgeRouting = f.routing
	}
	if fs.Changed("theme") {
		cfg.Style = f.theme
	}
	if fs.Changed("figsize") {
		if len(f.figsize) != 2 {
			return render.Config{}, errors.New(errors.ErrCodeInvalidConfig,
				"--figsize takes width,height, got %d values", len(f.figsize))
		}
		cfg.Figsize = [2]float64{f.figsize[0], f.figsize[1]}
	}
	if fs.Changed("dpi") {
		cfg.DPI = f.dpi
	}
	if fs.Changed("label-stride") {
		cfg.XAxisLabelStride = f.labelStride
	}
	if fs.Changed("tick-stride") {
		cfg.XAxisTickStride = f.tickStride
	}

	if err := cfg.Validate(); err != nil {
		return render.Config{}, err
	}
	return cfg, nil
}
