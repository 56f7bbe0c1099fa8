package render

import "github.com/matzehuels/pipeviz/pkg/model"

// Source is the read-only view of a pipeline the renderer lays out.
type Source interface {
	Ops() []*model.Op
	Edges() []*model.Edge
}

// Renderer turns pipeline contents into a [Diagram] and replays it onto
// drawing surfaces.
type Renderer struct {
	cfg Config
}

// NewRenderer returns a renderer with the given configuration.
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Config returns the current configuration.
func (r *Renderer) Config() Config { return r.cfg }

// SetConfig replaces the configuration.
func (r *Renderer) SetConfig(cfg Config) { r.cfg = cfg }

// Draw lays out src and draws it on s. Configuration and model errors are
// reported before any call to s, so a failed draw leaves the surface
// untouched.
func (r *Renderer) Draw(src Source, s Surface) error {
	d, err := r.Layout(src)
	if err != nil {
		return err
	}
	return d.DrawTo(s)
}
