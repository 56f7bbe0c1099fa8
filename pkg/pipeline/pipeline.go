// Package pipeline holds the contents of one timing diagram and renders it.
//
// A [Pipeline] is an ordered list of instructions ([model.Op]) plus the
// dependency edges between their stages. The first instruction added is drawn
// on the top row. Layout and drawing are delegated to a [render.Renderer]
// owned by the pipeline; [Pipeline.Render] produces artifacts for one or more
// output formats in a single pass.
//
// # Usage
//
//	p := pipeline.New(pipeline.WithConfig(cfg), pipeline.WithLogger(logger))
//
//	add := model.NewOp("add x1, x2, x3")
//	add.Create("IF", 0)
//	add.Create("EX", 1)
//	p.AddOp(add)
//
//	artifacts, err := p.Render(ctx, pipeline.FormatSVG, pipeline.FormatPNG)
//
// [Runner] adds artifact caching on top of Render for the CLI and the HTTP
// server.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/model"
	"github.com/matzehuels/pipeviz/pkg/observability"
	"github.com/matzehuels/pipeviz/pkg/render"
)

// Pipeline is an ordered collection of instructions and dependency edges.
// It is not safe for concurrent mutation.
type Pipeline struct {
	ops      []*model.Op
	edges    []*model.Edge
	renderer *render.Renderer
	logger   *log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConfig sets the render configuration.
func WithConfig(cfg render.Config) Option {
	return func(p *Pipeline) { p.renderer.SetConfig(cfg) }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns an empty pipeline using [render.DefaultConfig] unless
// [WithConfig] is given.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		renderer: render.NewRenderer(render.DefaultConfig()),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddOp appends op as the next row. Adding nil fails with INVALID_INPUT and
// adding the same instruction twice fails with DUPLICATE_OP.
func (p *Pipeline) AddOp(op *model.Op) error {
	if op == nil {
		return errors.New(errors.ErrCodeInvalidInput, "instruction cannot be nil")
	}
	for _, existing := range p.ops {
		if existing == op || (op.ID != "" && existing.ID == op.ID) {
			return errors.New(errors.ErrCodeDuplicateOp, "instruction %q already added", op.Label)
		}
	}
	p.ops = append(p.ops, op)
	return nil
}

// AddEdge appends a dependency edge. Edges are drawn, and contribute legend
// entries, in the order they were added.
func (p *Pipeline) AddEdge(e *model.Edge) error {
	if e == nil {
		return errors.New(errors.ErrCodeInvalidInput, "edge cannot be nil")
	}
	p.edges = append(p.edges, e)
	return nil
}

// Ops returns the instructions in row order.
func (p *Pipeline) Ops() []*model.Op { return p.ops }

// Edges returns the edges in insertion order.
func (p *Pipeline) Edges() []*model.Edge { return p.edges }

// Row returns the row of the instruction owning n. Rows count from the
// bottom, so the first instruction is on row len(Ops()).
func (p *Pipeline) Row(n *model.Node) (int, bool) {
	if n == nil {
		return 0, false
	}
	for i, op := range p.ops {
		if op.ID == n.OpID() {
			return len(p.ops) - i, true
		}
	}
	return 0, false
}

// Renderer returns the renderer owned by the pipeline.
func (p *Pipeline) Renderer() *render.Renderer { return p.renderer }

// Config returns the current render configuration.
func (p *Pipeline) Config() render.Config { return p.renderer.Config() }

// Layout computes the diagram without drawing it.
func (p *Pipeline) Layout() (render.Diagram, error) {
	return p.layout(context.Background())
}

func (p *Pipeline) layout(ctx context.Context) (render.Diagram, error) {
	hooks := observability.Render()
	hooks.OnLayoutStart(ctx, len(p.ops))
	start := time.Now()

	d, err := p.renderer.Layout(p)
	hooks.OnLayoutComplete(ctx, len(d.Boxes), time.Since(start), err)
	if err != nil {
		return render.Diagram{}, err
	}

	p.logger.Debug("computed layout",
		"rows", d.Rows(),
		"boxes", len(d.Boxes),
		"connectors", len(d.Connectors),
		"legend", len(d.Legend))
	return d, nil
}

// Draw lays out the pipeline and draws it on s. On error s receives no calls.
func (p *Pipeline) Draw(s render.Surface) error {
	d, err := p.Layout()
	if err != nil {
		return err
	}
	return d.DrawTo(s)
}
