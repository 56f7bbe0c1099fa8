// Package catalog holds the built-in example pipelines.
//
// Pipelines reach the CLI and the HTTP server only through this catalog;
// there is no file format for the model. Each [Entry] builds a fresh
// [pipeline.Pipeline] on every call, so entries can be rendered concurrently.
package catalog

import (
	"strings"

	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/pipeline"
	"github.com/matzehuels/pipeviz/pkg/render"
)

// Entry is a named example pipeline.
type Entry struct {
	Name        string
	Description string

	build     func(b *builder)
	configure func(cfg *render.Config)
}

// Config returns base with the entry's own adjustments applied. Callers
// apply user overrides afterwards.
func (e Entry) Config(base render.Config) render.Config {
	if e.configure != nil {
		e.configure(&base)
	}
	return base
}

// Build constructs the example with the given render configuration. Further
// options, such as a logger, are passed to [pipeline.New].
func (e Entry) Build(cfg render.Config, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	opts = append([]pipeline.Option{pipeline.WithConfig(cfg)}, opts...)
	b := &builder{p: pipeline.New(opts...)}
	e.build(b)
	if b.err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, b.err, "build example %q", e.Name)
	}
	return b.p, nil
}

var entries = []Entry{
	{
		Name:        "simple",
		Description: "one instruction through a four-stage pipeline",
		build:       buildSimple,
	},
	{
		Name:        "dec",
		Description: "three-stage issue/execute/commit with in-order issue",
		build:       buildDEC,
	},
	{
		Name:        "program",
		Description: "three dependent instructions with stalls and data hazards",
		build:       buildProgram,
	},
	{
		Name:        "multicycle",
		Description: "load/use sequence with multi-cycle memory stages",
		build:       buildMulticycle,
	},
	{
		Name:        "tpu",
		Description: "accelerator units with 32-cycle operations",
		build:       buildTPU,
		configure: func(cfg *render.Config) {
			cfg.XAxisLabelStride = 8
			cfg.XAxisTickStride = 8
		},
	},
}

// Entries returns all examples in catalog order.
func Entries() []Entry {
	return append([]Entry(nil), entries...)
}

// Names returns the example names in catalog order.
func Names() []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Lookup finds an example by name. Unknown names fail with NOT_FOUND.
func Lookup(name string) (Entry, error) {
	if err := errors.ValidateExampleName(name); err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, errors.New(errors.ErrCodeNotFound,
		"unknown example %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Build constructs the named example with the default configuration plus
// the example's own adjustments.
func Build(name string, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	e, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return e.Build(e.Config(render.DefaultConfig()), opts...)
}
