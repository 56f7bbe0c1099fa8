// Package pkg provides the libraries behind pipeviz, a renderer for processor
// pipeline timing diagrams.
//
// # Overview
//
// A timing diagram has one row per instruction and one box per pipeline
// stage, placed on a shared cycle axis. Arrows connect stages of different
// instructions to show data dependencies and hazards. The pkg directory is
// organized into four areas:
//
//  1. [model] - Instructions, stages, chains, and dependency edges
//  2. [render] - Configuration, themes, layout, and drawing surfaces
//  3. [pipeline] - Orchestration (model → layout → artifacts) with caching
//  4. [catalog] - The built-in example pipelines
//
// # Architecture
//
// The typical data flow through pipeviz:
//
//	model.Op / model.Edge
//	         ↓
//	    [pipeline] (collects ops and edges, assigns rows)
//	         ↓
//	    [render] Renderer.Layout → Diagram
//	         ↓
//	    [render/sink] surfaces (SVG, PNG, JSON, terminal)
//	    [render/nodelink] Graphviz (DOT, node-link SVG)
//	         ↓
//	    SVG/PNG/PDF/JSON/DOT/text output
//
// # Quick Start
//
//	p := pipeline.New()
//
//	i0 := model.NewOp("lw x1, 0(x2)")
//	for t, s := range []string{"IF", "DE", "EX", "WB"} {
//	    i0.Create(s, t)
//	}
//	i1 := model.NewOp("add x3, x1, x1")
//	for t, s := range []string{"IF", "DE", "EX", "WB"} {
//	    i1.Create(s, t+1)
//	}
//	p.AddOp(i0)
//	p.AddOp(i1)
//
//	deps, _ := model.Chain(i0.MustGet("WB"), i1.MustGet("EX"))
//	e, _ := model.NewEdge(deps, model.WithEdgeColor("red"), model.WithLegend("data hazard"))
//	p.AddEdge(e)
//
//	artifacts, err := p.Render(ctx, "svg", "png")
//
// # Supporting Packages
//
// [errors] - Structured errors with machine-readable codes shared by the
// library, CLI, and HTTP server.
//
// [cache] - Artifact cache backends (null, file, Redis) and cache keys
// derived from the example name, format, and render configuration.
//
// [observability] - Hook registry for layout, render, cache, and HTTP events.
//
// [httputil] - JSON error responses and status mapping for the HTTP server.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/render/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	PIPEVIZ_TEST_REDIS=redis://localhost:6379/15 go test ./pkg/cache
//
// [model]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/model
// [render]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/pipeline
// [catalog]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/catalog
// [errors]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/errors
// [cache]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pipeviz/pkg/buildinfo
package pkg
