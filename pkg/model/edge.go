package model

import (
	"fmt"

	"github.com/matzehuels/pipeviz/pkg/errors"
)

// Edge is a styled dependency chain. Every adjacent pair of its nodes is drawn
// as one connector.
type Edge struct {
	Style  EdgeStyle
	Legend string

	deps NodeList
}

// EdgeOption configures an [Edge] built with [NewEdge].
type EdgeOption func(*Edge)

// WithEdgeStyle replaces the whole edge style.
func WithEdgeStyle(s EdgeStyle) EdgeOption { return func(e *Edge) { e.Style = s } }

// WithEdgeColor sets the connector color.
func WithEdgeColor(c string) EdgeOption { return func(e *Edge) { e.Style.Color = c } }

// WithEdgeLineStyle sets the connector line pattern.
func WithEdgeLineStyle(ls LineStyle) EdgeOption { return func(e *Edge) { e.Style.LineStyle = ls } }

// WithLegend sets the legend text. An empty legend keeps the edge out of the
// diagram legend.
func WithLegend(text string) EdgeOption { return func(e *Edge) { e.Legend = text } }

// NewEdge creates an edge over deps. The node sequence is copied, so later
// chains built from the same operands do not affect it.
//
// A nil deps fails with INVALID_CHAIN_OPERAND and an empty one with
// EMPTY_CHAIN.
func NewEdge(deps Chainable, opts ...EdgeOption) (*Edge, error) {
	nodes, err := Chain(deps)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyChain, "edge needs at least one node")
	}
	e := &Edge{Style: DefaultEdgeStyle(), deps: nodes}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Deps returns a copy of the dependency chain.
func (e *Edge) Deps() NodeList { return ListOf(e.deps...) }

// SetEdgeColor sets the connector color.
func (e *Edge) SetEdgeColor(c string) *Edge {
	e.Style.Color = c
	return e
}

// SetLineStyle sets the connector line pattern.
func (e *Edge) SetLineStyle(ls LineStyle) *Edge {
	e.Style.LineStyle = ls
	return e
}

// SetLegend sets the legend text.
func (e *Edge) SetLegend(text string) *Edge {
	e.Legend = text
	return e
}

// SetNodeColor colors the nodes of the chain. With overwrite every node gets
// the color; otherwise only unstyled nodes do.
func (e *Edge) SetNodeColor(c string, overwrite bool) *Edge {
	for _, n := range e.deps {
		if overwrite || !n.Style.IsStyled() {
			n.Style.Color = c
		}
	}
	return e
}

// HasLegend reports whether the edge contributes a legend row.
func (e *Edge) HasLegend() bool { return e.Legend != "" }

func (e *Edge) String() string {
	return fmt.Sprintf("Edge(%s, color=%s, legend=%q)", e.deps, e.Style.Color, e.Legend)
}
