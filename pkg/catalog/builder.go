package catalog

import (
	"github.com/matzehuels/pipeviz/pkg/model"
	"github.com/matzehuels/pipeviz/pkg/pipeline"
)

// builder records the first error so example code reads as a straight list
// of stages and edges.
type builder struct {
	p   *pipeline.Pipeline
	err error
}

func (b *builder) op(label string) *model.Op {
	op := model.NewOp(label)
	if b.err == nil {
		b.err = b.p.AddOp(op)
	}
	return op
}

func (b *builder) stage(op *model.Op, label string, start int, opts ...model.NodeOption) *model.Node {
	if b.err != nil {
		return nil
	}
	n, err := op.Create(label, start, opts...)
	b.err = err
	return n
}

// edge returns an empty edge after a failure so fluent setters stay safe.
func (b *builder) edge(deps model.Chainable, opts ...model.EdgeOption) *model.Edge {
	if b.err != nil {
		return &model.Edge{}
	}
	e, err := model.NewEdge(deps, opts...)
	if err != nil {
		b.err = err
		return &model.Edge{}
	}
	b.err = b.p.AddEdge(e)
	return e
}
