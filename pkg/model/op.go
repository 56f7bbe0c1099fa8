package model

import (
	"github.com/google/uuid"

	"github.com/matzehuels/pipeviz/pkg/errors"
)

// Op is a single instruction. It owns its stages, keyed by label, in
// insertion order.
//
// Nodes refer back to their Op by ID rather than by pointer, so an Op can be
// copied into several pipelines without aliasing concerns.
//
// The zero value is usable: the stage map and the ID are set up when the
// first stage is attached. [NewOp] assigns the ID up front.
type Op struct {
	ID    string
	Label string

	nodes map[string]*Node
	order []string
}

// NewOp creates an empty instruction with a fresh unique ID.
func NewOp(label string) *Op {
	return &Op{
		ID:    uuid.NewString(),
		Label: label,
		nodes: make(map[string]*Node),
	}
}

// Get returns the stage with the given label.
func (o *Op) Get(label string) (*Node, bool) {
	n, ok := o.nodes[label]
	return n, ok
}

// MustGet is like [Op.Get] but panics if the stage does not exist.
// It is intended for static example tables.
func (o *Op) MustGet(label string) *Node {
	n, ok := o.nodes[label]
	if !ok {
		panic(errors.New(errors.ErrCodeStageNotFound, "op %q has no stage %q", o.Label, label))
	}
	return n
}

// Create adds a new stage starting at start. It fails with DUPLICATE_STAGE if
// a stage with the same label already exists.
func (o *Op) Create(label string, start int, opts ...NodeOption) (*Node, error) {
	if err := errors.ValidateLabel("stage", label); err != nil {
		return nil, err
	}
	if _, ok := o.nodes[label]; ok {
		return nil, errors.New(errors.ErrCodeDuplicateStage, "op %q already has stage %q", o.Label, label)
	}
	n := NewNode(label, start, opts...)
	o.attach(n)
	return n, nil
}

// Stage is the single get-or-create entry point for a stage.
//
// With no timing arguments it returns the existing stage, or fails with
// STAGE_NOT_FOUND. With one argument it creates the stage at that start
// cycle; with two, at that start cycle with that duration. Creating a stage
// that already exists fails with DUPLICATE_STAGE.
func (o *Op) Stage(label string, timing ...int) (*Node, error) {
	switch len(timing) {
	case 0:
		n, ok := o.nodes[label]
		if !ok {
			return nil, errors.New(errors.ErrCodeStageNotFound, "op %q has no stage %q", o.Label, label)
		}
		return n, nil
	case 1:
		return o.Create(label, timing[0])
	case 2:
		return o.Create(label, timing[0], WithDuration(timing[1]))
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "stage %q: expected at most start and duration, got %d values", label, len(timing))
}

// AddNode attaches a pre-built node and binds it to this Op. A node with the
// same label replaces the existing one in place.
func (o *Op) AddNode(n *Node) *Op {
	if n == nil {
		return o
	}
	o.attach(n)
	return o
}

func (o *Op) attach(n *Node) {
	if o.nodes == nil {
		o.nodes = make(map[string]*Node)
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if _, ok := o.nodes[n.Label]; !ok {
		o.order = append(o.order, n.Label)
	}
	o.nodes[n.Label] = n
	n.opID = o.ID
}

// Stages returns the stages in insertion order.
func (o *Op) Stages() []*Node {
	out := make([]*Node, 0, len(o.order))
	for _, l := range o.order {
		out = append(out, o.nodes[l])
	}
	return out
}

// Labels returns the stage labels in insertion order.
func (o *Op) Labels() []string {
	return append([]string(nil), o.order...)
}

// Len returns the number of stages.
func (o *Op) Len() int { return len(o.order) }
