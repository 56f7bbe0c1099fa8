package model

import "fmt"

// Node is a single pipeline stage of an instruction: a labeled interval of
// one or more cycles.
type Node struct {
	Label    string
	Start    int // first cycle
	Duration int // number of cycles, 1 for a single-cycle stage
	Style    NodeStyle

	opID string
}

// NodeOption configures a [Node] built with [NewNode].
type NodeOption func(*Node)

// WithDuration sets the number of cycles the stage occupies.
// Non-positive durations are accepted and produce degenerate boxes.
func WithDuration(d int) NodeOption { return func(n *Node) { n.Duration = d } }

// WithEnd sets the duration so that the stage ends at the given cycle
// (inclusive). It must be applied after the start is known, which is always
// the case for options passed to [NewNode].
func WithEnd(end int) NodeOption { return func(n *Node) { n.Duration = end - n.Start + 1 } }

// WithStyle sets the node style.
func WithStyle(s NodeStyle) NodeOption { return func(n *Node) { n.Style = s } }

// WithColor sets only the fill color.
func WithColor(c string) NodeOption { return func(n *Node) { n.Style.Color = c } }

// WithLineStyle sets only the outline pattern.
func WithLineStyle(ls LineStyle) NodeOption { return func(n *Node) { n.Style.LineStyle = ls } }

// NewNode creates a detached single-cycle node starting at start.
// Attach it to an instruction with [Op.AddNode].
func NewNode(label string, start int, opts ...NodeOption) *Node {
	n := &Node{
		Label:    label,
		Start:    start,
		Duration: 1,
		Style:    NodeStyle{LineStyle: Solid},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// End returns the last cycle occupied by the node.
func (n *Node) End() int { return n.Start + n.Duration - 1 }

// OpID returns the ID of the instruction the node is attached to, or "" for a
// detached node.
func (n *Node) OpID() string { return n.opID }

// String formats the node as "label@start", or "label@start-end" when the
// stage spans more than one cycle.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Duration == 1 {
		return fmt.Sprintf("%s@%d", n.Label, n.Start)
	}
	return fmt.Sprintf("%s@%d-%d", n.Label, n.Start, n.End())
}
