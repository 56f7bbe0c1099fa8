// Package model defines the in-memory data model of a pipeline timing diagram.
//
// # Overview
//
// A timing diagram shows how instructions move through the stages of a
// processor pipeline. Each instruction is an [Op] that owns a set of named,
// time-stamped stages ([Node]). Dependencies between stages of different
// instructions are expressed as an [Edge] over an ordered [NodeList].
//
// # Building Stages
//
// Stages are created through the explicit accessor methods on [Op]:
//
//	op := model.NewOp("add x1, x2, x3")
//	op.Create("IF", 0)                        // new stage at cycle 0
//	op.Stage("MEM", 4, 2)                     // new two-cycle stage at 4..5
//	n, _ := op.Stage("IF")                    // existing stage, same instance
//	op.AddNode(model.NewNode("stall", 2, model.WithStyle(stallStyle)))
//
// # Chains and Edges
//
// [Chain] concatenates nodes and lists in order. A two-argument call is the
// building block for longer chains and is associative:
//
//	deps, err := model.Chain(i0.MustGet("WB"), i1.MustGet("EX"))
//	e, err := model.NewEdge(deps, model.WithEdgeColor("red"), model.WithLegend("data hazard"))
//	e.SetNodeColor("pink", false)
//
// # Styling
//
// A [NodeStyle] with an empty Color is unstyled. [Edge.SetNodeColor] with
// overwrite=false colors only unstyled nodes, so the first edge to style a
// node wins. Because styling is applied immediately, the order in which edges
// are constructed is the order in which styles are applied.
//
// Colors are stored as given. They are resolved and validated when the
// diagram is laid out, so an invalid color fails the render rather than the
// model construction.
package model
