package catalog

import (
	"fmt"

	"github.com/matzehuels/pipeviz/pkg/model"
)

func buildSimple(b *builder) {
	i := b.op("add x1, x2, x3")
	b.edge(model.ListOf(
		b.stage(i, "IF", 0),
		b.stage(i, "DE", 1),
		b.stage(i, "EX", 2),
		b.stage(i, "WB", 3),
	), model.WithLegend("simple_pipeline")).SetNodeColor("violet", true)
}

func buildDEC(b *builder) {
	ops := []*model.Op{
		b.op("add x1, x2, x3"),
		b.op("orr x4, x5, x6"),
		b.op("b.eq"),
	}
	issue := make(model.NodeList, len(ops))
	exec := make(model.NodeList, len(ops))
	for i, op := range ops {
		issue[i] = b.stage(op, "Issue", i)
		exec[i] = b.stage(op, "E", i+1)
		b.stage(op, "C", i+2)
	}

	b.edge(issue, model.WithEdgeColor("red")).SetNodeColor("pink", false)
	b.edge(exec[:2],
		model.WithEdgeColor("blue"),
		model.WithLegend("data dependency"),
	).SetNodeColor("lightblue", false)
}

func buildProgram(b *builder) {
	stall := model.NodeStyle{Color: "red", LineStyle: model.Dashed}

	ops := []*model.Op{
		b.op("add x1, x1, x3"),
		b.op("sub x4, x1, x5"), // reads x1
		b.op("mul x6, x4, x7"), // reads x4
	}
	for i, op := range ops {
		b.stage(op, "IF", i+1)
		b.stage(op, "DE", i+2)
		for j := 0; j < i; j++ {
			op.AddNode(model.NewNode(fmt.Sprintf("stall%d", j), i+3+j, model.WithStyle(stall)))
		}
		b.stage(op, "EX", 2*i+3)
		b.stage(op, "WB", 2*i+4)
	}

	for i := 0; i+1 < len(ops); i++ {
		wb, _ := ops[i].Get("WB")
		ex, _ := ops[i+1].Get("EX")
		b.edge(model.ListOf(wb, ex),
			model.WithEdgeColor("red"),
			model.WithLegend("data hazard"),
		).SetNodeColor("pink", false)
	}
}

func buildMulticycle(b *builder) {
	stall := model.NodeStyle{Color: "orange", LineStyle: model.Dashed}

	load := b.op("ldr x1, [x2]")
	b.stage(load, "IF", 1)
	b.stage(load, "DE", 2)
	b.stage(load, "EX", 3)
	loadMem := b.stage(load, "MEM", 4, model.WithEnd(5), model.WithColor("lightblue"))
	b.stage(load, "WB", 6)

	add := b.op("add x3, x1, x4")
	b.stage(add, "IF", 2)
	b.stage(add, "DE", 3)
	b.stage(add, "stall", 4, model.WithEnd(5), model.WithStyle(stall))
	addEx := b.stage(add, "EX", 6)
	b.stage(add, "WB", 7)

	store := b.op("str x3, [x5]")
	b.stage(store, "IF", 3)
	b.stage(store, "DE", 4)
	b.stage(store, "stall", 5, model.WithEnd(6), model.WithStyle(stall))
	storeEx := b.stage(store, "EX", 7)
	b.stage(store, "MEM", 8, model.WithEnd(9))

	b.edge(model.ListOf(loadMem, addEx), model.WithEdgeColor("blue"), model.WithLegend("RAW hazard"))
	b.edge(model.ListOf(addEx, storeEx), model.WithEdgeColor("blue"), model.WithLegend("RAW hazard"))
}

func buildTPU(b *builder) {
	const span = 32

	wlsu := b.op("WLSU")
	mlsu := b.op("MLSU")
	mxu := b.op("MXU")
	vpu := b.op("VPU")

	weights := b.stage(wlsu, "load_weight1", 0, model.WithDuration(span))
	b.stage(wlsu, "load_weight2", 33, model.WithDuration(span))
	acts := b.stage(mlsu, "load_activation", 1, model.WithDuration(span))
	b.stage(mlsu, "load_activation2", 34, model.WithDuration(span))
	matmul := b.stage(mxu, "matmul_redosum", 34, model.WithDuration(span))
	softmax := b.stage(vpu, "softmax", 66, model.WithDuration(span))

	red := model.WithEdgeColor("red")
	b.edge(model.ListOf(weights, matmul), red, model.WithLegend("data dependency"))
	b.edge(model.ListOf(acts, matmul), red)
	b.edge(model.ListOf(matmul, softmax), red)
}
