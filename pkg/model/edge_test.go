package model

import (
	"testing"

	"github.com/matzehuels/pipeviz/pkg/errors"
)

func TestNewEdge(t *testing.T) {
	a, b := NewNode("WB", 4), NewNode("EX", 5)

	e, err := NewEdge(MustChain(a, b), WithEdgeColor("red"), WithLegend("data hazard"))
	if err != nil {
		t.Fatalf("NewEdge() error: %v", err)
	}
	if e.Style.Color != "red" {
		t.Errorf("Color = %q, want red", e.Style.Color)
	}
	if e.Style.LineStyle != Solid {
		t.Errorf("LineStyle = %q, want solid", e.Style.LineStyle)
	}
	if !e.HasLegend() {
		t.Error("HasLegend() = false, want true")
	}
	if deps := e.Deps(); len(deps) != 2 || deps[0] != a || deps[1] != b {
		t.Errorf("Deps() = %v", deps)
	}
}

func TestNewEdgeDefaults(t *testing.T) {
	e, err := NewEdge(NewNode("IF", 0))
	if err != nil {
		t.Fatalf("NewEdge() error: %v", err)
	}
	if e.Style != DefaultEdgeStyle() {
		t.Errorf("Style = %+v, want %+v", e.Style, DefaultEdgeStyle())
	}
	if e.HasLegend() {
		t.Error("HasLegend() = true for empty legend")
	}
}

func TestNewEdgeErrors(t *testing.T) {
	var nilNode *Node
	tests := []struct {
		name string
		deps Chainable
		code errors.Code
	}{
		{"nil deps", nil, errors.ErrCodeInvalidChainOperand},
		{"nil node", nilNode, errors.ErrCodeInvalidChainOperand},
		{"empty list", NodeList{}, errors.ErrCodeEmptyChain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEdge(tt.deps)
			if !errors.Is(err, tt.code) {
				t.Errorf("NewEdge() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestEdgeDepsIsolated(t *testing.T) {
	a, b := NewNode("IF", 0), NewNode("DE", 1)
	deps := ListOf(a, b)
	e, _ := NewEdge(deps)

	deps[0] = NewNode("XX", 9)
	if e.Deps()[0] != a {
		t.Error("edge deps should be fixed at construction")
	}
	e.Deps()[1] = nil
	if e.Deps()[1] != b {
		t.Error("Deps() should return a copy")
	}
}

func TestSetNodeColor(t *testing.T) {
	styled := NewNode("EX", 2, WithColor("lightblue"))
	explicitWhite := NewNode("MEM", 3, WithColor("white"))
	plain := NewNode("WB", 4)

	e, _ := NewEdge(ListOf(styled, explicitWhite, plain))

	e.SetNodeColor("pink", false)
	if styled.Style.Color != "lightblue" {
		t.Errorf("styled node changed to %q", styled.Style.Color)
	}
	if explicitWhite.Style.Color != "white" {
		t.Errorf("explicitly white node changed to %q", explicitWhite.Style.Color)
	}
	if plain.Style.Color != "pink" {
		t.Errorf("unstyled node = %q, want pink", plain.Style.Color)
	}

	e.SetNodeColor("violet", true)
	for _, n := range e.Deps() {
		if n.Style.Color != "violet" {
			t.Errorf("%s color = %q after overwrite, want violet", n, n.Style.Color)
		}
	}
}

func TestSetNodeColorFirstEdgeWins(t *testing.T) {
	shared := NewNode("Issue", 0)
	first, _ := NewEdge(ListOf(shared))
	second, _ := NewEdge(ListOf(shared))

	first.SetNodeColor("pink", false)
	second.SetNodeColor("lightblue", false)

	if shared.Style.Color != "pink" {
		t.Errorf("Color = %q, want the first edge's color", shared.Style.Color)
	}
}

func TestEdgeFluentSetters(t *testing.T) {
	e, _ := NewEdge(NewNode("IF", 0))
	got := e.SetEdgeColor("blue").SetLineStyle(Dashed).SetLegend("RAW hazard")
	if got != e {
		t.Error("setters should return the receiver")
	}
	if e.Style.Color != "blue" || e.Style.LineStyle != Dashed || e.Legend != "RAW hazard" {
		t.Errorf("edge = %v", e)
	}
}
