package model

import (
	"strings"

	"github.com/matzehuels/pipeviz/pkg/errors"
)

// Chainable is anything that can appear in a dependency chain: a single
// *Node or a NodeList. The interface is sealed.
type Chainable interface {
	chainNodes() []*Node
}

func (n *Node) chainNodes() []*Node { return []*Node{n} }

// NodeList is an ordered sequence of nodes. Adjacent pairs become connectors
// when the list is used as the dependencies of an [Edge].
type NodeList []*Node

func (l NodeList) chainNodes() []*Node { return l }

// ListOf builds a NodeList from raw nodes.
func ListOf(nodes ...*Node) NodeList {
	return append(NodeList(nil), nodes...)
}

// Chain concatenates its operands in order into a new NodeList. The operands
// are not modified. A nil operand fails with INVALID_CHAIN_OPERAND.
//
// No time ordering is checked; a chain may point backwards in time.
func Chain(parts ...Chainable) (NodeList, error) {
	var out NodeList
	for i, p := range parts {
		if p == nil {
			return nil, errors.New(errors.ErrCodeInvalidChainOperand, "chain operand %d is nil", i)
		}
		for _, n := range p.chainNodes() {
			if n == nil {
				return nil, errors.New(errors.ErrCodeInvalidChainOperand, "chain operand %d contains a nil node", i)
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// MustChain is like [Chain] but panics on error.
func MustChain(parts ...Chainable) NodeList {
	l, err := Chain(parts...)
	if err != nil {
		panic(err)
	}
	return l
}

// String joins the nodes with " >> ".
func (l NodeList) String() string {
	parts := make([]string, len(l))
	for i, n := range l {
		parts[i] = n.String()
	}
	return strings.Join(parts, " >> ")
}
