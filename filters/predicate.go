// Package filters holds node predicates over BEL graphs and the operations
// that apply them to a graph's node sequence.
//
// A predicate is written once against a bare belgraph.NodeData and can be
// evaluated either on a record (FromData) or on a node identified within a
// graph (InGraph).
package filters

import (
	"fmt"

	"github.com/abstract-base-method/belgraph"
)

type inputKind uint8

const (
	invalidInput inputKind = iota
	dataInput
	graphInput
)

// Input is what a predicate is evaluated on: either a bare node record or a
// node reference within a graph. The zero Input is invalid.
type Input struct {
	kind  inputKind
	data  belgraph.NodeData
	graph belgraph.Graph
	ref   belgraph.NodeRef
}

// FromData builds an Input over a bare node record.
func FromData(data belgraph.NodeData) Input {
	return Input{kind: dataInput, data: data}
}

// InGraph builds an Input over the node ref of graph g.
func InGraph(g belgraph.Graph, ref belgraph.NodeRef) Input {
	if g == nil {
		return Input{}
	}
	return Input{kind: graphInput, graph: g, ref: ref}
}

// Graph returns the graph and reference of a graph-form Input.
func (in Input) Graph() (belgraph.Graph, belgraph.NodeRef, bool) {
	return in.graph, in.ref, in.kind == graphInput
}

// Data resolves the node record behind in, looking it up in the graph for
// graph-form inputs.
func (in Input) Data() (belgraph.NodeData, error) {
	switch in.kind {
	case dataInput:
		return in.data, nil
	case graphInput:
		node, err := in.graph.RetrieveNode(in.ref)
		if err != nil {
			return belgraph.NodeData{}, err
		}
		return node.Data, nil
	default:
		return belgraph.NodeData{}, fmt.Errorf("%w: predicate needs node data or a graph and node reference", belgraph.ErrInvalidArgument)
	}
}

type Predicate interface {
	Evaluate(in Input) (bool, error)
}

// PredicateFunc adapts an ordinary function to Predicate.
type PredicateFunc func(in Input) (bool, error)

func (f PredicateFunc) Evaluate(in Input) (bool, error) {
	return f(in)
}

// NodePredicate inspects a single node record.
type NodePredicate func(data belgraph.NodeData) bool

// Adapt lifts fn so it accepts both input forms.
func Adapt(fn NodePredicate) PredicateFunc {
	return func(in Input) (bool, error) {
		data, err := in.Data()
		if err != nil {
			return false, err
		}
		return fn(data), nil
	}
}

// GraphPredicate inspects a node in the context of its graph. It has no
// record-only form.
type GraphPredicate func(g belgraph.Graph, ref belgraph.NodeRef) (bool, error)

func (f GraphPredicate) Evaluate(in Input) (bool, error) {
	g, ref, ok := in.Graph()
	if !ok {
		return false, fmt.Errorf("%w: predicate needs a graph and node reference", belgraph.ErrInvalidArgument)
	}
	return f(g, ref)
}

// Apply evaluates p on a bare node record.
func Apply(p Predicate, data belgraph.NodeData) (bool, error) {
	return p.Evaluate(FromData(data))
}

// ApplyInGraph evaluates p on the node ref of graph g.
func ApplyInGraph(p Predicate, g belgraph.Graph, ref belgraph.NodeRef) (bool, error) {
	return p.Evaluate(InGraph(g, ref))
}
