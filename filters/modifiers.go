package filters

import (
	"github.com/abstract-base-method/belgraph"
)

// HasModifier reports whether the node at ref carries modifier on any of its
// edges. An object qualifier describes the edge's target, so it is checked on
// in-edges; a subject qualifier describes the source and is checked on
// out-edges.
func HasModifier(g belgraph.Graph, ref belgraph.NodeRef, modifier belgraph.Modifier) (bool, error) {
	in, err := g.InEdges(ref)
	if err != nil {
		return false, err
	}
	for _, edge := range in {
		if edge.Object != nil && edge.Object.Modifier == modifier {
			return true, nil
		}
	}

	out, err := g.OutEdges(ref)
	if err != nil {
		return false, err
	}
	for _, edge := range out {
		if edge.Subject != nil && edge.Subject.Modifier == modifier {
			return true, nil
		}
	}

	return false, nil
}

func modifierPredicate(modifier belgraph.Modifier) GraphPredicate {
	return func(g belgraph.Graph, ref belgraph.NodeRef) (bool, error) {
		return HasModifier(g, ref, modifier)
	}
}

var (
	HasActivity = modifierPredicate(belgraph.ActivityModifier)
	IsDegraded  = modifierPredicate(belgraph.DegradationModifier)
	// IsTranslocated also matches secretion and cell surface expression,
	// which are translocations.
	IsTranslocated = modifierPredicate(belgraph.TranslocationModifier)
)

// HasCausalInEdges is true when any in-edge of the node has a causal relation.
var HasCausalInEdges = GraphPredicate(func(g belgraph.Graph, ref belgraph.NodeRef) (bool, error) {
	edges, err := g.InEdges(ref)
	if err != nil {
		return false, err
	}
	return anyCausal(edges), nil
})

// HasCausalOutEdges is true when any out-edge of the node has a causal relation.
var HasCausalOutEdges = GraphPredicate(func(g belgraph.Graph, ref belgraph.NodeRef) (bool, error) {
	edges, err := g.OutEdges(ref)
	if err != nil {
		return false, err
	}
	return anyCausal(edges), nil
})

func anyCausal(edges []belgraph.Edge) bool {
	for _, edge := range edges {
		if edge.Relation.IsCausal() {
			return true
		}
	}
	return false
}
