package filters

import (
	"github.com/abstract-base-method/belgraph"
)

// ExclusionFilter keeps every node except a fixed set. It is immutable once
// built and safe for concurrent use.
type ExclusionFilter struct {
	excluded map[belgraph.NodeRef]struct{}
	eval     PredicateFunc
}

// NewExclusionFilter captures nodes, given as records or references, as their
// canonical references. An empty set keeps everything.
func NewExclusionFilter(nodes ...belgraph.Canonical) *ExclusionFilter {
	excluded := make(map[belgraph.NodeRef]struct{}, len(nodes))
	for _, node := range nodes {
		excluded[node.CanonicalRef()] = struct{}{}
	}

	f := &ExclusionFilter{excluded: excluded}
	f.eval = Adapt(func(data belgraph.NodeData) bool {
		return !f.Excludes(belgraph.Canonicalize(data))
	})
	return f
}

// Evaluate is true when the node is not in the excluded set. A graph-form
// input is excluded by its own reference as well as by its data.
func (f *ExclusionFilter) Evaluate(in Input) (bool, error) {
	keep, err := f.eval(in)
	if err != nil || !keep {
		return keep, err
	}
	if _, ref, ok := in.Graph(); ok && f.Excludes(ref) {
		return false, nil
	}
	return true, nil
}

func (f *ExclusionFilter) Excludes(ref belgraph.NodeRef) bool {
	_, ok := f.excluded[ref.CanonicalRef()]
	return ok
}

func (f *ExclusionFilter) Len() int {
	return len(f.excluded)
}
