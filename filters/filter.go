package filters

import (
	"errors"
	"time"

	"github.com/abstract-base-method/belgraph"
	"github.com/abstract-base-method/belgraph/metrics"
	"github.com/charmbracelet/log"
)

// FilterNodes returns the nodes of g, in graph order, that pass every
// predicate. With no predicates every node is kept. The first predicate error
// aborts the run.
func FilterNodes(g belgraph.Graph, predicates ...Predicate) ([]belgraph.Node, error) {
	start := time.Now()
	defer func() {
		metrics.FilterDuration.Observe(time.Since(start).Seconds())
	}()

	nodes, err := g.Nodes()
	if err != nil {
		metrics.FilterErrors.WithLabelValues("graph").Inc()
		return nil, err
	}

	kept := make([]belgraph.Node, 0, len(nodes))
	for _, node := range nodes {
		metrics.NodesEvaluated.Inc()
		ok, err := evaluateAll(predicates, InGraph(g, node.Ref))
		if err != nil {
			metrics.FilterErrors.WithLabelValues(errorReason(err)).Inc()
			log.Error("node filter aborted", "node", node.Ref, "error", err)
			return nil, err
		}
		if ok {
			metrics.NodesKept.Inc()
			kept = append(kept, node)
		}
	}

	log.Debugf("kept %d of %d nodes", len(kept), len(nodes))
	return kept, nil
}

// CountNodes returns how many nodes of g pass every predicate.
func CountNodes(g belgraph.Graph, predicates ...Predicate) (int, error) {
	nodes, err := FilterNodes(g, predicates...)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

func evaluateAll(predicates []Predicate, in Input) (bool, error) {
	for _, p := range predicates {
		ok, err := p.Evaluate(in)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, belgraph.ErrNodeNotFound):
		return "node_not_found"
	case errors.Is(err, belgraph.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "other"
	}
}

// Not inverts p. Errors are passed through.
func Not(p Predicate) PredicateFunc {
	return func(in Input) (bool, error) {
		ok, err := p.Evaluate(in)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

// And is true when every predicate is. It stops at the first false or error.
func And(predicates ...Predicate) PredicateFunc {
	return func(in Input) (bool, error) {
		return evaluateAll(predicates, in)
	}
}

// Or is true when any predicate is. It stops at the first true or error.
func Or(predicates ...Predicate) PredicateFunc {
	return func(in Input) (bool, error) {
		for _, p := range predicates {
			ok, err := p.Evaluate(in)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}
