// Package memory is an in-process belgraph.Graph. Nodes are returned in
// insertion order and edges in the order they were stored.
package memory

import (
	"fmt"
	"sync"

	"github.com/abstract-base-method/belgraph"
	"github.com/charmbracelet/log"
	"github.com/tidwall/btree"
)

type entry struct {
	seq  uint64
	node belgraph.Node
	in   []belgraph.Edge
	out  []belgraph.Edge
}

type Graph struct {
	mu    sync.RWMutex
	seq   uint64
	index map[belgraph.NodeRef]*entry
	order btree.Map[uint64, belgraph.NodeRef]
}

func NewGraph() *Graph {
	return &Graph{
		index: make(map[belgraph.NodeRef]*entry),
	}
}

var _ belgraph.Graph = (*Graph)(nil)

func (g *Graph) StoreNode(node belgraph.Node) (identifier string, result bool, err error) {
	node, err = node.Normalize()
	if err != nil {
		return "", false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.index[node.Ref]; ok {
		log.Debugf("updating node %s", node.Ref)
		existing.node = node
		return string(node.Ref), true, nil
	}

	log.Debugf("creating node %s", node.Ref)
	g.seq++
	g.index[node.Ref] = &entry{seq: g.seq, node: node}
	g.order.Set(g.seq, node.Ref)
	return string(node.Ref), false, nil
}

// StoreEdge adds edge between two stored nodes. Storing an identical edge again
// replaces it and reports an update.
func (g *Graph) StoreEdge(edge belgraph.Edge) (identifier string, result bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	source, err := g.lookup(edge.Source)
	if err != nil {
		return "", false, err
	}
	target, err := g.lookup(edge.Target)
	if err != nil {
		return "", false, err
	}

	key := edge.Key()
	var updated bool
	source.out, updated = upsertEdge(source.out, key, edge)
	target.in, _ = upsertEdge(target.in, key, edge)

	if updated {
		log.Debugf("updating edge %s", key)
	} else {
		log.Debugf("created edge %s", key)
	}
	return key, updated, nil
}

func upsertEdge(edges []belgraph.Edge, key string, edge belgraph.Edge) ([]belgraph.Edge, bool) {
	for i := range edges {
		if edges[i].Key() == key {
			edges[i] = edge
			return edges, true
		}
	}
	return append(edges, edge), false
}

func (g *Graph) RetrieveNode(ref belgraph.NodeRef) (*belgraph.Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, err := g.lookup(ref)
	if err != nil {
		return nil, err
	}
	node := e.node
	return &node, nil
}

// DeleteNode removes the node and every edge incident to it.
func (g *Graph) DeleteNode(ref belgraph.NodeRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, err := g.lookup(ref)
	if err != nil {
		return err
	}

	for _, edge := range e.out {
		if target, ok := g.index[edge.Target]; ok && edge.Target != ref {
			target.in = removeEdges(target.in, ref, edge.Target)
		}
	}
	for _, edge := range e.in {
		if source, ok := g.index[edge.Source]; ok && edge.Source != ref {
			source.out = removeEdges(source.out, edge.Source, ref)
		}
	}

	g.order.Delete(e.seq)
	delete(g.index, ref)
	log.Debugf("deleted node %s", ref)
	return nil
}

// DeleteEdge removes every edge from source to target.
func (g *Graph) DeleteEdge(source belgraph.NodeRef, target belgraph.NodeRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.lookup(source)
	if err != nil {
		return err
	}
	t, err := g.lookup(target)
	if err != nil {
		return err
	}
	s.out = removeEdges(s.out, source, target)
	t.in = removeEdges(t.in, source, target)
	return nil
}

func removeEdges(edges []belgraph.Edge, source, target belgraph.NodeRef) []belgraph.Edge {
	kept := edges[:0]
	for _, edge := range edges {
		if edge.Source == source && edge.Target == target {
			continue
		}
		kept = append(kept, edge)
	}
	return kept
}

func (g *Graph) Nodes() ([]belgraph.Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]belgraph.Node, 0, g.order.Len())
	g.order.Scan(func(_ uint64, ref belgraph.NodeRef) bool {
		nodes = append(nodes, g.index[ref].node)
		return true
	})
	return nodes, nil
}

func (g *Graph) InEdges(ref belgraph.NodeRef) ([]belgraph.Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, err := g.lookup(ref)
	if err != nil {
		return nil, err
	}
	return append([]belgraph.Edge(nil), e.in...), nil
}

func (g *Graph) OutEdges(ref belgraph.NodeRef) ([]belgraph.Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, err := g.lookup(ref)
	if err != nil {
		return nil, err
	}
	return append([]belgraph.Edge(nil), e.out...), nil
}

// RelatedEdges returns the out-edges of ref followed by its in-edges.
func (g *Graph) RelatedEdges(ref belgraph.NodeRef) ([]belgraph.Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, err := g.lookup(ref)
	if err != nil {
		return nil, err
	}
	related := make([]belgraph.Edge, 0, len(e.out)+len(e.in))
	related = append(related, e.out...)
	return append(related, e.in...), nil
}

func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.index)
}

func (g *Graph) lookup(ref belgraph.NodeRef) (*entry, error) {
	e, ok := g.index[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", belgraph.ErrNodeNotFound, ref)
	}
	return e, nil
}
