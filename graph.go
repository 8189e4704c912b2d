package belgraph

import "errors"

var (
	// ErrNodeNotFound is returned for references that are not in the graph.
	ErrNodeNotFound = errors.New("node not found")
	// ErrInvalidArgument marks a caller contract violation.
	ErrInvalidArgument = errors.New("invalid argument")
)

type Graph interface {
	Store
	Researcher
}

// Store writes a graph. StoreNode returns the node's canonical ref and StoreEdge
// the edge's Key, with result reporting whether an existing entry was
// replaced. StoreNode fails with ErrInvalidArgument when node.Ref is set but
// is not Canonicalize(node.Data).
type Store interface {
	StoreNode(node Node) (identifier string, result bool, err error)
	StoreEdge(edge Edge) (identifier string, result bool, err error)
	RetrieveNode(ref NodeRef) (node *Node, err error)
	DeleteNode(ref NodeRef) (err error)
	DeleteEdge(source NodeRef, target NodeRef) (err error)
}

// Researcher reads the structure of a graph. InEdges and OutEdges fail with
// ErrNodeNotFound when ref is not in the graph. The order of the edges they
// return is defined by the backend and callers must not rely on it.
type Researcher interface {
	Nodes() ([]Node, error)
	InEdges(ref NodeRef) ([]Edge, error)
	OutEdges(ref NodeRef) ([]Edge, error)
	RelatedEdges(ref NodeRef) ([]Edge, error)
}
