// Package graphfile imports graph documents into a belgraph.Store.
//
// A document lists nodes with a local id and edges between those ids:
//
//	nodes:
//	  - id: hsd11b1
//	    function: Protein
//	    namespace: HGNC
//	    name: HSD11B1
//	edges:
//	  - source: hsd11b1
//	    target: cortisol
//	    relation: increases
//	    subject: {modifier: Activity, effect: {namespace: bel, name: cat}}
//
// JSON documents are accepted too.
package graphfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abstract-base-method/belgraph"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

type Document struct {
	Nodes []NodeEntry `yaml:"nodes"`
	Edges []EdgeEntry `yaml:"edges"`
}

type NodeEntry struct {
	ID                string `yaml:"id"`
	belgraph.NodeData `yaml:",inline"`
}

type EdgeEntry struct {
	Source      string              `yaml:"source"`
	Target      string              `yaml:"target"`
	Relation    belgraph.Relation   `yaml:"relation"`
	Subject     *belgraph.Qualifier `yaml:"subject,omitempty"`
	Object      *belgraph.Qualifier `yaml:"object,omitempty"`
	Citation    string              `yaml:"citation,omitempty"`
	Evidence    string              `yaml:"evidence,omitempty"`
	Annotations map[string]string   `yaml:"annotations,omitempty"`
}

// Result maps each document id to the canonical reference it was stored
// under.
type Result struct {
	Refs  map[string]belgraph.NodeRef
	Nodes int
	Edges int
}

func Decode(r io.Reader) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("decode graph document: %w", err)
	}
	return &doc, nil
}

// Load decodes a document from r and stores it.
func Load(r io.Reader, store belgraph.Store) (*Result, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return doc.StoreInto(store)
}

func LoadFile(path string, store belgraph.Store) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	result, err := Load(file, store)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info("loaded graph", "path", path, "nodes", result.Nodes, "edges", result.Edges)
	return result, nil
}

// StoreInto writes the nodes, then the edges, of doc. Edge endpoints name a
// document id or, failing that, a node reference already in the store.
func (doc *Document) StoreInto(store belgraph.Store) (*Result, error) {
	result := &Result{Refs: make(map[string]belgraph.NodeRef, len(doc.Nodes))}

	for i, entry := range doc.Nodes {
		if entry.Function == "" {
			return nil, fmt.Errorf("node %d (%q): %w: missing function", i, entry.ID, belgraph.ErrInvalidArgument)
		}
		node := belgraph.NewNode(entry.NodeData)
		if _, _, err := store.StoreNode(node); err != nil {
			return nil, fmt.Errorf("store node %q: %w", entry.ID, err)
		}
		if entry.ID != "" {
			if _, dup := result.Refs[entry.ID]; dup {
				return nil, fmt.Errorf("duplicate node id %q", entry.ID)
			}
			result.Refs[entry.ID] = node.Ref
		}
		result.Nodes++
	}

	for i, entry := range doc.Edges {
		edge := belgraph.NewEdge(result.resolve(entry.Source), result.resolve(entry.Target), entry.Relation).
			WithSubject(entry.Subject).
			WithObject(entry.Object).
			WithEvidence(entry.Citation, entry.Evidence).
			WithAnnotations(entry.Annotations)
		if _, _, err := store.StoreEdge(edge); err != nil {
			return nil, fmt.Errorf("store edge %d (%s -> %s): %w", i, entry.Source, entry.Target, err)
		}
		result.Edges++
	}

	return result, nil
}

func (r *Result) resolve(id string) belgraph.NodeRef {
	if ref, ok := r.Refs[id]; ok {
		return ref
	}
	return belgraph.NodeRef(id)
}
