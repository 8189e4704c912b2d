package belgraph

import (
	"fmt"
	"github.com/google/uuid"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Function is the BEL function of a node.
type Function string

const (
	Abundance         Function = "Abundance"
	BiologicalProcess Function = "BiologicalProcess"
	Complex           Function = "Complex"
	Composite         Function = "Composite"
	Gene              Function = "Gene"
	MicroRNA          Function = "miRNA"
	Pathology         Function = "Pathology"
	Protein           Function = "Protein"
	Reaction          Function = "Reaction"
	RNA               Function = "RNA"
)

var functionPrefixes = map[Function]string{
	Abundance:         "a",
	BiologicalProcess: "bp",
	Complex:           "complex",
	Composite:         "composite",
	Gene:              "g",
	MicroRNA:          "m",
	Pathology:         "path",
	Protein:           "p",
	Reaction:          "rxn",
	RNA:               "r",
}

// VariantKind tags a Variant.
type VariantKind string

const (
	ProteinModification VariantKind = "pmod"
	GeneModification    VariantKind = "gmod"
	HGVS                VariantKind = "hgvs"
	Fragment            VariantKind = "frag"
)

// Variant is a molecular modification carried by a node. Which fields are
// meaningful depends on Kind.
type Variant struct {
	Kind VariantKind `json:"kind" yaml:"kind"`

	// pmod and gmod
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Code      string `json:"code,omitempty" yaml:"code,omitempty"`
	Position  int    `json:"pos,omitempty" yaml:"pos,omitempty"`

	// hgvs
	HGVS string `json:"hgvs,omitempty" yaml:"hgvs,omitempty"`

	// frag
	Start       string `json:"start,omitempty" yaml:"start,omitempty"`
	Stop        string `json:"stop,omitempty" yaml:"stop,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func ProteinMod(name string) Variant {
	return Variant{Kind: ProteinModification, Name: name}
}

func GeneMod(name string) Variant {
	return Variant{Kind: GeneModification, Name: name}
}

func HGVSVariant(hgvs string) Variant {
	return Variant{Kind: HGVS, HGVS: hgvs}
}

func FragmentOf(start, stop string) Variant {
	return Variant{Kind: Fragment, Start: start, Stop: stop}
}

func (v Variant) String() string {
	switch v.Kind {
	case ProteinModification, GeneModification:
		parts := []string{qualifiedName(v.Namespace, v.Name, "")}
		if v.Code != "" {
			parts = append(parts, v.Code)
		}
		if v.Position != 0 {
			parts = append(parts, strconv.Itoa(v.Position))
		}
		return fmt.Sprintf("%s(%s)", v.Kind, strings.Join(parts, ", "))
	case HGVS:
		return fmt.Sprintf("var(%s)", strconv.Quote(v.HGVS))
	case Fragment:
		span := "?"
		if v.Start != "" || v.Stop != "" {
			span = v.Start + "_" + v.Stop
		}
		if v.Description != "" {
			return fmt.Sprintf("frag(%s, %s)", strconv.Quote(span), strconv.Quote(v.Description))
		}
		return fmt.Sprintf("frag(%s)", strconv.Quote(span))
	default:
		return fmt.Sprintf("%s()", v.Kind)
	}
}

// NodeData is the attribute record of a node. Variants is nil when the node
// carries no variants key; a non-nil slice, even an empty one, means present.
type NodeData struct {
	Function   Function  `json:"function" yaml:"function"`
	Namespace  string    `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name       string    `json:"name,omitempty" yaml:"name,omitempty"`
	Identifier string    `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Variants   []Variant `json:"variants" yaml:"variants,omitempty"`
}

func NewProtein(namespace, name string, variants ...Variant) NodeData {
	return newNodeData(Protein, namespace, name, variants)
}

func NewGene(namespace, name string, variants ...Variant) NodeData {
	return newNodeData(Gene, namespace, name, variants)
}

func NewAbundance(namespace, name string) NodeData {
	return newNodeData(Abundance, namespace, name, nil)
}

func NewPathology(namespace, name string) NodeData {
	return newNodeData(Pathology, namespace, name, nil)
}

func newNodeData(fn Function, namespace, name string, variants []Variant) NodeData {
	data := NodeData{Function: fn, Namespace: namespace, Name: name}
	if len(variants) > 0 {
		data.Variants = variants
	}
	return data
}

// WithIdentifier returns a copy of d carrying the given database identifier.
func (d NodeData) WithIdentifier(identifier string) NodeData {
	d.Identifier = identifier
	return d
}

// HasVariants reports whether the variants key is present.
func (d NodeData) HasVariants() bool {
	return d.Variants != nil
}

// String renders d as a BEL term. Variants are sorted, so two records that
// differ only in variant order render identically.
func (d NodeData) String() string {
	prefix, ok := functionPrefixes[d.Function]
	if !ok {
		prefix = strings.ToLower(string(d.Function))
	}

	args := make([]string, 0, 1+len(d.Variants))
	if term := qualifiedName(d.Namespace, d.Name, d.Identifier); term != "" {
		args = append(args, term)
	}

	variants := make([]string, 0, len(d.Variants))
	for _, v := range d.Variants {
		variants = append(variants, v.String())
	}
	sort.Strings(variants)

	return fmt.Sprintf("%s(%s)", prefix, strings.Join(append(args, variants...), ", "))
}

// CanonicalRef implements Canonical.
func (d NodeData) CanonicalRef() NodeRef {
	return Canonicalize(d)
}

func qualifiedName(namespace, name, identifier string) string {
	var b strings.Builder
	if namespace != "" {
		b.WriteString(namespace)
		b.WriteByte(':')
	}
	switch {
	case identifier != "" && name != "":
		b.WriteString(quoteIfNeeded(identifier))
		b.WriteString(" ! ")
		b.WriteString(quoteIfNeeded(name))
	case identifier != "":
		b.WriteString(quoteIfNeeded(identifier))
	default:
		b.WriteString(quoteIfNeeded(name))
	}
	return b.String()
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return s
	}
	for _, r := range s {
		switch {
		case r == '_', r == '.', r == '-':
		case unicode.IsLetter(r), unicode.IsDigit(r):
		default:
			return strconv.Quote(s)
		}
	}
	return s
}

// NodeRef is the canonical identifier of a node within a graph.
type NodeRef string

func (r NodeRef) String() string {
	return string(r)
}

// CanonicalRef implements Canonical. A redis-style "node:" key prefix is
// dropped; otherwise a reference is already canonical.
func (r NodeRef) CanonicalRef() NodeRef {
	return trimNodeKey(r)
}

// Canonical is implemented by anything that can name a node: NodeData and
// NodeRef.
type Canonical interface {
	CanonicalRef() NodeRef
}

var nodeNamespace = uuid.MustParse("9b3c6f0e-4d7a-5e21-8c4f-0a1b2c3d4e5f")

// Canonicalize derives the reference of a node from its data. It is total and
// deterministic.
func Canonicalize(data NodeData) NodeRef {
	return NodeRef(uuid.NewSHA1(nodeNamespace, []byte(data.canonicalKey())).String())
}

// canonicalKey is the BEL rendering, tagged when the term is an identifier
// alone so that it cannot collide with a name of the same text.
func (d NodeData) canonicalKey() string {
	key := d.String()
	if d.Name == "" && d.Identifier != "" {
		key += "#id"
	}
	return key
}

type Node struct {
	Ref  NodeRef  `json:"ref"`
	Data NodeData `json:"data"`
}

func NewNode(data NodeData) Node {
	return Node{
		Ref:  Canonicalize(data),
		Data: data,
	}
}

// Normalize fills in a missing Ref and checks a given one against Data.
// Stores call it so every stored reference is canonical.
func (n Node) Normalize() (Node, error) {
	want := Canonicalize(n.Data)
	if ref := trimNodeKey(n.Ref); ref != "" && ref != want {
		return n, fmt.Errorf("%w: ref %s is not the canonical ref %s of %s", ErrInvalidArgument, n.Ref, want, n.Data)
	}
	n.Ref = want
	return n, nil
}

func (n Node) String() string {
	return n.Data.String()
}

func trimNodeKey(ref NodeRef) NodeRef {
	return NodeRef(strings.TrimPrefix(string(ref), "node:"))
}
