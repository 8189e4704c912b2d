package belgraph

import (
	"encoding/json"
	"github.com/google/uuid"
)

// Relation is the relation token of an edge.
type Relation string

const (
	Increases           Relation = "increases"
	DirectlyIncreases   Relation = "directlyIncreases"
	Decreases           Relation = "decreases"
	DirectlyDecreases   Relation = "directlyDecreases"
	Regulates           Relation = "regulates"
	RateLimitingStepOf  Relation = "rateLimitingStepOf"
	CausesNoChange      Relation = "causesNoChange"
	PositiveCorrelation Relation = "positiveCorrelation"
	NegativeCorrelation Relation = "negativeCorrelation"
	Association         Relation = "association"
	HasVariant          Relation = "hasVariant"
	HasMember           Relation = "hasMember"
	HasComponent        Relation = "hasComponent"
	TranscribedTo       Relation = "transcribedTo"
	TranslatedTo        Relation = "translatedTo"
	IsA                 Relation = "isA"
)

// RelationSet is a read-only set of relation tokens.
type RelationSet map[Relation]struct{}

func NewRelationSet(relations ...Relation) RelationSet {
	set := make(RelationSet, len(relations))
	for _, r := range relations {
		set[r] = struct{}{}
	}
	return set
}

func (s RelationSet) Contains(r Relation) bool {
	_, ok := s[r]
	return ok
}

// CausalRelations are the relations considered causal.
var CausalRelations = NewRelationSet(
	Increases,
	DirectlyIncreases,
	Decreases,
	DirectlyDecreases,
	Regulates,
)

func (r Relation) IsCausal() bool {
	return CausalRelations.Contains(r)
}

// Modifier describes how a node participates in a statement.
type Modifier string

const (
	ActivityModifier      Modifier = "Activity"
	DegradationModifier   Modifier = "Degradation"
	TranslocationModifier Modifier = "Translocation"
)

// Entity is a namespaced term used for activities and locations.
type Entity struct {
	Namespace  string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
}

func (e Entity) String() string {
	return qualifiedName(e.Namespace, e.Name, e.Identifier)
}

// Qualifier annotates the subject or object side of an edge.
type Qualifier struct {
	Modifier Modifier `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	Effect   *Entity  `json:"effect,omitempty" yaml:"effect,omitempty"`
	Location *Entity  `json:"location,omitempty" yaml:"location,omitempty"`
	FromLoc  *Entity  `json:"fromLoc,omitempty" yaml:"fromLoc,omitempty"`
	ToLoc    *Entity  `json:"toLoc,omitempty" yaml:"toLoc,omitempty"`
}

// Activity qualifies a node by a molecular activity such as "cat" or "kin".
func Activity(name string) *Qualifier {
	q := &Qualifier{Modifier: ActivityModifier}
	if name != "" {
		q.Effect = &Entity{Namespace: "bel", Name: name}
	}
	return q
}

func Degradation() *Qualifier {
	return &Qualifier{Modifier: DegradationModifier}
}

func Translocation(from, to Entity) *Qualifier {
	return &Qualifier{
		Modifier: TranslocationModifier,
		FromLoc:  &from,
		ToLoc:    &to,
	}
}

var (
	IntracellularLocation = Entity{Namespace: "GO", Name: "intracellular", Identifier: "0005622"}
	ExtracellularLocation = Entity{Namespace: "GO", Name: "extracellular space", Identifier: "0005615"}
	CellSurfaceLocation   = Entity{Namespace: "GO", Name: "cell surface", Identifier: "0009986"}
)

// Secretion is a translocation from the intracellular space to the
// extracellular space.
func Secretion() *Qualifier {
	return Translocation(IntracellularLocation, ExtracellularLocation)
}

// CellSurfaceExpression is a translocation from the intracellular space to
// the cell surface.
func CellSurfaceExpression() *Qualifier {
	return Translocation(IntracellularLocation, CellSurfaceLocation)
}

// Edge is a directed statement from Source to Target.
type Edge struct {
	Source      NodeRef           `json:"source"`
	Target      NodeRef           `json:"target"`
	Relation    Relation          `json:"relation"`
	Subject     *Qualifier        `json:"subject,omitempty"`
	Object      *Qualifier        `json:"object,omitempty"`
	Citation    string            `json:"citation,omitempty"`
	Evidence    string            `json:"evidence,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

func NewEdge(source NodeRef, target NodeRef, relation Relation) Edge {
	return Edge{
		Source:   trimNodeKey(source),
		Target:   trimNodeKey(target),
		Relation: relation,
	}
}

func (e Edge) WithSubject(q *Qualifier) Edge {
	e.Subject = q
	return e
}

func (e Edge) WithObject(q *Qualifier) Edge {
	e.Object = q
	return e
}

func (e Edge) WithEvidence(citation, evidence string) Edge {
	e.Citation = citation
	e.Evidence = evidence
	return e
}

func (e Edge) WithAnnotations(annotations map[string]string) Edge {
	e.Annotations = annotations
	return e
}

var edgeNamespace = uuid.MustParse("3e8a1f42-7c65-5b09-9d2e-6f4a0b1c8d73")

// Key identifies the edge by its content; storing the same statement twice
// yields the same key. encoding/json sorts map keys, so the encoding is stable.
func (e Edge) Key() string {
	raw, _ := json.Marshal(e)
	return uuid.NewSHA1(edgeNamespace, raw).String()
}
