package filters

import (
	"testing"

	"github.com/abstract-base-method/belgraph"
	"github.com/abstract-base-method/belgraph/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	s100b        = belgraph.NewProtein("MGI", "S100b")
	nitricOxide  = belgraph.NewAbundance("CHEBI", "nitric oxide")
	cortisol     = belgraph.NewAbundance("CHEBI", "cortisol").WithIdentifier("17650")
	exclusionSet = []belgraph.NodeData{s100b, nitricOxide, cortisol}
)

func TestNodeExclusionData(t *testing.T) {
	u, v, w := exclusionSet[0], exclusionSet[1], exclusionSet[2]

	f := NewExclusionFilter(u)
	assert.False(t, mustApply(t, f, u))
	assert.True(t, mustApply(t, f, v))
	assert.True(t, mustApply(t, f, w))

	f = NewExclusionFilter(u, v)
	assert.False(t, mustApply(t, f, u))
	assert.False(t, mustApply(t, f, v))
	assert.True(t, mustApply(t, f, w))

	f = NewExclusionFilter()
	assert.True(t, mustApply(t, f, u))
	assert.True(t, mustApply(t, f, v))
	assert.True(t, mustApply(t, f, w))
}

func TestNodeExclusionRefs(t *testing.T) {
	g := memory.NewGraph()
	u := addNode(t, g, s100b)
	v := addNode(t, g, nitricOxide)
	w := addNode(t, g, cortisol)

	f := NewExclusionFilter(u)
	assert.False(t, mustApplyInGraph(t, f, g, u))
	assert.True(t, mustApplyInGraph(t, f, g, v))
	assert.True(t, mustApplyInGraph(t, f, g, w))

	f = NewExclusionFilter(u, v)
	assert.False(t, mustApplyInGraph(t, f, g, u))
	assert.False(t, mustApplyInGraph(t, f, g, v))
	assert.True(t, mustApplyInGraph(t, f, g, w))

	f = NewExclusionFilter()
	assert.True(t, mustApplyInGraph(t, f, g, u))
	assert.True(t, mustApplyInGraph(t, f, g, v))
	assert.True(t, mustApplyInGraph(t, f, g, w))
}

func TestNodeExclusionMixedForms(t *testing.T) {
	g := memory.NewGraph()
	u := addNode(t, g, s100b)
	addNode(t, g, nitricOxide)

	byData := NewExclusionFilter(s100b, s100b)
	byRef := NewExclusionFilter(u)
	mixed := NewExclusionFilter(u, s100b)

	assert.Equal(t, 1, byData.Len())
	assert.Equal(t, 1, mixed.Len())

	for _, f := range []*ExclusionFilter{byData, byRef, mixed} {
		assert.True(t, f.Excludes(u))
		assert.False(t, mustApply(t, f, s100b))
		assert.False(t, mustApplyInGraph(t, f, g, u))
		assert.True(t, mustApply(t, f, nitricOxide))
	}
}

func TestNodeExclusionIgnoresVariantOrder(t *testing.T) {
	a := belgraph.NewProtein("HGNC", "BRAF", belgraph.HGVSVariant("p.Val600Glu"), belgraph.ProteinMod("Ph"))
	b := belgraph.NewProtein("HGNC", "BRAF", belgraph.ProteinMod("Ph"), belgraph.HGVSVariant("p.Val600Glu"))

	f := NewExclusionFilter(a)
	assert.False(t, mustApply(t, f, b))
	assert.True(t, mustApply(t, f, belgraph.NewProtein("HGNC", "BRAF")))
}

// looseGraph serves one record under any reference, like a store that does
// not check references against their data.
type looseGraph struct {
	belgraph.Graph
	data belgraph.NodeData
}

func (g looseGraph) RetrieveNode(ref belgraph.NodeRef) (*belgraph.Node, error) {
	return &belgraph.Node{Ref: ref, Data: g.data}, nil
}

func TestNodeExclusionByGraphRef(t *testing.T) {
	g := looseGraph{data: s100b}

	f := NewExclusionFilter(belgraph.NodeRef("x"))
	assert.False(t, mustApplyInGraph(t, f, g, "x"))
	assert.False(t, mustApplyInGraph(t, f, g, "node:x"))
	assert.True(t, mustApplyInGraph(t, f, g, "y"))

	f = NewExclusionFilter(belgraph.NodeRef("node:x"))
	assert.True(t, f.Excludes("x"))
	assert.False(t, mustApplyInGraph(t, f, g, "x"))
}

func TestNodeExclusionKeyPrefix(t *testing.T) {
	g := memory.NewGraph()
	u := addNode(t, g, s100b)

	f := NewExclusionFilter(belgraph.NodeRef("node:" + string(u)))
	assert.False(t, mustApply(t, f, s100b))
	assert.False(t, mustApplyInGraph(t, f, g, u))
}

func TestNonCanonicalRefIsNotStored(t *testing.T) {
	g := memory.NewGraph()

	_, _, err := g.StoreNode(belgraph.Node{Ref: "x", Data: s100b})
	require.ErrorIs(t, err, belgraph.ErrInvalidArgument)
	assert.Zero(t, g.Len())

	_, err = ApplyInGraph(NewExclusionFilter(belgraph.NodeRef("x")), g, "x")
	require.ErrorIs(t, err, belgraph.ErrNodeNotFound)
}
