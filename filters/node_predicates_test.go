package filters

import (
	"testing"

	"github.com/abstract-base-method/belgraph"
	"github.com/abstract-base-method/belgraph/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	p1 = belgraph.NewProtein("HGNC", "BRAF")
	p2 = belgraph.NewProtein("HGNC", "BRAF", belgraph.HGVSVariant("p.Val600Glu"), belgraph.ProteinMod("Ph"))
	g1 = belgraph.NewGene("HGNC", "BRAF", belgraph.GeneMod("Me"))
)

func mustApply(t *testing.T, p Predicate, data belgraph.NodeData) bool {
	t.Helper()
	ok, err := Apply(p, data)
	require.NoError(t, err)
	return ok
}

func mustApplyInGraph(t *testing.T, p Predicate, g belgraph.Graph, ref belgraph.NodeRef) bool {
	t.Helper()
	ok, err := ApplyInGraph(p, g, ref)
	require.NoError(t, err)
	return ok
}

func addNode(t *testing.T, g belgraph.Graph, data belgraph.NodeData) belgraph.NodeRef {
	t.Helper()
	node := belgraph.NewNode(data)
	_, _, err := g.StoreNode(node)
	require.NoError(t, err)
	return node.Ref
}

func TestKeepNodePermissive(t *testing.T) {
	g := memory.NewGraph()
	ref := addNode(t, g, p1)
	assert.True(t, mustApplyInGraph(t, KeepNodePermissive, g, ref))
}

func TestNodePredicatesOnData(t *testing.T) {
	tests := []struct {
		name     string
		data     belgraph.NodeData
		expected map[string]bool
	}{
		{
			name: "protein without variants",
			data: p1,
			expected: map[string]bool{
				"is-abundance": false, "is-gene": false, "is-protein": true, "is-pathology": false,
				"not-pathology": true, "has-variant": false, "has-protein-modification": false,
				"has-gene-modification": false, "has-hgvs": false, "has-fragment": false,
			},
		},
		{
			name: "protein with hgvs and pmod",
			data: p2,
			expected: map[string]bool{
				"is-abundance": false, "is-gene": false, "is-protein": true, "is-pathology": false,
				"not-pathology": true, "has-variant": true, "has-protein-modification": true,
				"has-gene-modification": false, "has-hgvs": true, "has-fragment": false,
			},
		},
		{
			name: "gene with gmod",
			data: g1,
			expected: map[string]bool{
				"is-abundance": false, "is-gene": true, "is-protein": false, "is-pathology": false,
				"not-pathology": true, "has-variant": true, "has-protein-modification": false,
				"has-gene-modification": true, "has-hgvs": false, "has-fragment": false,
			},
		},
		{
			name: "pathology",
			data: belgraph.NewPathology("MESHD", "Obesity"),
			expected: map[string]bool{
				"is-abundance": false, "is-gene": false, "is-protein": false, "is-pathology": true,
				"not-pathology": false, "has-variant": false,
			},
		},
		{
			name: "protein fragment",
			data: belgraph.NewProtein("HGNC", "APP", belgraph.FragmentOf("672", "713")),
			expected: map[string]bool{
				"has-variant": true, "has-fragment": true, "has-hgvs": false, "has-protein-modification": false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for name, want := range tt.expected {
				p, ok := Lookup(name)
				require.True(t, ok, name)
				assert.Equal(t, want, mustApply(t, p, tt.data), name)
			}
		})
	}
}

func TestNodePredicatesAgreeAcrossForms(t *testing.T) {
	g := memory.NewGraph()
	nodes := []belgraph.NodeData{p1, p2, g1, belgraph.NewAbundance("CHEBI", "cortisol"), belgraph.NewPathology("MESHD", "Obesity")}
	refs := make([]belgraph.NodeRef, len(nodes))
	for i, data := range nodes {
		refs[i] = addNode(t, g, data)
	}

	adapted := []Predicate{
		IsAbundance, IsGene, IsProtein, IsPathology, NotPathology, HasVariant,
		HasProteinModification, HasGeneModification, HasHGVS, HasFragment,
	}
	for _, p := range adapted {
		for i, ref := range refs {
			node, err := g.RetrieveNode(ref)
			require.NoError(t, err)
			assert.Equal(t, mustApply(t, p, node.Data), mustApplyInGraph(t, p, g, ref), nodes[i].String())
		}
	}
}

func TestEmptyVariantsCountAsPresent(t *testing.T) {
	data := belgraph.NodeData{Function: belgraph.Protein, Namespace: "HGNC", Name: "BRAF", Variants: []belgraph.Variant{}}

	assert.True(t, mustApply(t, HasVariant, data))
	assert.False(t, mustApply(t, HasProteinModification, data))
	assert.False(t, mustApply(t, HasHGVS, data))
}
