package graphfile

import (
	"strings"
	"testing"

	"github.com/abstract-base-method/belgraph"
	"github.com/abstract-base-method/belgraph/filters"
	"github.com/abstract-base-method/belgraph/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	g := memory.NewGraph()

	result, err := LoadFile("testdata/cortisol.yaml", g)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Nodes)
	assert.Equal(t, 3, result.Edges)

	braf := belgraph.NewProtein("HGNC", "BRAF", belgraph.ProteinMod("Ph"), belgraph.HGVSVariant("p.Val600Glu"))
	assert.Equal(t, braf.CanonicalRef(), result.Refs["braf"])

	node, err := g.RetrieveNode(result.Refs["cortisol"])
	require.NoError(t, err)
	assert.Equal(t, "17650", node.Data.Identifier)

	in, err := g.InEdges(result.Refs["cortisol"])
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, belgraph.DegradationModifier, in[0].Object.Modifier)
	assert.Equal(t, "9606", in[0].Annotations["Species"])

	translocated, err := filters.FilterNodes(g, filters.IsTranslocated)
	require.NoError(t, err)
	require.Len(t, translocated, 1)
	assert.Equal(t, result.Refs["cxcl1"], translocated[0].Ref)

	active, err := filters.FilterNodes(g, filters.HasActivity)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, result.Refs["hsd11b1"], active[0].Ref)
}

func TestLoadJSON(t *testing.T) {
	g := memory.NewGraph()
	doc := `{"nodes": [` +
		`{"id": "a", "function": "Gene", "namespace": "HGNC", "name": "BRAF", "variants": [{"kind": "gmod", "name": "Me"}]}, ` +
		`{"id": "b", "function": "Protein", "namespace": "HGNC", "name": "BRAF"}` +
		`], "edges": [{"source": "a", "target": "b", "relation": "translatedTo"}]}`

	result, err := Load(strings.NewReader(doc), g)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Nodes)

	ok, err := filters.ApplyInGraph(filters.HasGeneModification, g, result.Refs["a"])
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = filters.ApplyInGraph(filters.HasCausalOutEdges, g, result.Refs["a"])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadEmptyDocument(t *testing.T) {
	result, err := Load(strings.NewReader(""), memory.NewGraph())
	require.NoError(t, err)
	assert.Zero(t, result.Nodes)
}

func TestLoadErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown field":    "nodes:\n  - id: a\n    function: Protein\n    colour: red\n",
		"missing function": "nodes:\n  - id: a\n    name: BRAF\n",
		"duplicate id":     "nodes:\n  - {id: a, function: Protein, name: A}\n  - {id: a, function: Gene, name: A}\n",
		"dangling edge":    "nodes:\n  - {id: a, function: Protein, name: A}\nedges:\n  - {source: a, target: b, relation: increases}\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc), memory.NewGraph())
			assert.Error(t, err)
		})
	}

	_, err := Load(strings.NewReader("nodes:\n  - {id: a, name: A}\n"), memory.NewGraph())
	require.ErrorIs(t, err, belgraph.ErrInvalidArgument)
}
