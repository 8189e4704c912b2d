package filters

import (
	"github.com/abstract-base-method/belgraph"
)

// KeepNodePermissive is the identity filter. Applying it to a graph's nodes
// keeps every node in order.
var KeepNodePermissive = PredicateFunc(func(Input) (bool, error) {
	return true, nil
})

var (
	IsAbundance = Adapt(func(data belgraph.NodeData) bool {
		return data.Function == belgraph.Abundance
	})

	IsGene = Adapt(func(data belgraph.NodeData) bool {
		return data.Function == belgraph.Gene
	})

	IsProtein = Adapt(func(data belgraph.NodeData) bool {
		return data.Function == belgraph.Protein
	})

	IsPathology = Adapt(func(data belgraph.NodeData) bool {
		return data.Function == belgraph.Pathology
	})

	NotPathology = Adapt(func(data belgraph.NodeData) bool {
		return data.Function != belgraph.Pathology
	})

	// HasVariant is true when the variants key is present, whatever it holds.
	HasVariant = Adapt(func(data belgraph.NodeData) bool {
		return data.HasVariants()
	})

	HasProteinModification = Adapt(func(data belgraph.NodeData) bool {
		return nodeHasVariant(data, belgraph.ProteinModification)
	})

	HasGeneModification = Adapt(func(data belgraph.NodeData) bool {
		return nodeHasVariant(data, belgraph.GeneModification)
	})

	HasHGVS = Adapt(func(data belgraph.NodeData) bool {
		return nodeHasVariant(data, belgraph.HGVS)
	})

	HasFragment = Adapt(func(data belgraph.NodeData) bool {
		return nodeHasVariant(data, belgraph.Fragment)
	})
)

func nodeHasVariant(data belgraph.NodeData, kind belgraph.VariantKind) bool {
	if !data.HasVariants() {
		return false
	}
	for _, v := range data.Variants {
		if v.Kind == kind {
			return true
		}
	}
	return false
}
