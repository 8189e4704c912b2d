package filters

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Predicate{
		"keep-node-permissive":     KeepNodePermissive,
		"is-abundance":             IsAbundance,
		"is-gene":                  IsGene,
		"is-protein":               IsProtein,
		"is-pathology":             IsPathology,
		"not-pathology":            NotPathology,
		"has-variant":              HasVariant,
		"has-protein-modification": HasProteinModification,
		"has-gene-modification":    HasGeneModification,
		"has-hgvs":                 HasHGVS,
		"has-fragment":             HasFragment,
		"has-activity":             HasActivity,
		"is-degraded":              IsDegraded,
		"is-translocated":          IsTranslocated,
		"has-causal-in-edges":      HasCausalInEdges,
		"has-causal-out-edges":     HasCausalOutEdges,
	}
)

// Register makes p available under name. Registering a name twice is an error.
func Register(name string, p Predicate) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		return fmt.Errorf("predicate %q already registered", name)
	}
	registry[name] = p
	return nil
}

func Lookup(name string) (Predicate, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[name]
	return p, ok
}

// Names lists the registered predicates in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
