package redis

import (
	"fmt"
	"github.com/abstract-base-method/belgraph"
	"github.com/abstract-base-method/belgraph/filters"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"math/rand"
	"testing"
	"time"
)

const NumberOfNodes = 5_000
const NumberOfPotentialStarterRelations = 10
const largeGraphdb = 4

func Benchmark_large_graph_filter(b *testing.B) {
	b.StopTimer()
	if err := clearRedis(largeGraphdb); err != nil {
		b.Skip("redis not available on localhost:6379:", err)
	}
	defer clearRedis(largeGraphdb)

	graph, err := NewRedisGraph(&redis.Options{
		Addr:       "localhost:6379",
		ClientName: "belgraph-benchmark",
		DB:         largeGraphdb,
	})
	if err != nil {
		b.Fatal(err)
	}

	if err := generateData(graph, NumberOfNodes, NumberOfPotentialStarterRelations); err != nil {
		b.Fatal(err)
	}

	// don't count data generation for graph traversal
	b.ResetTimer()
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		startOfWalkTime := time.Now()
		kept, err := filters.FilterNodes(graph, filters.IsProtein, filters.HasActivity)
		if err != nil {
			b.Fatal(err)
		}

		log.Info(
			"graph filter completed",
			"nodesKept",
			len(kept),
			"graphFilterMillis",
			time.Since(startOfWalkTime).Milliseconds(),
		)
	}
}

var functions = []belgraph.Function{belgraph.Protein, belgraph.Gene, belgraph.Abundance, belgraph.Pathology}

var relations = []belgraph.Relation{belgraph.Increases, belgraph.Decreases, belgraph.Association, belgraph.PositiveCorrelation}

var qualifiers = []func() *belgraph.Qualifier{
	func() *belgraph.Qualifier { return nil },
	func() *belgraph.Qualifier { return belgraph.Activity("kin") },
	belgraph.Degradation,
	belgraph.Secretion,
}

func generateData(graph belgraph.Graph, nodeCount int, maxRelationsPerNode int) error {
	log.Info("generating keyspace")

	refs := make([]belgraph.NodeRef, 0, nodeCount)
	for i := 0; i < nodeCount; i++ {
		node := belgraph.NewNode(belgraph.NodeData{
			Function:  functions[rand.Intn(len(functions))],
			Namespace: "SEED",
			Name:      fmt.Sprintf("n%d", i),
		})
		if _, _, err := graph.StoreNode(node); err != nil {
			return err
		}
		refs = append(refs, node.Ref)

		for r := rand.Intn(maxRelationsPerNode); r > 0 && len(refs) > 1; r-- {
			edge := belgraph.NewEdge(node.Ref, refs[rand.Intn(len(refs)-1)], relations[rand.Intn(len(relations))]).
				WithSubject(qualifiers[rand.Intn(len(qualifiers))]()).
				WithObject(qualifiers[rand.Intn(len(qualifiers))]())
			if _, _, err := graph.StoreEdge(edge); err != nil {
				return err
			}
		}
	}

	log.Info("keyspace generation complete")
	return nil
}
