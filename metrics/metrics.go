package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NodesEvaluated counts nodes run through a filter.
	NodesEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "belgraph_filter_nodes_evaluated_total",
			Help: "Total number of nodes evaluated by node filters",
		},
	)

	// NodesKept counts nodes that passed every predicate of a filter.
	NodesKept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "belgraph_filter_nodes_kept_total",
			Help: "Total number of nodes kept by node filters",
		},
	)

	// FilterErrors counts filter runs aborted by a predicate error, labeled by
	// error class.
	FilterErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "belgraph_filter_errors_total",
			Help: "Total number of node filter runs aborted by an error",
		},
		[]string{"reason"},
	)

	FilterDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "belgraph_filter_duration_seconds",
			Help:    "Duration of a node filter run over a graph",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)
