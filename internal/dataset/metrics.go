package dataset

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "growlab_dataset_loads_total",
		Help: "Number of successful dataset loads from disk.",
	})
	datasetHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "growlab_dataset_cache_hits_total",
		Help: "Number of snapshot requests served from the cache.",
	})
	datasetFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "growlab_dataset_load_failures_total",
		Help: "Number of dataset loads that failed.",
	})
	datasetInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "growlab_dataset_invalidations_total",
		Help: "Number of explicit cache invalidations.",
	})
)
