package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (memory)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of catalog cache hits",
		},
		[]string{"layer"}, // "memory"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of catalog cache misses",
		},
	)

	// CacheEntries tracks the number of live cache entries
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_cache_entries",
			Help: "Current number of catalog cache entries",
		},
	)

	// CacheSize tracks cache size in bytes by layer
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_cache_size_bytes",
			Help: "Current size of the catalog cache in bytes",
		},
		[]string{"layer"}, // "memory"
	)

	// CacheDeletes tracks invalidation deletes that removed a live entry
	CacheDeletes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_deletes_total",
			Help: "Total number of cache entries removed by invalidation",
		},
	)
)
