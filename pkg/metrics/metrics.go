// Package metrics provides the centralized Prometheus registry reference
// for the catalog service. All metrics are defined in their respective
// packages (catalog, cache, store) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the catalog service.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - catalog_cache_hits_total{layer="memory"} (Counter): Cache hits by layer
//   - catalog_cache_misses_total (Counter): Cache misses
//   - catalog_cache_entries (Gauge): Live cache entries
//   - catalog_cache_size_bytes{layer="memory"} (Gauge): Stored bytes
//   - catalog_cache_deletes_total (Counter): Invalidation deletes
//
// Service Metrics (pkg/catalog):
//   - catalog_ops_total{op, outcome} (Counter): Operations by name and outcome
//   - catalog_op_duration_seconds{op} (Histogram): Operation duration
//   - catalog_errors_total{kind} (Counter): Errors by kind
//     (validation, not_found, upload, store)
//
// Store Metrics (pkg/store):
//   - catalog_store_retries_total{error_class} (Counter): Retry attempts
//   - catalog_store_retry_backoff_seconds{error_class} (Histogram): Backoff duration
//   - catalog_store_retry_exhausted_total{error_class} (Counter): Exhausted retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(catalog_cache_hits_total[5m])) /
//   (sum(rate(catalog_cache_hits_total[5m])) + sum(rate(catalog_cache_misses_total[5m])))
//
//   # Validation Error Rate
//   rate(catalog_errors_total{kind="validation"}[5m])
//
//   # P95 Operation Latency
//   histogram_quantile(0.95, rate(catalog_op_duration_seconds_bucket[5m]))
//
//   # Store Retry Pressure
//   rate(catalog_store_retries_total[5m])
