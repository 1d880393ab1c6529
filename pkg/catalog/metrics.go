package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_ops_total",
		Help: "Total catalog operations by operation and outcome",
	}, []string{"op", "outcome"})

	catalogOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_op_duration_seconds",
		Help:    "Catalog operation duration in seconds by operation",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	}, []string{"op"})

	catalogErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_errors_total",
		Help: "Total catalog errors by kind",
	}, []string{"kind"})
)

// observeOp records the outcome and duration metrics of one operation.
func observeOp(op string, seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if kind := ErrorKind(err); kind != "" {
			catalogErrorsTotal.WithLabelValues(string(kind)).Inc()
		}
	}
	catalogOpsTotal.WithLabelValues(op, outcome).Inc()
	catalogOpDuration.WithLabelValues(op).Observe(seconds)
}
