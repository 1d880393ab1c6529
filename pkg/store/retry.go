package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for store retry operations.
var (
	storeRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_store_retries_total",
		Help: "Total number of store retry attempts by error class",
	}, []string{"error_class"})

	storeRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_store_retry_backoff_seconds",
		Help:    "Backoff duration for store retries by error class",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"error_class"})

	storeRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_store_retry_exhausted_total",
		Help: "Total number of times store retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// ErrRetryExhausted is returned when all retry attempts are exhausted.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// ErrorClass represents a classification of store errors.
type ErrorClass string

const (
	// ErrorClassNotFound represents a missing document. Never retried.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassCancelled represents context cancellation. Never retried.
	ErrorClassCancelled ErrorClass = "cancelled"

	// ErrorClassTransient represents connectivity and server failures.
	ErrorClassTransient ErrorClass = "transient"
)

// classifyError categorizes a store error for retry handling and metrics.
func classifyError(err error) ErrorClass {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrorClassNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorClassCancelled
	default:
		return ErrorClassTransient
	}
}

// shouldRetry determines if an error class is worth retrying.
func shouldRetry(class ErrorClass) bool {
	return class == ErrorClassTransient
}

// RetryConfig holds the configuration for store retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int

	// InitialBackoff is the initial backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// retryWithBackoff executes fn with exponential backoff on transient
// failures. Not-Found and cancellation return immediately. Jitter (±20%)
// is added to each backoff to prevent thundering herd.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				log.Info().
					Int("attempt", attempt).
					Msg("Store operation succeeded after retry")
			}
			return nil
		}

		lastErr = err
		class := classifyError(err)

		if !shouldRetry(class) {
			return lastErr
		}

		if attempt >= cfg.MaxAttempts {
			break
		}

		storeRetriesTotal.WithLabelValues(string(class)).Inc()

		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		storeRetryBackoffSeconds.WithLabelValues(string(class)).Observe(jitter.Seconds())

		log.Debug().
			Str("error_class", string(class)).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying store operation after backoff")

		select {
		case <-ctx.Done():
			return fmt.Errorf("store retry cancelled: %w", ctx.Err())
		case <-time.After(jitter):
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	storeRetryExhaustedTotal.WithLabelValues(string(ErrorClassTransient)).Inc()
	log.Warn().
		Int("max_attempts", cfg.MaxAttempts).
		Msg("Store retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, cfg.MaxAttempts, lastErr)
}
