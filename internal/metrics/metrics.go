// Package metrics - prometheus-метрики сервиса.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orion"

var (
	// Labels: operation (query, mutation, subscription), status (ok, error)
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "graphql",
		Name:      "operations_total",
		Help:      "Total GraphQL operations by type and outcome",
	}, []string{"operation", "status"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "graphql",
		Name:      "operation_duration_seconds",
		Help:      "GraphQL operation execution time in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"operation"})

	// Labels: kind (create_post, delete_comment, ...)
	storeMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "mutations_total",
		Help:      "Total store mutations by kind",
	}, []string{"kind"})

	// Labels: counter (post.likeCount, comment.likeCount, ...)
	counterClamps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "counter_clamps_total",
		Help:      "Denormalized counter decrements clamped at zero",
	}, []string{"counter"})
)

// ObserveOperation учитывает выполненную GraphQL-операцию.
func ObserveOperation(operation string, failed bool, elapsed time.Duration) {
	status := "ok"
	if failed {
		status = "error"
	}
	operationsTotal.WithLabelValues(operation, status).Inc()
	operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func StoreMutation(kind string) {
	storeMutations.WithLabelValues(kind).Inc()
}

func CounterClamped(counter string) {
	counterClamps.WithLabelValues(counter).Inc()
}
