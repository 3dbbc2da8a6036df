package tasks

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("taskboard/tasks")

var (
	storeMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskboard",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Task store mutations by operation and result",
		},
		[]string{"op", "result"},
	)

	storeTasks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "taskboard",
			Subsystem: "store",
			Name:      "tasks",
			Help:      "Number of tasks currently held by the store",
		},
	)
)

func init() {
	prometheus.MustRegister(storeMutations, storeTasks)
}

func observeMutation(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrTitleRequired):
		result = "invalid"
	default:
		result = "error"
	}
	storeMutations.WithLabelValues(op, result).Inc()
}
