package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the application's prometheus collectors
type Collector struct {
	Registry        *prometheus.Registry
	ReminderOps     *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors on a private registry
func New() *Collector {
	registry := prometheus.NewRegistry()

	reminderOps := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aria_reminder_operations_total",
			Help: "Reminder operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(reminderOps, requestsTotal, requestDuration)

	return &Collector{
		Registry:        registry,
		ReminderOps:     reminderOps,
		RequestsTotal:   requestsTotal,
		RequestDuration: requestDuration,
	}
}

// ObserveOperation counts one reminder operation. Safe on a nil Collector.
func (c *Collector) ObserveOperation(operation, outcome string) {
	if c == nil {
		return
	}
	c.ReminderOps.WithLabelValues(operation, outcome).Inc()
}
