package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Global collector instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Event store metrics
	EventsAppended  *prometheus.CounterVec
	ProjectionFolds *prometheus.CounterVec
	AppendErrors    prometheus.Counter

	// Rebuild metrics
	RebuildsTotal   prometheus.Counter
	RebuildedEvents prometheus.Counter
}

// NewCollector creates the metrics collector with the given namespace.
// A singleton avoids duplicate registration in tests.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	eventsAppended := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_appended_total",
			Help:      "Domain events appended to the log, by event type",
		},
		[]string{"type"},
	)
	projectionFolds := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_folds_total",
			Help:      "Projection fold operations, by event type",
		},
		[]string{"type"},
	)
	appendErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_append_errors_total",
			Help:      "Failed event append attempts",
		},
	)
	rebuildsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_rebuilds_total",
			Help:      "Projection rebuilds performed",
		},
	)
	rebuiltEvents := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_rebuild_events_total",
			Help:      "Events replayed during projection rebuilds",
		},
	)

	registry.MustRegister(httpRequests, httpDuration, eventsAppended,
		projectionFolds, appendErrors, rebuildsTotal, rebuiltEvents)

	globalCollector = &Collector{
		registry:        registry,
		HTTPRequests:    httpRequests,
		HTTPDuration:    httpDuration,
		EventsAppended:  eventsAppended,
		ProjectionFolds: projectionFolds,
		AppendErrors:    appendErrors,
		RebuildsTotal:   rebuildsTotal,
		RebuildedEvents: rebuiltEvents,
	}
	return globalCollector
}

// Registry returns the collector's Prometheus registry for the /metrics
// endpoint
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
