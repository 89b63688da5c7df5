package engine

import (
	"errors"
	"net/http"
	"time"

	"github.com/drummonds/posadmin/lazy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load results reported by LoaderMetrics
const (
	resultOK             = "ok"
	resultShapeError     = "shape_error"
	resultRetrievalError = "retrieval_error"
)

// LoaderMetrics records page module retrievals. It implements lazy.Observer.
type LoaderMetrics struct {
	registry *prometheus.Registry
	loads    *prometheus.CounterVec
	inflight prometheus.Gauge
	duration *prometheus.HistogramVec
}

// NewLoaderMetrics registers the loader collectors on a fresh registry.
func NewLoaderMetrics(namespace string) *LoaderMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &LoaderMetrics{
		registry: reg,
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lazy",
			Name:      "module_loads_total",
			Help:      "Page module retrievals by module and result.",
		}, []string{"module", "result"}),
		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "lazy",
			Name:      "module_loads_in_flight",
			Help:      "Page module retrievals currently running.",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lazy",
			Name:      "module_load_duration_seconds",
			Help:      "Time spent retrieving and validating a page module.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"module"}),
	}
}

// LoadStarted implements lazy.Observer.
func (m *LoaderMetrics) LoadStarted(string) {
	m.inflight.Inc()
}

// LoadFinished implements lazy.Observer.
func (m *LoaderMetrics) LoadFinished(label string, elapsed time.Duration, err error) {
	m.inflight.Dec()
	m.loads.WithLabelValues(label, loadResult(err)).Inc()
	m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// Handler exposes the collected metrics.
func (m *LoaderMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func loadResult(err error) string {
	var shape *lazy.ModuleShapeError
	switch {
	case err == nil:
		return resultOK
	case errors.As(err, &shape):
		return resultShapeError
	default:
		return resultRetrievalError
	}
}
