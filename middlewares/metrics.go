package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/frontdoor/internal"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Registry receives the collectors and backs the scrape handler.
	// Default: a new registry per Metrics.
	Registry *prometheus.Registry

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Namespace is the metrics namespace (default: "frontdoor").
	Namespace string

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsConstLabels sets constant labels for all metrics.
func WithMetricsConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithMetricsBuckets sets the histogram buckets.
func WithMetricsBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithMetricsRegistry sets the Prometheus registry.
func WithMetricsRegistry(registry *prometheus.Registry) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics collects request counts and durations per module.
//
// Metrics collected:
//   - frontdoor_requests_total: Counter of requests by module and status
//   - frontdoor_request_duration_seconds: Histogram of pipeline duration by module
//   - frontdoor_requests_in_flight: Gauge of requests being served
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetrics registers the collectors.
//
// Example:
//
//	m := middlewares.NewMetrics()
//	app := frontdoor.New(
//	    frontdoor.WithMiddleware(m.Middleware()),
//	    frontdoor.WithMetricsHandler("/metrics", m.Handler()),
//	)
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "frontdoor",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		registry: cfg.Registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "requests_total",
			Help:        "Total number of requests served by the front controller",
			ConstLabels: cfg.ConstLabels,
		}, []string{"module", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "request_duration_seconds",
			Help:        "Front controller pipeline duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"module"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "requests_in_flight",
			Help:        "Number of requests currently being served",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// Middleware records every request. Resolved modules are labelled by
// name, aliases and install mode under their target. Everything that did
// not resolve shares the "unresolved" label so path scans cannot grow the
// series count.
func (m *Metrics) Middleware() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			m.inFlight.Inc()
			start := time.Now()
			defer func() {
				r := recover()
				m.inFlight.Dec()

				status := responseStatus(c, err)
				if r != nil {
					status = http.StatusInternalServerError
				}
				module := moduleLabel(c)
				m.duration.WithLabelValues(module).Observe(time.Since(start).Seconds())
				m.requests.WithLabelValues(module, strconv.Itoa(status)).Inc()

				if r != nil {
					panic(r)
				}
			}()
			return next(c)
		}
	}
}

// UnresolvedLabel is the module label of requests that matched no handler.
const UnresolvedLabel = "unresolved"

func moduleLabel(c internal.Context) string {
	if c.Binding() == internal.BindingUnresolved {
		return UnresolvedLabel
	}
	return c.Module()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// responseStatus is the status written so far, or the status the page
// will be rendered with.
func responseStatus(c internal.Context, err error) int {
	if err != nil {
		if httpErr := internal.AsHTTPError(err); httpErr != nil {
			return httpErr.Code
		}
		return http.StatusInternalServerError
	}
	if sw, ok := c.Response().(interface {
		Status() int
		Written() bool
	}); ok && sw.Written() {
		return sw.Status()
	}
	return c.Status()
}
