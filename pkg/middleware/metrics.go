package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/web-widget/web-server/pkg/router"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "webserver").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "webserver",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors for request dispatch.
type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
}

// globalMetrics is the singleton collector set, created on the first
// Prometheus() call. Registering the same collectors twice on the
// default registerer panics, so subsequent calls reuse the first
// initialization (the first call's options win).
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of requests dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Request dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route", "method"}),

		requestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_errors_total",
			Help:        "Total number of request handler errors",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method"}),
	}
}

// Prometheus creates middleware that records request metrics.
//
// Metrics collected:
//   - webserver_requests_total: Counter of requests by route, method and status
//   - webserver_request_duration_seconds: Histogram of dispatch duration
//   - webserver_request_errors_total: Counter of handler errors
//
// The route label is the matched route pattern (for example "/blog/:id"),
// not the concrete request path, so cardinality stays bounded. Requests
// that match no route are labeled with the request destination instead.
//
// Collectors are created once per process; later calls reuse the first
// initialization and ignore their options.
//
// Example:
//
//	app, err := webserver.New(manifest, webserver.Config{})
//	mux.Handle("/", app)
//
//	manifest.Middlewares = append(manifest.Middlewares, &router.ManifestEntry{
//	    Pathname: "/",
//	    Module:   router.MiddlewareModule(middleware.Prometheus()),
//	})
func Prometheus(opts ...MetricsOption) router.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return router.MiddlewareFunc(func(ctx *router.Context, next router.Next) (*router.Response, error) {
		start := time.Now()

		resp, err := next()

		// Pathname is only populated once the terminal matcher has run,
		// so it must be read after next() returns.
		route := ctx.Pathname
		if route == "" {
			route = string(ctx.Destination)
		}
		method := ctx.Request.Method

		m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())

		status := "error"
		if err == nil && resp != nil {
			status = strconv.Itoa(resp.StatusCode)
		}
		m.requestsTotal.WithLabelValues(route, method, status).Inc()

		if err != nil {
			m.requestErrors.WithLabelValues(route, method).Inc()
		}

		return resp, err
	})
}
