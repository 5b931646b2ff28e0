package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/juststeveking/spacecount/internal/monitor"
)

const namespace = "spacecount"

// Collector owns a private registry so tests and multiple servers in one
// process do not collide on the global one.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	activeRequests      prometheus.Gauge

	upstreamFetchesTotal *prometheus.CounterVec
	upstreamLatency      *prometheus.HistogramVec

	probeUp       *prometheus.GaugeVec
	probeLatency  *prometheus.GaugeVec
	overallHealth *prometheus.GaugeVec
}

// NewCollector creates and registers all metrics
func NewCollector(version string) *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	c.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	c.activeRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Number of in-flight HTTP requests",
		},
	)

	c.upstreamFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetches_total",
			Help:      "Resource requests by where the answer came from",
		},
		[]string{"resource", "source", "kind"},
	)

	c.upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_latency_seconds",
			Help:      "Time to upstream response headers",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 3, 5, 10},
		},
		[]string{"resource"},
	)

	c.probeUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_status",
			Help:      "Last probe status: 1 online, 0.5 slow, 0 offline",
		},
		[]string{"probe"},
	)

	c.probeLatency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_response_seconds",
			Help:      "Last probe response time",
		},
		[]string{"probe"},
	)

	c.overallHealth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "health_overall",
			Help:      "1 for the current overall health status, 0 for the others",
		},
		[]string{"status"},
	)

	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version"},
	)
	info.WithLabelValues(version).Set(1)

	c.registry.MustRegister(
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.activeRequests,
		c.upstreamFetchesTotal,
		c.upstreamLatency,
		c.probeUp,
		c.probeLatency,
		c.overallHealth,
		info,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Middleware returns middleware that collects HTTP metrics
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		c.activeRequests.Inc()
		defer c.activeRequests.Dec()

		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		status := strconv.Itoa(ctx.Writer.Status())

		c.httpRequestsTotal.WithLabelValues(ctx.Request.Method, endpoint, status).Inc()
		c.httpRequestDuration.WithLabelValues(ctx.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus metrics HTTP handler
func (c *Collector) Handler() gin.HandlerFunc {
	handler := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
	return func(ctx *gin.Context) {
		handler.ServeHTTP(ctx.Writer, ctx.Request)
	}
}

// ObserveFetch records one CachedFetcher answer. Cache hits carry no latency.
func (c *Collector) ObserveFetch(resource, source, kind string, elapsed time.Duration) {
	c.upstreamFetchesTotal.WithLabelValues(resource, source, kind).Inc()
	if elapsed > 0 {
		c.upstreamLatency.WithLabelValues(resource).Observe(elapsed.Seconds())
	}
}

// ObserveReport records the outcome of a health check round
func (c *Collector) ObserveReport(report monitor.Report) {
	for _, api := range report.APIs {
		c.probeUp.WithLabelValues(api.Name).Set(statusValue(api.Status))
		c.probeLatency.WithLabelValues(api.Name).Set(api.ResponseTime.Seconds())
	}
	for _, o := range []monitor.Overall{monitor.OverallHealthy, monitor.OverallDegraded, monitor.OverallDown} {
		v := 0.0
		if o == report.Overall {
			v = 1
		}
		c.overallHealth.WithLabelValues(string(o)).Set(v)
	}
}

func statusValue(s monitor.Status) float64 {
	switch s {
	case monitor.StatusOnline:
		return 1
	case monitor.StatusSlow:
		return 0.5
	default:
		return 0
	}
}
