package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/algoreel/pkg/observability"
)

// metrics are registered on a per-server registry so that several servers
// (tests, mostly) can coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	compiles *prometheus.CounterVec
	reloads  prometheus.Counter
	renders  *prometheus.HistogramVec
	cache    *prometheus.CounterVec

	observability.NoopPipelineHooks
}

func newMetrics(reg *prometheus.Registry) *metrics {
	f := promauto.With(reg)
	return &metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algoreel_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "algoreel_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"route"}),
		compiles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algoreel_timeline_compiles_total",
			Help: "Timeline compilations by scene and cache result",
		}, []string{"scene", "cache"}),
		reloads: f.NewCounter(prometheus.CounterOpts{
			Name: "algoreel_config_reloads_total",
			Help: "Configuration reloads applied",
		}),
		renders: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "algoreel_render_duration_seconds",
			Help:    "Pipeline render stage latency by scene, format and outcome",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"scene", "format", "result"}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algoreel_cache_events_total",
			Help: "Cache lookups and writes by key type",
		}, []string{"key", "event"}),
	}
}

func (m *metrics) observe(route string, status int, d time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *metrics) compiled(scene string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.compiles.WithLabelValues(scene, result).Inc()
}

// OnRenderComplete implements [observability.PipelineHooks].
func (m *metrics) OnRenderComplete(_ context.Context, scene, format string, _ int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.renders.WithLabelValues(scene, format, result).Observe(d.Seconds())
}

// OnCacheHit implements [observability.CacheHooks].
func (m *metrics) OnCacheHit(_ context.Context, key string) {
	m.cache.WithLabelValues(key, "hit").Inc()
}

// OnCacheMiss implements [observability.CacheHooks].
func (m *metrics) OnCacheMiss(_ context.Context, key string) {
	m.cache.WithLabelValues(key, "miss").Inc()
}

// OnCacheSet implements [observability.CacheHooks].
func (m *metrics) OnCacheSet(_ context.Context, key string, _ int) {
	m.cache.WithLabelValues(key, "set").Inc()
}

var _ observability.Hooks = (*metrics)(nil)
