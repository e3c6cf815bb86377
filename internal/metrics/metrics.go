// Package metrics exposes Prometheus counters for generation jobs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records job outcomes. A nil Collector discards everything.
type Collector struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	jobs       *prometheus.CounterVec
	jobErrors  *prometheus.CounterVec
	generation prometheus.Histogram
}

// Option configures a Collector.
type Option func(*Collector)

// WithNamespace overrides the metric namespace.
func WithNamespace(namespace string) Option {
	return func(c *Collector) {
		c.namespace = namespace
	}
}

// WithRegistry registers the metrics on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Collector) {
		c.registry = registry
	}
}

// WithBuckets sets the generation latency histogram buckets, in seconds.
func WithBuckets(buckets []float64) Option {
	return func(c *Collector) {
		c.buckets = buckets
	}
}

// NewCollector creates and registers the job metrics.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		namespace: "orbmint",
		buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(c.registry)
	c.jobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      "jobs_total",
		Help:      "Completed jobs by event kind and outcome",
	}, []string{"kind", "outcome"})
	c.jobErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      "job_errors_total",
		Help:      "Failed jobs by the stage that failed",
	}, []string{"stage"})
	c.generation = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Name:      "generation_seconds",
		Help:      "Time spent sampling and composing one asset set",
		Buckets:   c.buckets,
	})
	return c
}

// ObserveJob counts a completed job.
func (c *Collector) ObserveJob(kind, outcome string) {
	if c == nil {
		return
	}
	c.jobs.WithLabelValues(kind, outcome).Inc()
}

// ObserveError counts a failed job.
func (c *Collector) ObserveError(stage string) {
	if c == nil {
		return
	}
	c.jobErrors.WithLabelValues(stage).Inc()
}

// ObserveGeneration records the duration of one generation.
func (c *Collector) ObserveGeneration(d time.Duration) {
	if c == nil {
		return
	}
	c.generation.Observe(d.Seconds())
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
