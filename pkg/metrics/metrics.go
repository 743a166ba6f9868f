// Package metrics records render calls as Prometheus metrics.
//
// A Collector implements render.Hooks:
//
//	collector := metrics.New(metrics.WithNamespace("myapp"))
//	r := render.NewRenderer(cfg, render.WithHooks(collector))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
package metrics

import (
	"context"
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/render"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "loom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "render").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "loom",
		Subsystem: "render",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records render metrics. It is safe for concurrent use.
type Collector struct {
	rendersTotal   *prometheus.CounterVec
	renderErrors   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	bytesTotal     *prometheus.CounterVec
	chunksTotal    *prometheus.CounterVec
	peakBuffer     *prometheus.GaugeVec
	rulesTotal     prometheus.Counter
}

// New creates a Collector and registers its metrics.
//
// Metrics collected (with the default namespace and subsystem):
//   - loom_render_renders_total: Counter of render calls by mode and status
//   - loom_render_errors_total: Counter of failed render calls by mode and error type
//   - loom_render_duration_seconds: Histogram of render duration by mode
//   - loom_render_bytes_total: Counter of bytes rendered by mode
//   - loom_render_chunks_total: Counter of stream chunks delivered by mode
//   - loom_render_stream_peak_buffer_bytes: Gauge of the last peak buffer size by mode
//   - loom_render_stylesheet_rules_total: Counter of stylesheet rules generated
//
// New panics if the metrics are already registered with the registry, like
// promauto does.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of render calls",
			ConstLabels: config.ConstLabels,
		}, []string{"mode", "status"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of failed render calls",
			ConstLabels: config.ConstLabels,
		}, []string{"mode", "error_type"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "duration_seconds",
			Help:        "Render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"mode"}),

		bytesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bytes_total",
			Help:        "Total number of bytes rendered",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		chunksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "chunks_total",
			Help:        "Total number of stream chunks delivered",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		peakBuffer: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stream_peak_buffer_bytes",
			Help:        "Peak output buffer size of the most recent render",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		rulesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stylesheet_rules_total",
			Help:        "Total number of stylesheet rules generated",
			ConstLabels: config.ConstLabels,
		}),
	}
}

var _ render.Hooks = (*Collector)(nil)

// RenderStarted implements render.Hooks.
func (c *Collector) RenderStarted(ctx context.Context, _ render.Mode) context.Context {
	return ctx
}

// ChunkEmitted implements render.Hooks.
func (c *Collector) ChunkEmitted(_ context.Context, mode render.Mode, _ int) {
	c.chunksTotal.WithLabelValues(mode.String()).Inc()
}

// RenderFinished implements render.Hooks.
func (c *Collector) RenderFinished(_ context.Context, mode render.Mode, stats render.Stats, err error) {
	m := mode.String()

	c.renderDuration.WithLabelValues(m).Observe(stats.Duration.Seconds())
	c.bytesTotal.WithLabelValues(m).Add(float64(stats.Bytes))
	c.peakBuffer.WithLabelValues(m).Set(float64(stats.Peak))
	c.rulesTotal.Add(float64(stats.Rules))

	status := "success"
	if err != nil {
		status = "error"
		errorType := categorizeError(err)
		if errorType == "cancelled" {
			status = "cancelled"
		} else {
			c.renderErrors.WithLabelValues(m, errorType).Inc()
		}
	}
	c.rendersTotal.WithLabelValues(m, status).Inc()
}

// categorizeError returns a category for the error type.
// This prevents high-cardinality labels from error messages.
func categorizeError(err error) string {
	switch {
	case render.IsCancellation(err):
		return "cancelled"
	case stderrors.Is(err, render.ErrInvalidUTF8):
		return "invalid_utf8"
	case stderrors.Is(err, render.ErrInvalidChunkSize):
		return "invalid_chunk_size"
	}
	if code := errors.Code(err); code != "" {
		return code
	}
	return "internal"
}
