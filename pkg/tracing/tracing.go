// Package tracing records render calls as OpenTelemetry spans.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given. Configure it in your main() before rendering:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
//	r := render.NewRenderer(cfg, render.WithHooks(tracing.New()))
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/loom/pkg/render"
)

// Default tracer name for loom renders.
const defaultTracerName = "loom"

// Config configures the tracing hooks.
type Config struct {
	// TracerName is the name of the tracer (default: "loom").
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// ChunkEvents adds a span event for every delivered chunk.
	// Disabled by default, large streams produce many chunks.
	ChunkEvents bool

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// Option configures the tracing hooks.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

// WithChunkEvents enables one span event per chunk.
func WithChunkEvents(enabled bool) Option {
	return func(c *Config) {
		c.ChunkEvents = enabled
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *Config) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Hooks implements render.Hooks with one span per render call.
type Hooks struct {
	tracer      trace.Tracer
	chunkEvents bool
	attrs       []attribute.KeyValue
}

var _ render.Hooks = (*Hooks)(nil)

// New creates tracing hooks.
func New(opts ...Option) *Hooks {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tracer := config.Tracer
	if tracer == nil {
		// Resolve tracer from global provider
		tracer = otel.Tracer(config.TracerName)
	}
	return &Hooks{
		tracer:      tracer,
		chunkEvents: config.ChunkEvents,
		attrs:       config.Attributes,
	}
}

// RenderStarted implements render.Hooks. The returned context carries the
// span, so it is also visible to nodes through Context.Context.
func (h *Hooks) RenderStarted(ctx context.Context, mode render.Mode) context.Context {
	attrs := append([]attribute.KeyValue{
		attribute.String("loom.render.mode", mode.String()),
	}, h.attrs...)

	ctx, _ = h.tracer.Start(ctx,
		fmt.Sprintf("loom.render %s", mode),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx
}

// ChunkEmitted implements render.Hooks.
func (h *Hooks) ChunkEmitted(ctx context.Context, _ render.Mode, size int) {
	if !h.chunkEvents {
		return
	}
	trace.SpanFromContext(ctx).AddEvent("chunk",
		trace.WithAttributes(attribute.Int("loom.chunk.size", size)))
}

// RenderFinished implements render.Hooks.
func (h *Hooks) RenderFinished(ctx context.Context, _ render.Mode, stats render.Stats, err error) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(
		attribute.Int64("loom.render.bytes", stats.Bytes),
		attribute.Int("loom.render.chunks", stats.Chunks),
		attribute.Int("loom.render.rules", stats.Rules),
		attribute.Int("loom.render.peak_bytes", stats.Peak),
	)

	// Record result
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case render.IsCancellation(err):
		span.SetAttributes(attribute.Bool("loom.render.cancelled", true))
		span.SetStatus(codes.Unset, "")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
