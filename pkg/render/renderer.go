package render

import (
	"context"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"
)

// Renderer renders node trees to HTML. A Renderer only holds configuration;
// every call gets a fresh Context, so one Renderer can be used from many
// goroutines at once.
type Renderer struct {
	config Config
	logger *slog.Logger
	hooks  Hooks
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHooks adds render observers.
func WithHooks(hooks ...Hooks) Option {
	return func(r *Renderer) {
		r.hooks = MultiHooks(append([]Hooks{r.hooks}, hooks...)...)
	}
}

// NewRenderer creates a Renderer with the given configuration.
func NewRenderer(config Config, opts ...Option) *Renderer {
	r := &Renderer{
		config: config,
		logger: slog.Default(),
		hooks:  NopHooks{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the renderer's configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// configFor returns the configuration bound to ctx, falling back to the
// renderer's own.
func (r *Renderer) configFor(ctx context.Context) Config {
	if cfg, ok := ConfigFrom(ctx); ok {
		return cfg
	}
	return r.config
}

// Render renders n to a complete byte buffer. Built-in nodes never fail;
// an error can only come from a custom node.
func (r *Renderer) Render(n Node) ([]byte, error) {
	return r.render(context.Background(), ModeSync, n)
}

// RenderContext renders n to a complete byte buffer, stopping at the next
// element boundary once ctx is cancelled. A configuration bound to ctx with
// WithConfig overrides the renderer's for this call.
func (r *Renderer) RenderContext(ctx context.Context, n Node) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return r.render(ctx, ModeAsync, n)
}

// RenderToString renders n to a string. It fails with ErrInvalidUTF8 when
// raw content made the output invalid UTF-8.
func (r *Renderer) RenderToString(n Node) (string, error) {
	out, err := r.Render(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", invalidUTF8()
	}
	return string(out), nil
}

// StringOrEmpty renders n to a string, returning "" and logging a warning
// when rendering fails or the output is not valid UTF-8.
func (r *Renderer) StringOrEmpty(n Node) string {
	s, err := r.RenderToString(n)
	if err != nil {
		r.logger.Warn("render failed, returning empty output", "error", err)
		return ""
	}
	return s
}

// RenderToWriter renders n and writes the result to w.
func (r *Renderer) RenderToWriter(w io.Writer, n Node) error {
	out, err := r.Render(n)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// render runs one buffered pass.
func (r *Renderer) render(ctx context.Context, mode Mode, n Node) ([]byte, error) {
	p := r.begin(ctx, mode)
	cfg := r.configFor(ctx)
	buf := NewBuffer(cfg.ReservedCapacity)
	c := newContext(ctx, cfg, buf, mode)

	err := nodeFailed(c.Render(n))
	p.finish(statsOf(c), err)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pass reports one render call to the hooks and the log.
type pass struct {
	r     *Renderer
	ctx   context.Context
	mode  Mode
	start time.Time
}

func (r *Renderer) begin(ctx context.Context, mode Mode) *pass {
	if ctx == nil {
		ctx = context.Background()
	}
	return &pass{
		r:     r,
		ctx:   r.hooks.RenderStarted(ctx, mode),
		mode:  mode,
		start: time.Now(),
	}
}

func (p *pass) chunk(size int) {
	p.r.hooks.ChunkEmitted(p.ctx, p.mode, size)
}

func (p *pass) finish(stats Stats, err error) {
	stats.Duration = time.Since(p.start)
	p.r.hooks.RenderFinished(p.ctx, p.mode, stats, err)

	switch {
	case err == nil:
		p.r.logger.Debug("render complete",
			"mode", p.mode.String(),
			"bytes", stats.Bytes,
			"chunks", stats.Chunks,
			"rules", stats.Rules,
			"duration", stats.Duration)
	case IsCancellation(err):
		p.r.logger.Debug("render cancelled",
			"mode", p.mode.String(),
			"bytes", stats.Bytes,
			"reason", err)
	default:
		p.r.logger.Warn("render failed",
			"mode", p.mode.String(),
			"error", err)
	}
}

func statsOf(c *Context) Stats {
	return Stats{
		Bytes:  c.buf.Written(),
		Chunks: c.buf.Chunks(),
		Rules:  c.sheet.Len(),
		Peak:   c.buf.Peak(),
	}
}

var defaultRenderer = NewRenderer(DefaultConfig())

// Bytes renders n with the default configuration.
func Bytes(n Node) ([]byte, error) {
	return defaultRenderer.Render(n)
}

// String renders n to a string with the default configuration.
func String(n Node) (string, error) {
	return defaultRenderer.RenderToString(n)
}
