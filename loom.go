// Package loom provides the public API for the loom rendering library.
//
// This is the recommended import for most applications:
//
//	import (
//	    "github.com/vango-dev/loom"
//	    . "github.com/vango-dev/loom/el"
//	)
//
// Usage:
//
//	page := Page("Hello",
//	    Main(
//	        H1(Text("Hello")),
//	        P(Text("Rendered with loom")),
//	    ).Style("padding", "8px"),
//	)
//	html, err := loom.RenderDocument(page)
//
//	for chunk, err := range loom.Stream(ctx, page, loom.StreamOptions{ChunkSize: 4096, Mode: loom.ModeProgressive}) {
//	    ...
//	}
package loom

import (
	"context"
	"io"
	"iter"

	"github.com/vango-dev/loom/pkg/css"
	"github.com/vango-dev/loom/pkg/render"
)

// =============================================================================
// Node algebra (re-export from pkg/render)
// =============================================================================

// Node is anything that can render itself.
type Node = render.Node

// Element is an HTML element node.
type Element = render.Element

// Document is a complete HTML document with a generated stylesheet.
type Document = render.Document

// Attribute is a single name/value attribute.
type Attribute = render.Attribute

// Style is an inline style declaration.
type Style = css.Style

// =============================================================================
// Rendering (re-export from pkg/render)
// =============================================================================

// Renderer renders nodes with a fixed configuration.
type Renderer = render.Renderer

// Config controls the output format.
type Config = render.Config

// Mode selects how output is produced.
type Mode = render.Mode

// StreamOptions configures Stream.
type StreamOptions = render.StreamOptions

// Hooks observe render calls.
type Hooks = render.Hooks

// Render modes.
const (
	ModeSync         = render.ModeSync
	ModeAsync        = render.ModeAsync
	ModeBatch        = render.ModeBatch
	ModeProgressive  = render.ModeProgressive
	ModeBackpressure = render.ModeBackpressure
)

// DefaultChunkSize is the chunk size used when none is configured.
const DefaultChunkSize = render.DefaultChunkSize

// Errors.
var (
	ErrInvalidUTF8      = render.ErrInvalidUTF8
	ErrInvalidChunkSize = render.ErrInvalidChunkSize
	ErrStreamClosed     = render.ErrStreamClosed
)

// Configuration presets.
var (
	DefaultConfig   = render.DefaultConfig
	PrettyConfig    = render.PrettyConfig
	EmailConfig     = render.EmailConfig
	OptimizedConfig = render.OptimizedConfig
	ConfigByName    = render.ConfigByName
)

// NewRenderer creates a Renderer.
var NewRenderer = render.NewRenderer

// WithConfig binds a configuration to ctx for context-aware render calls.
var WithConfig = render.WithConfig

// IsCancellation reports whether err means the render was cancelled or
// its consumer stopped reading.
var IsCancellation = render.IsCancellation

var defaultRenderer = render.NewRenderer(render.DefaultConfig())

// Render renders n with the default configuration.
func Render(n Node) ([]byte, error) {
	return defaultRenderer.Render(n)
}

// RenderString renders n to a string with the default configuration.
func RenderString(n Node) (string, error) {
	return defaultRenderer.RenderToString(n)
}

// RenderDocument renders d with the default configuration.
func RenderDocument(d Document) ([]byte, error) {
	return defaultRenderer.RenderDocument(d)
}

// Stream renders n as a sequence of chunks with the default configuration.
// A configuration bound to ctx with WithConfig takes precedence.
func Stream(ctx context.Context, n Node, opts StreamOptions) iter.Seq2[[]byte, error] {
	return defaultRenderer.Stream(ctx, n, opts)
}

// StreamTo streams n to w, flushing after each chunk when w supports it.
func StreamTo(ctx context.Context, w io.Writer, n Node, opts StreamOptions) error {
	return defaultRenderer.StreamTo(ctx, w, n, opts)
}
