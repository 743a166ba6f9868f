package render

import (
	"context"
	"strings"

	"github.com/vango-dev/loom/pkg/css"
)

// Context is the mutable state of one render pass. It carries the ambient
// attributes of the element about to be opened, the style table and class
// namer, the indentation depth, the configuration and the output buffer.
//
// A Context is created fresh for every top-level render call and is never
// shared between passes, which is what makes concurrent rendering safe.
type Context struct {
	ctx    context.Context
	config Config
	mode   Mode
	buf    *Buffer

	attrs Attributes
	sheet *css.Sheet
	namer *css.Namer

	// pending holds the styles whose class tokens are in attrs. They reach
	// the sheet only when an element takes the ambient attributes.
	pending []css.Style

	depth    int
	preserve int

	// lineStart is set right after a formatting newline.
	lineStart bool
	// sawBlock records whether a block element was emitted at the current
	// level, which decides whether the parent's closing tag gets a newline.
	sawBlock bool
	// continued marks a context whose output is spliced after other
	// content, so its first block element still starts a new line.
	continued bool
}

func newContext(ctx context.Context, cfg Config, buf *Buffer, mode Mode) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		ctx:    ctx,
		config: cfg,
		mode:   mode,
		buf:    buf,
		sheet:  css.NewSheet(),
		namer:  css.NewNamer(),
	}
}

// Context returns the context.Context of the render call.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Config returns the configuration in effect.
func (c *Context) Config() Config {
	return c.config
}

// Mode returns the mode of the render call.
func (c *Context) Mode() Mode {
	return c.mode
}

// Depth returns the current element nesting depth.
func (c *Context) Depth() int {
	return c.depth
}

// Attributes returns the ambient attributes that the next element will take.
func (c *Context) Attributes() Attributes {
	return c.attrs
}

// Sheet returns the style table of the pass.
func (c *Context) Sheet() *css.Sheet {
	return c.sheet
}

// Namer returns the class-name allocator of the pass.
func (c *Context) Namer() *css.Namer {
	return c.namer
}

// Err returns the first error that stopped output, if any.
func (c *Context) Err() error {
	return c.buf.Err()
}

// Render renders n into the pass. A nil node renders nothing.
func (c *Context) Render(n Node) error {
	if n == nil {
		return nil
	}
	return n.Render(c)
}

// WriteText writes escaped text content.
func (c *Context) WriteText(s string) {
	if s == "" {
		return
	}
	c.lineStart = false
	c.buf.writeEscaped(s, &textEscapes)
}

// WriteRaw writes p without escaping. Only for trusted content.
func (c *Context) WriteRaw(p []byte) {
	if len(p) == 0 {
		return
	}
	c.lineStart = false
	c.buf.Write(p)
}

// WriteRawString writes s without escaping. Only for trusted content.
func (c *Context) WriteRawString(s string) {
	if s == "" {
		return
	}
	c.lineStart = false
	c.buf.WriteString(s)
}

// pretty reports whether formatting whitespace applies at this point.
func (c *Context) pretty() bool {
	return c.preserve == 0 && c.config.Pretty()
}

// breakLine starts a new indented line unless output is at the very start
// or already at a line start.
func (c *Context) breakLine() {
	if !c.lineStart && (c.buf.Written() > 0 || c.continued) {
		c.buf.WriteString(c.config.Newline)
	}
	if c.depth > 0 && c.config.Indentation != "" {
		c.buf.WriteString(strings.Repeat(c.config.Indentation, c.depth))
	}
	c.lineStart = true
}

// addStyle names s and adds the class token to the ambient attributes.
func (c *Context) addStyle(s css.Style) {
	name := c.namer.Name(s)
	c.attrs = c.attrs.With("class", name)
	c.pending = append(c.pending[:len(c.pending):len(c.pending)], s)
}

// recordStyles adds the declarations of the pending styles to the sheet.
// A style whose content never opens an element leaves no rule behind.
func (c *Context) recordStyles() {
	for _, s := range c.pending {
		c.sheet.Add(s.Key(c.namer.Name(s)), s.Declaration(c.config.ForceImportant))
	}
}

// boundary runs at element boundaries: it observes cancellation and, for
// lazily chunked output, hands complete chunks to the consumer.
func (c *Context) boundary() error {
	if err := c.buf.Err(); err != nil {
		return err
	}
	if err := c.ctx.Err(); err != nil {
		c.buf.fail(err)
		return err
	}
	if !c.buf.eager && c.buf.sink != nil {
		return c.buf.Flush()
	}
	return nil
}
