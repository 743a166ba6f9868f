package render

import (
	"context"
	"strings"

	"github.com/vango-dev/loom/pkg/css"
)

const doctype = "<!doctype html>"

// Document is a complete HTML document.
//
// Styles are discovered while the body renders, but the stylesheet belongs
// in the head, so the body is rendered first into its own buffer. The head
// is then rendered with the style table the body filled, the <style> block
// is emitted from it (only when non-empty) and the body bytes are spliced in:
//
//	<!doctype html><html><head>{head}{style}</head><body>{body}</body></html>
type Document struct {
	// Head is rendered inside <head>, before the generated stylesheet.
	Head Node

	// Body is rendered inside <body>.
	Body Node

	// Title adds a <title> element to the head when set.
	Title string

	// Lang sets the lang attribute of <html> when set.
	Lang string
}

// Render implements Node. A Document is meant to be the root of a pass.
func (d Document) Render(c *Context) error {
	// The body shares the pass's namer and sheet so names allocated in the
	// head never collide with body names.
	body := newContext(c.ctx, c.config, NewBuffer(c.config.ReservedCapacity), c.mode)
	body.namer = c.namer
	body.sheet = c.sheet
	body.depth = c.depth + 2
	body.continued = true
	if err := body.Render(d.Body); err != nil {
		return err
	}

	head := make(Tuple, 0, 3)
	if d.Title != "" {
		head = append(head, NewElement("title", Text(d.Title)))
	}
	head = append(head, d.Head, stylesheet{})

	html := Element{Tag: "html", Block: true, Child: Tuple{
		Element{Tag: "head", Block: true, Child: head},
		Element{Tag: "body", Block: true, Child: prerendered{
			out:      body.buf.Bytes(),
			sawBlock: body.sawBlock,
		}},
	}}
	if d.Lang != "" {
		html = html.Attr("lang", d.Lang)
	}

	if err := c.boundary(); err != nil {
		return err
	}
	c.WriteRawString(doctype)
	return html.Render(c)
}

// RenderDocument renders a complete document.
func (r *Renderer) RenderDocument(d Document) ([]byte, error) {
	return r.Render(d)
}

// RenderDocumentContext renders a complete document, honoring cancellation
// and a configuration bound to ctx.
func (r *Renderer) RenderDocumentContext(ctx context.Context, d Document) ([]byte, error) {
	return r.RenderContext(ctx, d)
}

// stylesheet emits the pass's style table as a <style> element. It renders
// nothing when no styles were recorded.
type stylesheet struct{}

func (stylesheet) Render(c *Context) error {
	if c.sheet.Empty() {
		return nil
	}

	var content string
	if c.pretty() {
		format := css.Format{
			Indent:  c.config.Indentation,
			Newline: c.config.Newline,
			Prefix:  strings.Repeat(c.config.Indentation, c.depth+1),
		}
		content = c.config.Newline + c.sheet.Format(format) +
			strings.Repeat(c.config.Indentation, c.depth)
	} else {
		content = c.sheet.String()
	}

	return Element{
		Tag:                "style",
		Block:              true,
		PreserveWhitespace: true,
		Child:              Raw(content),
	}.Render(c)
}

// prerendered splices output rendered by another context.
type prerendered struct {
	out      []byte
	sawBlock bool
}

func (p prerendered) Render(c *Context) error {
	c.WriteRaw(p.out)
	if p.sawBlock {
		c.sawBlock = true
	}
	return nil
}
