package render

import (
	"github.com/vango-dev/loom/pkg/css"
	"github.com/vango-dev/loom/pkg/tags"
)

// Element is an HTML element with its own attributes and at most one child.
// Use a Tuple or Array child to hold several nodes.
//
// Element is a value type. Attr and the other modifiers return a modified
// copy; the receiver is never changed, so partially built trees can be
// shared and rendered any number of times.
type Element struct {
	Tag   string
	Attrs Attributes

	// Block elements get formatting whitespace in pretty output.
	Block bool

	// Void elements have no children and no closing tag.
	Void bool

	// PreserveWhitespace disables formatting whitespace inside the element.
	PreserveWhitespace bool

	Child Node
}

// NewElement creates an element classified through the tag tables.
// Children passed to a void tag are dropped.
func NewElement(tag string, children ...Node) Element {
	e := Element{
		Tag:                tag,
		Block:              tags.IsBlock(tag),
		Void:               tags.IsVoid(tag),
		PreserveWhitespace: tags.PreservesWhitespace(tag),
	}
	if !e.Void && len(children) > 0 {
		e.Child = Group(children...)
	}
	return e
}

// Attr returns a copy with the attribute set. An empty value renders the
// bare attribute name.
func (e Element) Attr(name, value string) Element {
	e.Attrs = e.Attrs.With(name, value)
	return e
}

// AttrPtr returns a copy with the attribute set, or e unchanged when value
// is nil.
func (e Element) AttrPtr(name string, value *string) Element {
	if value == nil {
		return e
	}
	return e.Attr(name, *value)
}

// BoolAttr returns a copy with a boolean attribute present when on is true.
func (e Element) BoolAttr(name string, on bool) Element {
	if !on {
		return e
	}
	return e.Attr(name, "")
}

// WithChild returns a copy with the child replaced. Void elements ignore it.
func (e Element) WithChild(children ...Node) Element {
	if e.Void {
		return e
	}
	e.Child = Group(children...)
	return e
}

// Style wraps the element with an inline style.
func (e Element) Style(property, value string, opts ...css.Option) Styled {
	return WithStyle(e, css.New(property, value, opts...))
}

// Render implements Node.
func (e Element) Render(c *Context) error {
	if err := c.boundary(); err != nil {
		return err
	}

	// The element takes the ambient attributes gathered by its modifiers and
	// its children start from an empty set.
	saved, savedPending := c.attrs, c.pending
	attrs := e.Attrs.Merge(saved)
	c.recordStyles()
	c.attrs, c.pending = Attributes{}, nil
	defer func() { c.attrs, c.pending = saved, savedPending }()

	block := e.Block && c.pretty()
	if block {
		c.breakLine()
	}
	c.lineStart = false
	c.buf.WriteByte('<')
	c.buf.WriteString(e.Tag)
	attrs.writeTo(c.buf)
	c.buf.WriteByte('>')

	if e.Void {
		if block {
			c.sawBlock = true
		}
		return c.boundary()
	}

	outerSaw := c.sawBlock
	c.sawBlock = false
	if e.PreserveWhitespace {
		c.preserve++
	}
	c.depth++
	err := c.Render(e.Child)
	c.depth--
	if e.PreserveWhitespace {
		c.preserve--
	}
	if err != nil {
		return err
	}

	if block && c.sawBlock {
		c.breakLine()
	}
	c.lineStart = false
	c.buf.appendWith(func(dst []byte) []byte {
		dst = append(dst, '<', '/')
		dst = append(dst, e.Tag...)
		return append(dst, '>')
	})
	c.sawBlock = outerSaw || block

	return c.boundary()
}

// Attributed applies attributes to the element(s) inside Content. At render
// time the ambient set is layered over the node's attributes, so a modifier
// applied later wins. Content is rendered and the previous set is restored,
// leaving siblings unaffected.
type Attributed struct {
	Content Node
	Attrs   Attributes
}

// WithAttr returns n with an attribute applied. Applying to an Attributed
// node returns a copy with the attribute added.
func WithAttr(n Node, name, value string) Attributed {
	if a, ok := n.(Attributed); ok {
		return a.Attr(name, value)
	}
	return Attributed{Content: n, Attrs: NewAttributes(Attribute{Name: name, Value: value})}
}

// WithAttrs returns n with several attributes applied in order.
func WithAttrs(n Node, attrs ...Attribute) Attributed {
	a, ok := n.(Attributed)
	if !ok {
		a = Attributed{Content: n}
	}
	a.Attrs = a.Attrs.Merge(NewAttributes(attrs...))
	return a
}

// WithAttrPtr returns n with the attribute applied, or with no attribute
// when value is nil.
func WithAttrPtr(n Node, name string, value *string) Attributed {
	if value == nil {
		if a, ok := n.(Attributed); ok {
			return a
		}
		return Attributed{Content: n}
	}
	return WithAttr(n, name, *value)
}

// Attr returns a copy with the attribute added.
func (a Attributed) Attr(name, value string) Attributed {
	a.Attrs = a.Attrs.With(name, value)
	return a
}

// Style wraps the node with an inline style.
func (a Attributed) Style(property, value string, opts ...css.Option) Styled {
	return WithStyle(a, css.New(property, value, opts...))
}

// Render implements Node.
func (a Attributed) Render(c *Context) error {
	saved := c.attrs
	c.attrs = a.Attrs.Merge(saved)
	err := c.Render(a.Content)
	c.attrs = saved
	return err
}

// Styled applies inline styles to the element(s) inside Content. Each style
// is turned into a generated class name added to the class attribute, and
// its declaration is recorded once in the pass's stylesheet.
type Styled struct {
	Content Node
	Styles  []css.Style
}

// WithStyle returns n with a style applied. Applying to a Styled node
// returns a copy with the style appended. The declaration reaches the
// stylesheet only when an element inside n takes the class.
func WithStyle(n Node, s css.Style) Styled {
	if st, ok := n.(Styled); ok {
		return st.With(s)
	}
	return Styled{Content: n, Styles: []css.Style{s}}
}

// With returns a copy with s appended.
func (s Styled) With(style css.Style) Styled {
	styles := make([]css.Style, len(s.Styles), len(s.Styles)+1)
	copy(styles, s.Styles)
	s.Styles = append(styles, style)
	return s
}

// Style returns a copy with another style appended.
func (s Styled) Style(property, value string, opts ...css.Option) Styled {
	return s.With(css.New(property, value, opts...))
}

// Attr wraps the node with an attribute.
func (s Styled) Attr(name, value string) Attributed {
	return WithAttr(s, name, value)
}

// Render implements Node.
func (s Styled) Render(c *Context) error {
	saved, savedPending := c.attrs, c.pending
	for _, style := range s.Styles {
		c.addStyle(style)
	}
	err := c.Render(s.Content)
	c.attrs, c.pending = saved, savedPending
	return err
}
