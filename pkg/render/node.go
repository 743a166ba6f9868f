package render

import (
	"fmt"

	"github.com/vango-dev/loom/pkg/css"
)

// Node is anything that can render itself into a render pass.
//
// The built-in kinds never fail; the error return exists for custom nodes
// and for cancellation, which surfaces at element boundaries.
type Node interface {
	Render(c *Context) error
}

// Text is escaped text content.
type Text string

// Render implements Node.
func (t Text) Render(c *Context) error {
	c.WriteText(string(t))
	return nil
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) Text {
	return Text(fmt.Sprintf(format, args...))
}

// Raw is unescaped markup. Use with caution - can lead to XSS if content is
// user-provided. Never use Raw for text.
type Raw string

// Render implements Node.
func (r Raw) Render(c *Context) error {
	c.WriteRawString(string(r))
	return nil
}

// RawBytes is unescaped markup held as bytes.
type RawBytes []byte

// Render implements Node.
func (r RawBytes) Render(c *Context) error {
	c.WriteRaw(r)
	return nil
}

// Empty renders nothing.
type Empty struct{}

// Render implements Node.
func (Empty) Render(*Context) error { return nil }

// Nothing returns Empty, useful for conditional rendering.
func Nothing() Node {
	return Empty{}
}

// Tuple is a fixed heterogeneous sequence rendered in order.
type Tuple []Node

// Render implements Node.
func (t Tuple) Render(c *Context) error {
	for _, n := range t {
		if err := c.Render(n); err != nil {
			return err
		}
	}
	return nil
}

// Array is a homogeneous sequence rendered in order.
type Array[N Node] []N

// Render implements Node.
func (a Array[N]) Render(c *Context) error {
	for _, n := range a {
		if err := c.Render(n); err != nil {
			return err
		}
	}
	return nil
}

// Group composes nodes: none gives Empty, one is returned unchanged and
// two or more become a Tuple.
func Group(nodes ...Node) Node {
	switch len(nodes) {
	case 0:
		return Empty{}
	case 1:
		if nodes[0] == nil {
			return Empty{}
		}
		return nodes[0]
	default:
		return Tuple(nodes)
	}
}

// ForEach maps items to an Array.
func ForEach[T any, N Node](items []T, fn func(item T, index int) N) Array[N] {
	out := make(Array[N], 0, len(items))
	for i, item := range items {
		out = append(out, fn(item, i))
	}
	return out
}

// Repeat creates n nodes using the given function.
func Repeat[N Node](n int, fn func(i int) N) Array[N] {
	if n <= 0 {
		return nil
	}
	out := make(Array[N], 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fn(i))
	}
	return out
}

// Either is a two-armed conditional. Both arms render into the same kind of
// pass but need not be the same node type.
type Either[A, B Node] struct {
	first    A
	second   B
	isSecond bool
}

// First selects the first arm.
func First[A, B Node](a A) Either[A, B] {
	return Either[A, B]{first: a}
}

// Second selects the second arm.
func Second[A, B Node](b B) Either[A, B] {
	return Either[A, B]{second: b, isSecond: true}
}

// IsFirst reports whether the first arm is selected.
func (e Either[A, B]) IsFirst() bool {
	return !e.isSecond
}

// Render implements Node.
func (e Either[A, B]) Render(c *Context) error {
	if e.isSecond {
		return c.Render(e.second)
	}
	return c.Render(e.first)
}

// IfElse selects ifTrue when condition holds, ifFalse otherwise.
func IfElse[A, B Node](condition bool, ifTrue A, ifFalse B) Either[A, B] {
	if condition {
		return First[A, B](ifTrue)
	}
	return Second[A, B](ifFalse)
}

// Optional is a node that may be absent. An absent Optional renders nothing.
type Optional[N Node] struct {
	value N
	ok    bool
}

// Some wraps a present node.
func Some[N Node](n N) Optional[N] {
	return Optional[N]{value: n, ok: true}
}

// None returns an absent node.
func None[N Node]() Optional[N] {
	return Optional[N]{}
}

// Get returns the node and whether it is present.
func (o Optional[N]) Get() (N, bool) {
	return o.value, o.ok
}

// Render implements Node.
func (o Optional[N]) Render(c *Context) error {
	if !o.ok {
		return nil
	}
	return c.Render(o.value)
}

// If returns the node if condition is true, an absent Optional otherwise.
func If[N Node](condition bool, n N) Optional[N] {
	if condition {
		return Some(n)
	}
	return None[N]()
}

// Unless is the inverse of If.
func Unless[N Node](condition bool, n N) Optional[N] {
	return If(!condition, n)
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When[N Node](condition bool, fn func() N) Optional[N] {
	if condition {
		return Some(fn())
	}
	return None[N]()
}

// Func is a component: a function producing the node to render.
type Func func() Node

// Render implements Node.
func (f Func) Render(c *Context) error {
	if f == nil {
		return nil
	}
	return c.Render(f())
}

// AnyNode hides a concrete node type behind its render function, so
// different node kinds can share one slice or return type.
type AnyNode struct {
	render func(*Context) error
}

// Erase wraps n in an AnyNode. Erasing an AnyNode returns it unchanged.
func Erase(n Node) AnyNode {
	switch v := n.(type) {
	case nil:
		return AnyNode{}
	case AnyNode:
		return v
	case *AnyNode:
		if v == nil {
			return AnyNode{}
		}
		return *v
	}
	return AnyNode{render: n.Render}
}

// Render implements Node.
func (a AnyNode) Render(c *Context) error {
	if a.render == nil {
		return nil
	}
	return a.render(c)
}

// Attr returns a copy of the node with an attribute applied.
func (a AnyNode) Attr(name, value string) Attributed {
	return WithAttr(a, name, value)
}

// Style returns a copy of the node with an inline style applied.
func (a AnyNode) Style(s css.Style) Styled {
	return WithStyle(a, s)
}
