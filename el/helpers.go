package el

import "github.com/vango-dev/loom/pkg/render"

// Text creates an escaped text node.
func Text(content string) Node { return render.Text(content) }

// Textf creates a formatted, escaped text node.
func Textf(format string, args ...any) Node { return render.Textf(format, args...) }

// Raw creates an unescaped node. Only use it with trusted content.
func Raw(html string) Node { return render.Raw(html) }

// Fragment groups children without a wrapping element. It accepts the same
// arguments as element constructors; attributes are ignored.
func Fragment(children ...any) Node {
	_, nodes := splitArgs(children)
	return render.Group(nodes...)
}

// Nothing renders nothing.
func Nothing() Node { return render.Nothing() }

// If returns node when condition holds and nothing otherwise.
func If(condition bool, node Node) Node {
	return render.If(condition, render.Erase(node))
}

// IfElse returns ifTrue or ifFalse.
func IfElse(condition bool, ifTrue, ifFalse Node) Node {
	return render.IfElse(condition, render.Erase(ifTrue), render.Erase(ifFalse))
}

// When calls fn only when condition holds.
func When(condition bool, fn func() Node) Node {
	return render.When(condition, func() render.AnyNode { return render.Erase(fn()) })
}

// Unless is the inverse of If.
func Unless(condition bool, node Node) Node {
	return If(!condition, node)
}

// Range maps items to nodes, rendered in order.
func Range[T any](items []T, fn func(item T, index int) Node) []Node {
	out := make([]Node, 0, len(items))
	for i, item := range items {
		out = append(out, fn(item, i))
	}
	return out
}

// Repeat creates n nodes using fn.
func Repeat(n int, fn func(i int) Node) []Node {
	if n <= 0 {
		return nil
	}
	out := make([]Node, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fn(i))
	}
	return out
}

// Page builds a document from a title and body arguments.
func Page(title string, body ...any) Document {
	return Document{Title: title, Body: Fragment(body...)}
}
