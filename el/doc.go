// Package el provides the element DSL for loom.
//
// Element constructors take a mixed argument list: attributes, child nodes,
// plain strings (escaped text) and slices of either. nil arguments and
// empty attributes are ignored, which keeps conditional markup inline:
//
//	import . "github.com/vango-dev/loom/el"
//
//	page := Div(Class("card"),
//	    H1("Hello"),
//	    Ul(Range(items, func(item string, _ int) render.Node {
//	        return Li(item)
//	    })),
//	    AttrIf(admin, Data("role", "admin")),
//	).Style("padding", "8px")
//
// Every constructor returns a render.Element, so the result can be chained
// with Attr and Style and rendered with the render package.
package el
