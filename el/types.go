package el

import (
	"github.com/vango-dev/loom/pkg/css"
	"github.com/vango-dev/loom/pkg/render"
)

// Type aliases for the render primitives used by the DSL.
type (
	Node     = render.Node
	Element  = render.Element
	Attr     = render.Attribute
	Document = render.Document
	Style    = css.Style
)
