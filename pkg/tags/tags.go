// Package tags holds the static HTML tag classification tables used when
// constructing elements: which tags are void, which are inline-level, which
// preserve whitespace, and which attributes are boolean.
package tags

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoid returns true if the tag is a void element.
func IsVoid(tag string) bool {
	return voidElements[tag]
}

// Void returns the void tag names. The slice is freshly allocated.
func Void() []string {
	out := make([]string, 0, len(voidElements))
	for tag := range voidElements {
		out = append(out, tag)
	}
	return out
}

// inlineElements are rendered inline and never get formatting whitespace.
var inlineElements = map[string]bool{
	"a":        true,
	"abbr":     true,
	"b":        true,
	"bdi":      true,
	"bdo":      true,
	"br":       true,
	"button":   true,
	"cite":     true,
	"code":     true,
	"data":     true,
	"dfn":      true,
	"em":       true,
	"i":        true,
	"img":      true,
	"input":    true,
	"kbd":      true,
	"label":    true,
	"mark":     true,
	"q":        true,
	"rb":       true,
	"rp":       true,
	"rt":       true,
	"rtc":      true,
	"ruby":     true,
	"s":        true,
	"samp":     true,
	"select":   true,
	"small":    true,
	"span":     true,
	"strong":   true,
	"sub":      true,
	"sup":      true,
	"textarea": true,
	"time":     true,
	"u":        true,
	"var":      true,
	"wbr":      true,
}

// IsInline returns true if the tag is an inline element.
func IsInline(tag string) bool {
	return inlineElements[tag]
}

// IsBlock returns true if the tag is block-level. Unknown tags are block-level.
func IsBlock(tag string) bool {
	return !inlineElements[tag]
}

// preservingElements keep their content byte-for-byte in pretty output.
var preservingElements = map[string]bool{
	"pre":      true,
	"textarea": true,
	"script":   true,
	"style":    true,
}

// PreservesWhitespace returns true if formatting whitespace must not be
// inserted inside the tag.
func PreservesWhitespace(tag string) bool {
	return preservingElements[tag]
}

// booleanAttrs are attributes that don't need a value.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"hidden":          true,
	"ismap":           true,
	"itemscope":       true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"nomodule":        true,
	"novalidate":      true,
	"open":            true,
	"playsinline":     true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// IsBooleanAttr returns true if the attribute is a boolean attribute.
func IsBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
