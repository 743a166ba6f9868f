package render

// Text content escapes &, < and >. Quotes are safe outside attributes.
var textEscapes = [256]string{
	'&': "&amp;",
	'<': "&lt;",
	'>': "&gt;",
}

// Attribute values additionally escape both quote characters.
var attrEscapes = [256]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&#39;",
}

// maxEscapeLen is the longest replacement in either table.
const maxEscapeLen = len("&quot;")

// appendEscaped appends s to dst, replacing bytes that have an entry in
// table. The common case of nothing to escape is a single scan and copy.
func appendEscaped(dst []byte, s string, table *[256]string) []byte {
	first := -1
	for i := 0; i < len(s); i++ {
		if table[s[i]] != "" {
			first = i
			break
		}
	}
	if first < 0 {
		return append(dst, s...)
	}

	dst = append(dst, s[:first]...)
	last := first
	for i := first; i < len(s); i++ {
		if rep := table[s[i]]; rep != "" {
			dst = append(dst, s[last:i]...)
			dst = append(dst, rep...)
			last = i + 1
		}
	}
	return append(dst, s[last:]...)
}

// appendEscapeHTML appends text content escaped for use between tags.
func appendEscapeHTML(dst []byte, s string) []byte {
	return appendEscaped(dst, s, &textEscapes)
}

// appendEscapeAttr appends an attribute value escaped for a quoted context.
func appendEscapeAttr(dst []byte, s string) []byte {
	return appendEscaped(dst, s, &attrEscapes)
}

// EscapeHTML escapes text for safe inclusion in HTML content.
func EscapeHTML(s string) string {
	if !needsEscape(s, &textEscapes) {
		return s
	}
	return string(appendEscapeHTML(make([]byte, 0, len(s)+16), s))
}

// EscapeAttr escapes text for safe inclusion in a quoted attribute value.
func EscapeAttr(s string) string {
	if !needsEscape(s, &attrEscapes) {
		return s
	}
	return string(appendEscapeAttr(make([]byte, 0, len(s)+16), s))
}

func needsEscape(s string, table *[256]string) bool {
	for i := 0; i < len(s); i++ {
		if table[s[i]] != "" {
			return true
		}
	}
	return false
}
