package el

import (
	"slices"
	"strconv"
	"strings"
)

// attr creates an Attr with the given name and value.
func attr(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// flag creates a boolean attribute, rendered as the bare name.
func flag(name string) Attr {
	return Attr{Name: name}
}

// boolString renders b the way ARIA and enumerated attributes expect.
func boolString(b bool) string {
	return strconv.FormatBool(b)
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute. Classes from several Class arguments are
// joined, not replaced.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the inline style attribute verbatim.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Accessibility attributes

func Role(role string) Attr           { return attr("role", role) }
func AriaLabel(label string) Attr     { return attr("aria-label", label) }
func AriaHidden(hidden bool) Attr     { return attr("aria-hidden", boolString(hidden)) }
func AriaExpanded(expanded bool) Attr { return attr("aria-expanded", boolString(expanded)) }
func AriaDescribedBy(id string) Attr  { return attr("aria-describedby", id) }
func AriaLabelledBy(id string) Attr   { return attr("aria-labelledby", id) }
func AriaLive(mode string) Attr       { return attr("aria-live", mode) }
func AriaControls(id string) Attr     { return attr("aria-controls", id) }
func AriaCurrent(value string) Attr   { return attr("aria-current", value) }
func TabIndex(index int) Attr         { return attr("tabindex", strconv.Itoa(index)) }

// Global attributes

// Hidden sets the hidden attribute.
func Hidden() Attr { return flag("hidden") }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return attr("title", title) }

func Lang(lang string) Attr { return attr("lang", lang) }
func Dir(dir string) Attr   { return attr("dir", dir) }

// Link attributes

func Href(url string) Attr      { return attr("href", url) }
func Target(target string) Attr { return attr("target", target) }
func Rel(rel string) Attr       { return attr("rel", rel) }
func Hreflang(lang string) Attr { return attr("hreflang", lang) }

// Download sets the download attribute, with an optional file name.
func Download(filename ...string) Attr {
	if len(filename) > 0 && filename[0] != "" {
		return attr("download", filename[0])
	}
	return flag("download")
}

// Form attributes

func Name(name string) Attr          { return attr("name", name) }
func Value(value string) Attr        { return attr("value", value) }
func Type(t string) Attr             { return attr("type", t) }
func Placeholder(text string) Attr   { return attr("placeholder", text) }
func Disabled() Attr                 { return flag("disabled") }
func Readonly() Attr                 { return flag("readonly") }
func Required() Attr                 { return flag("required") }
func Checked() Attr                  { return flag("checked") }
func Selected() Attr                 { return flag("selected") }
func Multiple() Attr                 { return flag("multiple") }
func Autofocus() Attr                { return flag("autofocus") }
func Autocomplete(value string) Attr { return attr("autocomplete", value) }
func Pattern(pattern string) Attr    { return attr("pattern", pattern) }
func MinLength(n int) Attr           { return attr("minlength", strconv.Itoa(n)) }
func MaxLength(n int) Attr           { return attr("maxlength", strconv.Itoa(n)) }
func Min(value string) Attr          { return attr("min", value) }
func Max(value string) Attr          { return attr("max", value) }
func Step(value string) Attr         { return attr("step", value) }
func Rows(n int) Attr                { return attr("rows", strconv.Itoa(n)) }
func Cols(n int) Attr                { return attr("cols", strconv.Itoa(n)) }
func Action(url string) Attr         { return attr("action", url) }
func Method(method string) Attr      { return attr("method", method) }
func For(id string) Attr             { return attr("for", id) }

// Media attributes

func Src(url string) Attr      { return attr("src", url) }
func Alt(text string) Attr     { return attr("alt", text) }
func Width(w int) Attr         { return attr("width", strconv.Itoa(w)) }
func Height(h int) Attr        { return attr("height", strconv.Itoa(h)) }
func Loading(mode string) Attr { return attr("loading", mode) }
func Srcset(set string) Attr   { return attr("srcset", set) }

// Table attributes

func Colspan(n int) Attr      { return attr("colspan", strconv.Itoa(n)) }
func Rowspan(n int) Attr      { return attr("rowspan", strconv.Itoa(n)) }
func Scope(scope string) Attr { return attr("scope", scope) }

// Meta attributes

func Charset(charset string) Attr { return attr("charset", charset) }
func Content(content string) Attr { return attr("content", content) }
func HttpEquiv(value string) Attr { return attr("http-equiv", value) }

// Script attributes

func Defer_() Attr                  { return flag("defer") }
func Async() Attr                   { return flag("async") }
func Integrity(value string) Attr   { return attr("integrity", value) }
func Crossorigin(value string) Attr { return attr("crossorigin", value) }

// Conditional attributes

// ClassIf adds a class conditionally.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return attr("class", class)
	}
	return Attr{} // Empty attr, will be ignored
}

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}

// AttrPtr sets an attribute from an optional value; nil omits it.
func AttrPtr(name string, value *string) Attr {
	if value == nil {
		return Attr{}
	}
	return attr(name, *value)
}

// Classes merges multiple class values.
// Accepts string, []string, and map[string]bool. Map entries are added in
// sorted order so output stays deterministic.
func Classes(classes ...any) Attr {
	var result []string
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			if v != "" {
				result = append(result, v)
			}
		case []string:
			for _, s := range v {
				if s != "" {
					result = append(result, s)
				}
			}
		case map[string]bool:
			keys := make([]string, 0, len(v))
			for class, include := range v {
				if include && class != "" {
					keys = append(keys, class)
				}
			}
			slices.Sort(keys)
			result = append(result, keys...)
		}
	}
	if len(result) == 0 {
		return Attr{}
	}
	return attr("class", strings.Join(result, " "))
}
