package render

import "strings"

// Attribute is a single name/value pair. An empty Value renders the bare
// name (boolean form).
type Attribute struct {
	Name  string
	Value string
}

// Attributes is an ordered attribute set. Setting an existing name
// overwrites its value in place, except for "class" whose tokens are
// space-joined. Attributes is a value type: every method that changes the
// set returns a copy and leaves the receiver untouched.
type Attributes struct {
	list []Attribute
}

// NewAttributes builds a set from pairs in order.
func NewAttributes(attrs ...Attribute) Attributes {
	var a Attributes
	for _, attr := range attrs {
		a = a.With(attr.Name, attr.Value)
	}
	return a
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a.list)
}

// Get returns the value for name.
func (a Attributes) Get(name string) (string, bool) {
	if i := a.index(name); i >= 0 {
		return a.list[i].Value, true
	}
	return "", false
}

// All returns a copy of the attributes in insertion order.
func (a Attributes) All() []Attribute {
	out := make([]Attribute, len(a.list))
	copy(out, a.list)
	return out
}

// With returns a copy with name set to value.
func (a Attributes) With(name, value string) Attributes {
	if name == "" {
		return a
	}
	out := make([]Attribute, len(a.list), len(a.list)+1)
	copy(out, a.list)

	for i := range out {
		if out[i].Name != name {
			continue
		}
		if name == "class" {
			out[i].Value = joinClass(out[i].Value, value)
		} else {
			out[i].Value = value
		}
		return Attributes{list: out}
	}
	return Attributes{list: append(out, Attribute{Name: name, Value: value})}
}

// Without returns a copy with name removed.
func (a Attributes) Without(name string) Attributes {
	i := a.index(name)
	if i < 0 {
		return a
	}
	out := make([]Attribute, 0, len(a.list)-1)
	out = append(out, a.list[:i]...)
	out = append(out, a.list[i+1:]...)
	return Attributes{list: out}
}

// Merge returns a copy with every attribute of other applied on top.
func (a Attributes) Merge(other Attributes) Attributes {
	if len(other.list) == 0 {
		return a
	}
	if len(a.list) == 0 {
		return other
	}
	out := a
	for _, attr := range other.list {
		out = out.With(attr.Name, attr.Value)
	}
	return out
}

func (a Attributes) index(name string) int {
	for i := range a.list {
		if a.list[i].Name == name {
			return i
		}
	}
	return -1
}

// writeTo writes ` name="value"` for each attribute.
func (a Attributes) writeTo(b *Buffer) {
	for _, attr := range a.list {
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		if attr.Value == "" {
			continue
		}
		b.WriteString(`="`)
		b.writeEscaped(attr.Value, &attrEscapes)
		b.WriteByte('"')
	}
}

// joinClass appends the tokens of add that current does not already hold.
func joinClass(current, add string) string {
	if current == "" {
		return add
	}
	existing := strings.Fields(current)
	var b strings.Builder
	b.WriteString(current)
	for _, token := range strings.Fields(add) {
		dup := false
		for _, e := range existing {
			if e == token {
				dup = true
				break
			}
		}
		if !dup {
			b.WriteByte(' ')
			b.WriteString(token)
			existing = append(existing, token)
		}
	}
	return b.String()
}
