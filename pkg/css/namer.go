package css

import "strconv"

// Namer allocates generated class names for styles within one render pass.
//
// Names have the form "{property}-{N}" where N starts at 0 and advances once
// per distinct Style. Asking again for an equal Style returns the name it was
// given the first time. A Namer is not safe for concurrent use; each render
// pass owns its own.
type Namer struct {
	names map[Style]string
	order []Style
	next  int
}

// NewNamer creates an empty Namer.
func NewNamer() *Namer {
	return &Namer{names: make(map[Style]string)}
}

// Name returns the class name for s, allocating one if needed.
func (n *Namer) Name(s Style) string {
	if name, ok := n.names[s]; ok {
		return name
	}
	name := sanitize(s.Property) + "-" + strconv.Itoa(n.next)
	n.next++
	n.names[s] = name
	n.order = append(n.order, s)
	return name
}

// Lookup returns the name previously allocated to s.
func (n *Namer) Lookup(s Style) (string, bool) {
	name, ok := n.names[s]
	return name, ok
}

// Len returns the number of distinct styles named so far.
func (n *Namer) Len() int {
	return len(n.order)
}

// Styles returns the named styles in allocation order.
func (n *Namer) Styles() []Style {
	out := make([]Style, len(n.order))
	copy(out, n.order)
	return out
}

// sanitize keeps class names usable as selectors for custom properties
// such as "--accent".
func sanitize(property string) string {
	clean := true
	for i := 0; i < len(property); i++ {
		if !isNameByte(property[i]) {
			clean = false
			break
		}
	}
	if clean && property != "" && property[0] != '-' {
		return property
	}

	buf := make([]byte, 0, len(property))
	for i := 0; i < len(property); i++ {
		c := property[i]
		if isNameByte(c) {
			buf = append(buf, c)
		}
	}
	for len(buf) > 0 && buf[0] == '-' {
		buf = buf[1:]
	}
	if len(buf) == 0 {
		return "s"
	}
	return string(buf)
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
