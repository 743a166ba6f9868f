package css

import "io"

// Key identifies one rule block: the enclosing at-rule (empty for top-level)
// and the full selector.
type Key struct {
	AtRule   string
	Selector string
}

// Format controls stylesheet whitespace. The zero value is minified.
// Prefix is written at the start of every line, so a sheet can be nested
// at the depth of its <style> element.
type Format struct {
	Indent  string
	Newline string
	Prefix  string
}

// Sheet is an ordered style table. Declarations accumulate per Key in the
// order keys were first seen; a declaration already present under a key is
// not added twice.
type Sheet struct {
	keys  []Key
	rules map[Key][]string
}

// NewSheet creates an empty Sheet.
func NewSheet() *Sheet {
	return &Sheet{rules: make(map[Key][]string)}
}

// Add records decl under key.
func (s *Sheet) Add(key Key, decl string) {
	decls, ok := s.rules[key]
	if !ok {
		s.keys = append(s.keys, key)
	}
	for _, d := range decls {
		if d == decl {
			return
		}
	}
	s.rules[key] = append(decls, decl)
}

// Merge adds every rule of other, preserving other's order for keys that are
// new to s.
func (s *Sheet) Merge(other *Sheet) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		for _, decl := range other.rules[key] {
			s.Add(key, decl)
		}
	}
}

// Len returns the number of rule blocks.
func (s *Sheet) Len() int {
	return len(s.keys)
}

// Empty reports whether the sheet has no rules.
func (s *Sheet) Empty() bool {
	return len(s.keys) == 0
}

// Keys returns rule keys in first-occurrence order.
func (s *Sheet) Keys() []Key {
	out := make([]Key, len(s.keys))
	copy(out, s.keys)
	return out
}

// Declarations returns the declarations recorded under key.
func (s *Sheet) Declarations(key Key) []string {
	return append([]string(nil), s.rules[key]...)
}

// AppendTo serializes the sheet onto dst. Top-level rules come first, then
// one block per at-rule in order of the at-rule's first occurrence.
func (s *Sheet) AppendTo(dst []byte, f Format) []byte {
	var atRules []string
	grouped := make(map[string][]Key)

	for _, key := range s.keys {
		if key.AtRule == "" {
			dst = s.appendRule(dst, key, f, f.Prefix)
			continue
		}
		if _, seen := grouped[key.AtRule]; !seen {
			atRules = append(atRules, key.AtRule)
		}
		grouped[key.AtRule] = append(grouped[key.AtRule], key)
	}

	for _, rule := range atRules {
		dst = append(dst, f.Prefix...)
		dst = append(dst, rule...)
		dst = append(dst, '{')
		dst = append(dst, f.Newline...)
		for _, key := range grouped[rule] {
			dst = s.appendRule(dst, key, f, f.Prefix+f.Indent)
		}
		dst = append(dst, f.Prefix...)
		dst = append(dst, '}')
		dst = append(dst, f.Newline...)
	}
	return dst
}

func (s *Sheet) appendRule(dst []byte, key Key, f Format, indent string) []byte {
	dst = append(dst, indent...)
	dst = append(dst, key.Selector...)
	dst = append(dst, '{')
	for i, decl := range s.rules[key] {
		if i > 0 {
			dst = append(dst, ';')
		}
		dst = append(dst, decl...)
	}
	dst = append(dst, '}')
	dst = append(dst, f.Newline...)
	return dst
}

// Format returns the serialized sheet.
func (s *Sheet) Format(f Format) string {
	return string(s.AppendTo(nil, f))
}

// String returns the minified stylesheet.
func (s *Sheet) String() string {
	return s.Format(Format{})
}

// WriteTo writes the minified stylesheet to w.
func (s *Sheet) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.AppendTo(nil, Format{}))
	return int64(n), err
}
