package css

import "strings"

// Common pseudo-classes and pseudo-elements.
const (
	Hover        = ":hover"
	Focus        = ":focus"
	FocusVisible = ":focus-visible"
	Active       = ":active"
	Visited      = ":visited"
	Disabled     = ":disabled"
	FirstChild   = ":first-child"
	LastChild    = ":last-child"
	Before       = "::before"
	After        = "::after"
)

// Style is a single CSS declaration with its optional scoping.
type Style struct {
	Property string
	Value    string

	// AtRule is the enclosing at-rule, e.g. "@media (max-width:600px)".
	AtRule string

	// Selector replaces the generated class selector when set.
	Selector string

	// Pseudo is appended to the selector, e.g. ":hover".
	Pseudo string
}

// Option configures a Style.
type Option func(*Style)

// New creates a Style for the given property and value.
func New(property, value string, opts ...Option) Style {
	s := Style{Property: property, Value: value}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Media scopes the style to a media query.
// Example: Media("(max-width:600px)") → "@media (max-width:600px)"
func Media(query string) Option {
	return func(s *Style) {
		s.AtRule = "@media " + query
	}
}

// AtRule scopes the style to an arbitrary at-rule, used verbatim.
func AtRule(rule string) Option {
	return func(s *Style) {
		s.AtRule = rule
	}
}

// Selector overrides the generated class selector.
func Selector(selector string) Option {
	return func(s *Style) {
		s.Selector = selector
	}
}

// Pseudo attaches a pseudo-class or pseudo-element.
func Pseudo(pseudo string) Option {
	return func(s *Style) {
		s.Pseudo = pseudo
	}
}

// Declaration returns the declaration body, "property:value", with
// "!important" appended when important is set and the value lacks it.
func (s Style) Declaration(important bool) string {
	decl := s.Property + ":" + s.Value
	if important && !strings.HasSuffix(s.Value, "!important") {
		decl += "!important"
	}
	return decl
}

// Key returns the sheet key the style is recorded under when it has been
// allocated the given class name.
func (s Style) Key(className string) Key {
	selector := s.Selector
	if selector == "" {
		selector = "." + className
	}
	return Key{AtRule: s.AtRule, Selector: selector + s.Pseudo}
}

// String returns a debug representation.
func (s Style) String() string {
	var b strings.Builder
	if s.AtRule != "" {
		b.WriteString(s.AtRule)
		b.WriteByte(' ')
	}
	if s.Selector != "" {
		b.WriteString(s.Selector)
	}
	b.WriteString(s.Pseudo)
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(s.Declaration(false))
	return b.String()
}
