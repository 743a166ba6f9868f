// Package pagefile decodes YAML page descriptions into render trees.
//
// A page file looks like:
//
//	title: Home
//	lang: en
//	head:
//	  - tag: meta
//	    attrs: {charset: utf-8}
//	body:
//	  - tag: main
//	    styles:
//	      - {property: padding, value: 8px}
//	      - {property: color, value: blue, pseudo: ":hover"}
//	    children:
//	      - tag: h1
//	        text: Welcome
//	      - Plain strings are text nodes.
//	      - raw: <hr>
//
// Attributes keep the order they have in the file. A null attribute value
// omits the attribute; true renders the bare name and false omits it.
package pagefile

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/css"
	"github.com/vango-dev/loom/pkg/render"
)

// ErrInvalidElement is returned for an element that sets neither tag, text
// nor raw, sets both text and raw, or has attributes, styles or children
// without a tag.
var ErrInvalidElement = stderrors.New("pagefile: invalid element")

// Page is a decoded page file.
type Page struct {
	// Name is the file name without extension. Set by Load.
	Name string `yaml:"-"`

	// Path is the file the page was loaded from. Set by Load.
	Path string `yaml:"-"`

	Title string    `yaml:"title"`
	Lang  string    `yaml:"lang"`
	Head  []Element `yaml:"head"`
	Body  []Element `yaml:"body"`
}

// Element is one node of a page: an element (Tag), escaped text (Text) or
// trusted markup (Raw). An element with a tag renders its Text or Raw
// content before its children.
type Element struct {
	Tag      string    `yaml:"tag"`
	Text     string    `yaml:"text"`
	Raw      string    `yaml:"raw"`
	Attrs    Attrs     `yaml:"attrs"`
	Styles   []Style   `yaml:"styles"`
	Children []Element `yaml:"children"`

	// Line and Column locate the element in its file.
	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// Style is one style declaration of an element.
type Style struct {
	Property string `yaml:"property"`
	Value    string `yaml:"value"`
	Media    string `yaml:"media"`
	AtRule   string `yaml:"at_rule"`
	Selector string `yaml:"selector"`
	Pseudo   string `yaml:"pseudo"`
}

// Attrs is an ordered attribute list decoded from a YAML mapping.
type Attrs []render.Attribute

// UnmarshalYAML implements yaml.Unmarshaler, keeping mapping order.
func (a *Attrs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: attrs must be a mapping", value.Line)
	}

	out := make(Attrs, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: attribute %q must be a scalar", val.Line, key.Value)
		}

		switch val.ShortTag() {
		case "!!null":
			continue
		case "!!bool":
			var on bool
			if err := val.Decode(&on); err != nil {
				return err
			}
			if on {
				out = append(out, render.Attribute{Name: key.Value})
			}
			continue
		}
		out = append(out, render.Attribute{Name: key.Value, Value: val.Value})
	}
	*a = out
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler. A plain scalar is shorthand
// for a text node.
func (e *Element) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*e = Element{Text: value.Value, Line: value.Line, Column: value.Column}
		return nil
	}

	type plain Element
	if err := value.Decode((*plain)(e)); err != nil {
		return err
	}
	e.Line = value.Line
	e.Column = value.Column
	return nil
}

// Decode reads a page from r.
func Decode(r io.Reader) (*Page, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Page
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return nil, errors.New("P001").Wrap(err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and decodes the page file at path.
func Load(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.New("P002").WithDetailf("page file %s does not exist", path).Wrap(err)
		}
		return nil, errors.New("P001").Wrap(err)
	}

	p, err := Decode(bytes.NewReader(data))
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) {
			if e.Location != nil && e.Location.Line > 0 {
				e.WithLocation(path, e.Location.Line, e.Location.Column)
			} else {
				e.Location = &errors.Location{File: path}
			}
		}
		return nil, err
	}

	p.Path = path
	p.Name = NameOf(path)
	return p, nil
}

// NameOf returns the page name for a file path: the base name without its
// extension.
func NameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Validate checks the structure of every element.
func (p *Page) Validate() error {
	for _, list := range [][]Element{p.Head, p.Body} {
		for i := range list {
			if err := list[i].validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Element) validate() error {
	switch {
	case e.Tag == "" && e.Text == "" && e.Raw == "":
		return e.invalid("An element must set tag, text or raw.")
	case e.Text != "" && e.Raw != "":
		return e.invalid("An element cannot set both text and raw.")
	case e.Tag == "" && (len(e.Attrs) > 0 || len(e.Styles) > 0 || len(e.Children) > 0):
		return e.invalid("Only tag elements can have attributes, styles or children.")
	}
	for i := range e.Children {
		if err := e.Children[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Element) invalid(detail string) error {
	err := errors.New("P003").WithDetail(detail).Wrap(ErrInvalidElement)
	err.Location = &errors.Location{Line: e.Line, Column: e.Column}
	return err
}

// content returns the element's own text or raw content.
func (e Element) content() render.Node {
	switch {
	case e.Text != "":
		return render.Text(e.Text)
	case e.Raw != "":
		return render.Raw(e.Raw)
	}
	return nil
}

// Node converts the element into a render node.
func (e Element) Node() render.Node {
	if e.Tag == "" {
		return e.content()
	}

	children := nodes(e.Children)
	if c := e.content(); c != nil {
		children = append([]render.Node{c}, children...)
	}
	el := render.NewElement(e.Tag, children...)
	for _, a := range e.Attrs {
		el = el.Attr(a.Name, a.Value)
	}
	if len(e.Styles) == 0 {
		return el
	}

	styled := render.Styled{Content: el}
	for _, s := range e.Styles {
		styled = styled.With(s.Style())
	}
	return styled
}

// Style converts the declaration into a css.Style.
func (s Style) Style() css.Style {
	var opts []css.Option
	switch {
	case s.Media != "":
		opts = append(opts, css.Media(s.Media))
	case s.AtRule != "":
		opts = append(opts, css.AtRule(s.AtRule))
	}
	if s.Selector != "" {
		opts = append(opts, css.Selector(s.Selector))
	}
	if s.Pseudo != "" {
		opts = append(opts, css.Pseudo(s.Pseudo))
	}
	return css.New(s.Property, s.Value, opts...)
}

func nodes(elements []Element) []render.Node {
	out := make([]render.Node, len(elements))
	for i, e := range elements {
		out[i] = e.Node()
	}
	return out
}

// BodyNode returns the page body as a single node.
func (p *Page) BodyNode() render.Node {
	return render.Group(nodes(p.Body)...)
}

// Document converts the page into a render document.
func (p *Page) Document() render.Document {
	return render.Document{
		Title: p.Title,
		Lang:  p.Lang,
		Head:  render.Group(nodes(p.Head)...),
		Body:  p.BodyNode(),
	}
}
