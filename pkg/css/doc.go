// Package css provides the style side of the rendering engine.
//
// A Style is a single declaration (property and value) plus optional
// at-rule, selector override and pseudo-class. Styles are comparable values,
// so identical declarations anywhere in a tree collapse to one entry.
//
// During a render pass a Namer allocates a class name for every distinct
// Style ("color-0", "margin-1", ...) and a Sheet accumulates declaration
// bodies keyed by (at-rule, selector). Once the pass is complete the Sheet is
// serialized into a single stylesheet:
//
//	namer := css.NewNamer()
//	sheet := css.NewSheet()
//	s := css.New("color", "red", css.Pseudo(css.Hover))
//	name := namer.Name(s)
//	sheet.Add(s.Key(name), s.Declaration(false))
//	fmt.Println(sheet.String()) // .color-0:hover{color:red}
//
// The at-rule, selector and pseudo-class strings are consumed verbatim.
package css
