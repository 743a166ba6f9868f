package render

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/vango-dev/loom/pkg/css"
)

func TestRenderDocument(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		doc      Document
		expected string
	}{
		{
			name:     "empty document",
			cfg:      DefaultConfig(),
			doc:      Document{},
			expected: "<!doctype html><html><head></head><body></body></html>",
		},
		{
			name: "stylesheet from body styles",
			cfg:  DefaultConfig(),
			doc: Document{
				Body: NewElement("div", Text("Hello")).Style("color", "red"),
			},
			expected: `<!doctype html><html><head><style>.color-0{color:red}</style></head>` +
				`<body><div class="color-0">Hello</div></body></html>`,
		},
		{
			name: "duplicate styles share one rule",
			cfg:  DefaultConfig(),
			doc: Document{
				Body: Tuple{
					NewElement("p", Text("a")).Style("color", "red"),
					NewElement("p", Text("b")).Style("color", "red"),
				},
			},
			expected: `<!doctype html><html><head><style>.color-0{color:red}</style></head>` +
				`<body><p class="color-0">a</p><p class="color-0">b</p></body></html>`,
		},
		{
			name: "title and lang",
			cfg:  DefaultConfig(),
			doc: Document{
				Title: "a<b",
				Lang:  "en",
				Body:  Text("x"),
			},
			expected: `<!doctype html><html lang="en"><head><title>a&lt;b</title></head><body>x</body></html>`,
		},
		{
			name: "head styles do not collide with body styles",
			cfg:  DefaultConfig(),
			doc: Document{
				Head: WithStyle(NewElement("link"), css.New("display", "none")),
				Body: NewElement("p").Style("color", "red"),
			},
			expected: `<!doctype html><html><head><link class="display-1">` +
				`<style>.color-0{color:red}.display-1{display:none}</style></head>` +
				`<body><p class="color-0"></p></body></html>`,
		},
		{
			name: "media and pseudo rules",
			cfg:  DefaultConfig(),
			doc: Document{
				Body: Tuple{
					NewElement("a").Style("color", "blue", css.Pseudo(css.Hover)),
					NewElement("nav").Style("display", "none", css.Media("print")),
					NewElement("b").Style("margin", "0"),
				},
			},
			expected: `<!doctype html><html><head><style>` +
				`.color-0:hover{color:blue}.margin-2{margin:0}@media print{.display-1{display:none}}` +
				`</style></head><body><a class="color-0"></a><nav class="display-1"></nav>` +
				`<b class="margin-2"></b></body></html>`,
		},
		{
			name: "selector override keeps class",
			cfg:  DefaultConfig(),
			doc: Document{
				Body: NewElement("h1").Style("color", "red", css.Selector("h1")),
			},
			expected: `<!doctype html><html><head><style>h1{color:red}</style></head>` +
				`<body><h1 class="color-0"></h1></body></html>`,
		},
		{
			name: "force important",
			cfg:  Config{ForceImportant: true},
			doc: Document{
				Body: NewElement("td").Style("padding", "4px"),
			},
			expected: `<!doctype html><html><head><style>.padding-0{padding:4px!important}</style></head>` +
				`<body><td class="padding-0"></td></body></html>`,
		},
		{
			name: "pretty document",
			cfg:  PrettyConfig(),
			doc: Document{
				Title: "T",
				Body:  NewElement("div", Text("Hi")).Style("color", "red"),
			},
			expected: "<!doctype html>\n" +
				"<html>\n" +
				"  <head>\n" +
				"    <title>T</title>\n" +
				"    <style>\n" +
				"      .color-0{color:red}\n" +
				"    </style>\n" +
				"  </head>\n" +
				"  <body>\n" +
				"    <div class=\"color-0\">Hi</div>\n" +
				"  </body>\n" +
				"</html>",
		},
		{
			name: "pretty document with at-rule",
			cfg:  PrettyConfig(),
			doc: Document{
				Title: "T",
				Body:  NewElement("nav", Text("Hi")).Style("display", "none", css.Media("print")),
			},
			expected: "<!doctype html>\n" +
				"<html>\n" +
				"  <head>\n" +
				"    <title>T</title>\n" +
				"    <style>\n" +
				"      @media print{\n" +
				"        .display-0{display:none}\n" +
				"      }\n" +
				"    </style>\n" +
				"  </head>\n" +
				"  <body>\n" +
				"    <nav class=\"display-0\">Hi</nav>\n" +
				"  </body>\n" +
				"</html>",
		},
		{
			name: "style without an element leaves no rule",
			cfg:  DefaultConfig(),
			doc: Document{
				Body: Tuple{
					WithStyle(Text("hi"), css.New("color", "red")),
					NewElement("p"),
				},
			},
			expected: `<!doctype html><html><head></head><body>hi<p></p></body></html>`,
		},
		{
			name: "style reaches the element inside a fragment",
			cfg:  DefaultConfig(),
			doc: Document{
				Body: WithStyle(Tuple{Text("a"), NewElement("em", Text("b"))}, css.New("color", "red")),
			},
			expected: `<!doctype html><html><head><style>.color-0{color:red}</style></head>` +
				`<body>a<em class="color-0">b</em></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewRenderer(tt.cfg).RenderDocument(tt.doc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(out) != tt.expected {
				t.Errorf("got\n%s\nwant\n%s", out, tt.expected)
			}
		})
	}
}

func TestDocumentIsRenderedTwiceIdentically(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	doc := Document{Body: Tuple{
		NewElement("p").Style("color", "red"),
		NewElement("p").Style("margin", "0"),
	}}

	first, _ := r.RenderDocument(doc)
	second, _ := r.RenderDocument(doc)
	if string(first) != string(second) {
		t.Errorf("document output not deterministic:\n%s\n%s", first, second)
	}
}

func TestRenderDocumentContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRenderer(DefaultConfig()).RenderDocumentContext(ctx, Document{Body: listOf(3)})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDocumentBodyError(t *testing.T) {
	_, err := NewRenderer(DefaultConfig()).RenderDocument(Document{Body: failingNode{errBoom}})
	if !stderrors.Is(err, errBoom) {
		t.Errorf("expected errBoom, got %v", err)
	}
}
