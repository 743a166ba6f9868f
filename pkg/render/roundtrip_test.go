package render

import (
	"io"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// token is a simplified view of an HTML token for structural comparison.
type token struct {
	kind  html.TokenType
	data  string
	attrs []html.Attribute
}

func tokenize(t *testing.T, s string) []token {
	t.Helper()

	var out []token
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				t.Fatalf("tokenize: %v", z.Err())
			}
			return out
		}
		tok := z.Token()
		if tt == html.TextToken && strings.TrimSpace(tok.Data) == "" {
			continue
		}
		out = append(out, token{kind: tt, data: strings.TrimSpace(tok.Data), attrs: tok.Attr})
	}
}

func TestRoundTripStructure(t *testing.T) {
	tree := Document{
		Title: `Tom & "Jerry"`,
		Lang:  "en",
		Body: NewElement("main",
			NewElement("h1", Text("Hello <world>")),
			NewElement("ul", ForEach([]string{"a & b", `"quoted"`, "it's"}, func(s string, i int) Element {
				return NewElement("li", Text(s)).Attr("data-value", s).BoolAttr("hidden", i == 1)
			})),
			NewElement("input").Attr("type", "text").Attr("value", `<x y="z">`),
			NewElement("pre", Text("  keep\n  spacing  ")),
		),
	}

	minified, err := NewRenderer(DefaultConfig()).RenderDocument(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pretty, err := NewRenderer(PrettyConfig()).RenderDocument(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := tokenize(t, string(minified))
	b := tokenize(t, string(pretty))
	if len(a) != len(b) {
		t.Fatalf("token count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].kind != b[i].kind || a[i].data != b[i].data || len(a[i].attrs) != len(b[i].attrs) {
			t.Fatalf("token %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	var texts, values []string
	for _, tok := range a {
		if tok.kind == html.TextToken {
			texts = append(texts, tok.data)
		}
		for _, attr := range tok.attrs {
			if attr.Key == "data-value" || attr.Key == "value" {
				values = append(values, attr.Val)
			}
		}
	}

	wantTexts := []string{`Tom & "Jerry"`, "Hello <world>", "a & b", `"quoted"`, "it's", "keep\n  spacing"}
	if strings.Join(texts, "|") != strings.Join(wantTexts, "|") {
		t.Errorf("texts = %q\nwant    %q", texts, wantTexts)
	}
	wantValues := []string{"a & b", `"quoted"`, "it's", `<x y="z">`}
	if strings.Join(values, "|") != strings.Join(wantValues, "|") {
		t.Errorf("attribute values = %q\nwant              %q", values, wantValues)
	}
}

func TestVoidElementsHaveNoEndTag(t *testing.T) {
	for _, tag := range []string{"br", "hr", "img", "input", "meta", "link", "source", "wbr"} {
		out := mustRender(t, PrettyConfig(), NewElement(tag, Text("child")))
		if strings.Contains(out, "</"+tag+">") || strings.Contains(out, "child") {
			t.Errorf("%s rendered %q", tag, out)
		}
	}
}
