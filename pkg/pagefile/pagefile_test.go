package pagefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/render"
)

const homePage = `
title: Home
lang: en
head:
  - tag: meta
    attrs: {charset: utf-8}
body:
  - tag: main
    attrs:
      id: root
      data-count: 3
      hidden: true
      draft: false
      removed: null
    styles:
      - {property: padding, value: 8px}
      - {property: color, value: blue, pseudo: ":hover"}
      - {property: display, value: none, media: print}
    children:
      - tag: h1
        text: Welcome
      - Tom & Jerry
      - raw: <hr>
`

func TestDecodeAndRender(t *testing.T) {
	page, err := Decode(strings.NewReader(homePage))
	require.NoError(t, err)

	assert.Equal(t, "Home", page.Title)
	assert.Equal(t, "en", page.Lang)
	require.Len(t, page.Body, 1)

	main := page.Body[0]
	assert.Equal(t, Attrs{
		{Name: "id", Value: "root"},
		{Name: "data-count", Value: "3"},
		{Name: "hidden"},
	}, main.Attrs)
	assert.Equal(t, 8, main.Line)
	require.Len(t, main.Children, 3)
	assert.Equal(t, "Tom & Jerry", main.Children[1].Text)

	out, err := render.NewRenderer(render.DefaultConfig()).RenderDocument(page.Document())
	require.NoError(t, err)

	want := `<!doctype html><html lang="en"><head><title>Home</title><meta charset="utf-8">` +
		`<style>.padding-0{padding:8px}.color-1:hover{color:blue}@media print{.display-2{display:none}}</style>` +
		`</head><body><main id="root" data-count="3" hidden class="padding-0 color-1 display-2">` +
		`<h1>Welcome</h1>Tom &amp; Jerry<hr></main></body></html>`
	assert.Equal(t, want, string(out))
}

func TestDecodeRejectsInvalidElements(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"nothing set", "body:\n  - attrs: {id: x}\n"},
		{"text and raw", "body:\n  - text: hi\n    raw: <b>\n"},
		{"nested", "body:\n  - tag: div\n    children:\n      - attrs: {id: x}\n"},
		{"text with children", "body:\n  - text: hi\n    children: [x]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidElement)
			assert.Equal(t, "P003", errors.Code(err))
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader("title: [unclosed\n"))
	require.Error(t, err)
	assert.Equal(t, "P001", errors.Code(err))

	_, err = Decode(strings.NewReader("titel: typo\n"))
	assert.Equal(t, "P001", errors.Code(err), "unknown top-level keys are rejected")

	_, err = Decode(strings.NewReader("body:\n  - tag: p\n    attrs: [a, b]\n"))
	assert.Equal(t, "P001", errors.Code(err))

	page, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, page.Body)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "about.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: About\nbody:\n  - tag: p\n    text: hi\n"), 0o644))

	page, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "about", page.Name)
	assert.Equal(t, path, page.Path)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, "P002", errors.Code(err))
}

func TestLoadReportsLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("body:\n  - tag: p\n  - text: a\n    raw: <b>\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	require.NotNil(t, e.Location)
	assert.Equal(t, path, e.Location.File)
	assert.Equal(t, 3, e.Location.Line)
	assert.NotEmpty(t, e.Context)
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "index", NameOf("/srv/pages/index.yaml"))
	assert.Equal(t, "notes.v2", NameOf("notes.v2.yml"))
}
