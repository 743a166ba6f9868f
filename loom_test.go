package loom_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/loom"
	. "github.com/vango-dev/loom/el"
	"github.com/vango-dev/loom/pkg/render"
)

func TestRenderDocument(t *testing.T) {
	page := Page("Hello",
		Main(
			H1(Text("Hello")),
		).Style("padding", "8px"),
	)

	html, err := loom.RenderDocument(page)
	require.NoError(t, err)
	assert.Equal(t,
		`<!doctype html><html><head><title>Hello</title><style>.padding-0{padding:8px}</style></head>`+
			`<body><main class="padding-0"><h1>Hello</h1></main></body></html>`,
		string(html))
}

func TestRenderString(t *testing.T) {
	s, err := loom.RenderString(P(Text("a < b")))
	require.NoError(t, err)
	assert.Equal(t, "<p>a &lt; b</p>", s)
}

func TestStreamMatchesRender(t *testing.T) {
	n := Ul(render.ForEach([]string{"one", "two", "three"}, func(s string, _ int) Node {
		return Li(Text(s))
	}))
	want, err := loom.Render(n)
	require.NoError(t, err)

	for _, mode := range []loom.Mode{loom.ModeBatch, loom.ModeProgressive, loom.ModeBackpressure} {
		var got []byte
		for chunk, err := range loom.Stream(context.Background(), n, loom.StreamOptions{ChunkSize: 5, Mode: mode}) {
			require.NoError(t, err, mode.String())
			assert.LessOrEqual(t, len(chunk), 5)
			got = append(got, chunk...)
		}
		assert.Equal(t, string(want), string(got), mode.String())
	}
}

func TestStreamTo(t *testing.T) {
	var buf bytes.Buffer
	err := loom.StreamTo(context.Background(), &buf, Div(Text("x")), loom.StreamOptions{ChunkSize: loom.DefaultChunkSize, Mode: loom.ModeBatch})
	require.NoError(t, err)
	assert.Equal(t, "<div>x</div>", buf.String())
}

func TestStreamInvalidChunkSize(t *testing.T) {
	for _, err := range loom.Stream(context.Background(), Div(), loom.StreamOptions{ChunkSize: 0, Mode: loom.ModeBatch}) {
		assert.True(t, errors.Is(err, loom.ErrInvalidChunkSize))
	}
}

func TestStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var last error
	for _, err := range loom.Stream(ctx, Div(Text("x")), loom.StreamOptions{ChunkSize: 4, Mode: loom.ModeProgressive}) {
		last = err
	}
	require.Error(t, last)
	assert.True(t, loom.IsCancellation(last))
}

func TestConfigPresets(t *testing.T) {
	cfg, err := loom.ConfigByName("pretty")
	require.NoError(t, err)
	assert.Equal(t, loom.PrettyConfig(), cfg)

	_, err = loom.ConfigByName("nope")
	assert.Error(t, err)

	r := loom.NewRenderer(loom.DefaultConfig())
	s, err := r.RenderToString(Span(Text("ok")))
	require.NoError(t, err)
	assert.Equal(t, "<span>ok</span>", s)
}
