package render

import (
	"errors"
	"fmt"
	"testing"
)

// mustRender renders n with cfg and fails the test on error.
func mustRender(t *testing.T, cfg Config, n Node) string {
	t.Helper()

	out, err := NewRenderer(cfg).Render(n)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return string(out)
}

// failingNode fails when rendered.
type failingNode struct {
	err error
}

func (f failingNode) Render(*Context) error {
	return f.err
}

var errBoom = errors.New("boom")

// listOf returns a <ul> with n items, used wherever a large tree is needed.
func listOf(n int) Element {
	return NewElement("ul", Repeat(n, func(i int) Element {
		return NewElement("li", Text(fmt.Sprintf("item %d", i)))
	}))
}
