package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/pkg/pagefile"
	"github.com/vango-dev/loom/pkg/render"
)

func renderCmd(a *app) *cobra.Command {
	var (
		output   string
		fragment bool
	)

	cmd := &cobra.Command{
		Use:   "render <page.yaml>",
		Short: "Render a page file to HTML",
		Long: `Render a page file to HTML.

The page is rendered as a complete document, or only its body
with --fragment. Streaming modes write the output chunk by chunk.

Examples:
  loom render pages/home.yaml
  loom render pages/home.yaml --preset pretty -o home.html
  loom render pages/home.yaml --fragment --mode backpressure --chunk-size 1024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd.Context(), args[0], output, fragment)
		},
	}

	cmd.Flags().String("preset", "", "Render preset: default, pretty, email, optimized")
	cmd.Flags().String("mode", "", "Render mode: sync, async, batch, progressive, backpressure")
	cmd.Flags().Int("chunk-size", 0, "Stream chunk size in bytes")
	a.bind(cmd, "render.preset", "preset")
	a.bind(cmd, "render.mode", "mode")
	a.bind(cmd, "render.chunk_size", "chunk-size")

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "Render only the page body")

	return cmd
}

func (a *app) runRender(ctx context.Context, path, output string, fragment bool) (err error) {
	page, err := pagefile.Load(path)
	if err != nil {
		return err
	}
	cfg, err := a.cfg.RenderConfig()
	if err != nil {
		return err
	}
	mode, err := a.cfg.RenderMode()
	if err != nil {
		return err
	}

	var n render.Node = page.Document()
	if fragment {
		n = page.BodyNode()
	}

	w := a.stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	r := render.NewRenderer(cfg, render.WithLogger(a.logger))
	return renderTo(ctx, w, r, n, mode, a.cfg.Render.ChunkSize)
}

func renderTo(ctx context.Context, w io.Writer, r *render.Renderer, n render.Node, mode render.Mode, chunkSize int) error {
	switch mode {
	case render.ModeSync:
		return r.RenderToWriter(w, n)
	case render.ModeAsync:
		out, err := r.RenderContext(ctx, n)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return r.StreamTo(ctx, w, n, render.StreamOptions{ChunkSize: chunkSize, Mode: mode})
	}
}
