package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/pkg/metrics"
	"github.com/vango-dev/loom/pkg/render"
	"github.com/vango-dev/loom/pkg/serve"
	"github.com/vango-dev/loom/pkg/tracing"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a page directory",
		Long: `Serve a page directory over HTTP.

Routes:
  /pages/{name}      full document
  /fragments/{name}  page body, streamed (?mode=progressive|backpressure|batch)
  /ws/{name}         page body over a websocket, one message per chunk
  /metrics           Prometheus metrics
  /healthz           liveness probe

Examples:
  loom serve
  loom serve --addr 0.0.0.0:8080 --pages site --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context())
		},
	}

	cmd.Flags().String("addr", "", "Address to listen on (default from loom.yaml)")
	cmd.Flags().String("pages", "", "Page directory (default from loom.yaml)")
	cmd.Flags().Bool("watch", false, "Reload pages when their files change")
	cmd.Flags().Bool("metrics", false, "Expose /metrics")
	cmd.Flags().Int("chunk-size", 0, "Stream chunk size in bytes")
	a.bind(cmd, "serve.addr", "addr")
	a.bind(cmd, "serve.pages", "pages")
	a.bind(cmd, "serve.watch", "watch")
	a.bind(cmd, "serve.metrics", "metrics")
	a.bind(cmd, "render.chunk_size", "chunk-size")

	return cmd
}

func (a *app) newHandler(ctx context.Context) (http.Handler, error) {
	store, err := serve.NewStore(a.cfg.PagesPath(), a.logger)
	if err != nil {
		return nil, err
	}
	if a.cfg.Serve.Watch {
		if err := store.Watch(ctx); err != nil {
			return nil, err
		}
	}

	cfg, err := a.cfg.RenderConfig()
	if err != nil {
		return nil, err
	}
	hooks := []render.Hooks{tracing.New()}
	opts := serve.Options{
		ChunkSize: a.cfg.Render.ChunkSize,
		Logger:    a.logger,
	}
	if a.cfg.Serve.Metrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks = append(hooks, metrics.New(metrics.WithRegistry(registry)))
		opts.Gatherer = registry
	}

	r := render.NewRenderer(cfg, render.WithLogger(a.logger), render.WithHooks(hooks...))
	return serve.New(store, r, opts), nil
}

func (a *app) runServe(ctx context.Context) error {
	handler, err := a.newHandler(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Serve.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	a.logger.Info("serving pages", "addr", a.cfg.Serve.Addr, "pages", a.cfg.PagesPath())
	a.success("Serving %s on http://%s", a.cfg.PagesPath(), a.cfg.Serve.Addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
