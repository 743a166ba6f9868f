package serve

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/pagefile"
	"github.com/vango-dev/loom/pkg/render"
)

const contentTypeHTML = "text/html; charset=utf-8"

// Options configures a Server.
type Options struct {
	// ChunkSize is the stream chunk size.
	// Default: render.DefaultChunkSize
	ChunkSize int

	// Gatherer backs the /metrics route. The route is not mounted when nil.
	Gatherer prometheus.Gatherer

	// Logger receives request and stream logs.
	// Default: slog.Default()
	Logger *slog.Logger

	// CheckOrigin validates websocket origins.
	// Default: same-origin check of gorilla/websocket
	CheckOrigin func(r *http.Request) bool

	// WriteTimeout bounds each websocket write.
	// Default: 10s
	WriteTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = render.DefaultChunkSize
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	return o
}

// Server serves the pages of a Store over HTTP and websockets.
//
// Routes:
//
//	GET /healthz          liveness probe
//	GET /pages            JSON list of page names
//	GET /pages/{name}     full document, streamed in batch mode
//	GET /fragments/{name} page body, streamed (?mode=progressive|backpressure|batch)
//	GET /ws/{name}        page body, one binary message per chunk
//	GET /metrics          Prometheus metrics, when a gatherer is set
type Server struct {
	store    *Store
	renderer *render.Renderer
	opts     Options
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// New creates a Server.
func New(store *Store, renderer *render.Renderer, opts Options) *Server {
	opts = opts.withDefaults()
	s := &Server{
		store:    store,
		renderer: renderer,
		opts:     opts,
		logger:   opts.Logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: opts.ChunkSize,
			CheckOrigin:     opts.CheckOrigin,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/pages", s.handleIndex)
	r.Get("/pages/{name}", s.handlePage)
	r.Get("/fragments/{name}", s.handleFragment)
	r.Get("/ws/{name}", s.handleWebSocket)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.store.Names())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.stream(w, r, page.Document(), render.ModeBatch)
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	mode := render.ModeBackpressure
	if q := r.URL.Query().Get("mode"); q != "" {
		m, err := render.ParseMode(q)
		if err != nil || m == render.ModeSync || m == render.ModeAsync {
			http.Error(w, "unsupported stream mode", http.StatusBadRequest)
			return
		}
		mode = m
	}

	page, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.stream(w, r, page.BodyNode(), mode)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*pagefile.Page, bool) {
	name := chi.URLParam(r, "name")
	page, err := s.store.Get(name)
	if err != nil {
		http.Error(w, "page not found", http.StatusNotFound)
		return nil, false
	}
	return page, true
}

// stream writes n to the response. An error before the first byte becomes
// a 500; after that the response is already committed and the error is
// only logged.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, n render.Node, mode render.Mode) {
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	ww.Header().Set("Content-Type", contentTypeHTML)
	ww.Header().Set("X-Content-Type-Options", "nosniff")

	err := s.renderer.StreamTo(r.Context(), ww, n, render.StreamOptions{
		ChunkSize: s.opts.ChunkSize,
		Mode:      mode,
	})
	switch {
	case err == nil:
	case render.IsCancellation(err):
		s.logger.Debug("stream cancelled", "path", r.URL.Path, "error", err)
	case ww.BytesWritten() == 0:
		s.logger.Error("render failed", "path", r.URL.Path, "code", errors.Code(err), "error", err)
		http.Error(ww, "render failed", http.StatusInternalServerError)
	default:
		s.logger.Error("stream failed", "path", r.URL.Path, "code", errors.Code(err), "error", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookup(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	ch := s.renderer.NewChannel(ctx, page.BodyNode(), s.opts.ChunkSize)
	defer ch.Close()

	for {
		chunk, err := ch.Next(ctx)
		if err == io.EOF {
			s.closeWebSocket(conn, websocket.CloseNormalClosure, "")
			return
		}
		if err != nil {
			if !render.IsCancellation(err) {
				s.logger.Error("websocket render failed", "code", errors.Code(err), "error", err)
				s.closeWebSocket(conn, websocket.CloseInternalServerErr, "render failed")
			}
			return
		}

		conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket write failed", "error", err)
			}
			return
		}
	}
}

func (s *Server) closeWebSocket(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.opts.WriteTimeout))
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
