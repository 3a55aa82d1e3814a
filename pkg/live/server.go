package live

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/render"
)

// Routes served by a Server.
const (
	PagePath    = "/"
	LivePath    = "/live"
	MetricsPath = "/metrics"
)

// Server serves an App: GET / renders the page on the server and opens
// a pending session, GET /live upgrades to a WebSocket that drives the
// session, and GET /metrics exposes the server metrics.
type Server struct {
	config   Config
	app      App
	router   chi.Router
	sessions *Manager
	pages    *render.BlueprintCache
	renderer *render.Renderer
	metrics  *metrics
	tracer   trace.Tracer
	upgrader websocket.Upgrader
	logger   *slog.Logger

	closeOnce sync.Once
}

// New creates a server for app. Call Close, or run the server with
// Serve, to release its background work.
func New(app App, config Config) *Server {
	config = config.withDefaults()

	s := &Server{
		config: config,
		app:    app,
		pages:  render.NewBlueprintCache(),
		renderer: render.NewRenderer(render.RendererConfig{
			Context: config.Context,
			Logger:  config.Logger,
		}),
		metrics: newMetrics(config.Registry),
		tracer:  otel.Tracer(config.TracerName),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: config.Logger.With("component", "live"),
	}
	s.sessions = newManager(s)
	s.sessions.startSweeper()

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(s.requestLogger)
		r.Get(PagePath, s.handlePage)
	})
	r.Get(LivePath, s.handleLive)
	r.Method(http.MethodGet, MetricsPath, promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{}))
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session manager.
func (s *Server) Sessions() *Manager { return s.sessions }

// Config returns the effective configuration.
func (s *Server) Config() Config { return s.config }

// handlePage renders the app on the server and opens a pending session
// the page's script connects to.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "vtree.page",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("http.route", r.URL.Path)),
	)
	defer span.End()

	sess := s.sessions.Create(s.app)
	span.SetAttributes(attribute.String("vtree.session", sess.id))

	sess.mu.Lock()
	node := sess.view()
	sess.mu.Unlock()

	body, err := s.pages.Render(r.URL.Path, node, s.config.Context)
	if err != nil {
		s.metrics.pagesTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("page render failed", "path", r.URL.Path, "error", err)
		sess.Close(protocol.CloseError, "page render failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = s.renderer.RenderPage(w, render.PageData{
		Title:     s.config.Title,
		Body:      body,
		SessionID: sess.id,
		LivePath:  LivePath,
	})
	if err != nil {
		s.logger.Debug("page write failed", "error", err)
	}
	s.metrics.pagesTotal.WithLabelValues("ok").Inc()
	span.SetStatus(codes.Ok, "")
}

// handleLive upgrades to a WebSocket and serves the session named by
// the session query parameter, or a new one.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	var sess *Session
	var lookupErr error
	if id := r.URL.Query().Get("session"); id != "" {
		var ok bool
		if sess, ok = s.sessions.Get(id); !ok {
			lookupErr = verrors.New(verrors.CodeSessionNotFound).WithDetailf("no session %q", id)
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.wsErrors.WithLabelValues("upgrade").Inc()
		s.logger.Debug("upgrade failed", "error", err)
		return
	}

	if lookupErr != nil {
		s.reject(conn, lookupErr)
		return
	}
	if sess == nil {
		sess = s.sessions.Create(s.app)
	}
	if !sess.attach(conn) {
		s.reject(conn, verrors.New(verrors.CodeSessionConflict))
		return
	}

	s.logger.Info("session connected", "session", sess.id, "remote", r.RemoteAddr)
	if err := sess.serve(r.Context()); err != nil {
		s.logger.Warn("session ended with error", "session", sess.id, "error", err)
	}
}

// reject sends a fatal error frame on a connection no session accepts.
func (s *Server) reject(conn *websocket.Conn, err error) {
	s.metrics.wsErrors.WithLabelValues("rejected").Inc()
	frame := protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(protocol.NewErrorMessage(err, true)))
	if data, encErr := frame.Encode(); encErr == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		_ = conn.WriteMessage(websocket.BinaryMessage, data)
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, verrors.Code(err)),
		time.Now().Add(time.Second))
	_ = conn.Close()
}

// requestLogger logs one line per page request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Close stops the session sweeper and closes every session with a
// server shutdown notice.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.sessions.CloseAll(protocol.CloseServerShutdown, "server shutting down")
	})
}

// ListenAndServe listens on the configured address and serves until ctx
// is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then closes the sessions and
// shuts the HTTP server down within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		s.Close()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
