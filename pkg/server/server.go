package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	rverrors "github.com/vango-dev/routeview/internal/errors"
	"github.com/vango-dev/routeview/pkg/middleware"
	"github.com/vango-dev/routeview/pkg/mount"
	"github.com/vango-dev/routeview/pkg/render"
	"github.com/vango-dev/routeview/pkg/router"
	"github.com/vango-dev/routeview/pkg/vango"
	"github.com/vango-dev/routeview/pkg/vdom"
	"github.com/vango-dev/routeview/pkg/view"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-Id"

// Server renders pages for a Router.
type Server struct {
	logger   *slog.Logger
	router   atomic.Pointer[router.Router]
	renderer *render.Renderer

	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer

	otelOpts []middleware.OTelOption
	tracer   trace.Tracer

	layout       func(*vdom.VNode) *vdom.VNode
	title        string
	keepAlive    bool
	keepAliveMax int

	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records metrics into m and serves g on /metrics. g may be
// nil to record without exposing.
func WithMetrics(m *middleware.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithTracing configures the tracer used for request and render spans.
func WithTracing(opts ...middleware.OTelOption) Option {
	return func(s *Server) {
		s.otelOpts = append(s.otelOpts, opts...)
	}
}

// WithLayout wraps the root RouterView in an application shell.
func WithLayout(fn func(outlet *vdom.VNode) *vdom.VNode) Option {
	return func(s *Server) {
		if fn != nil {
			s.layout = fn
		}
	}
}

// WithTitle sets the page title used when the route meta has no "title".
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithKeepAlive wraps the root RouterView in a keep-alive boundary.
func WithKeepAlive(enabled bool, max int) Option {
	return func(s *Server) {
		s.keepAlive = enabled
		s.keepAliveMax = max
	}
}

// WithRenderer sets the HTML renderer configuration.
func WithRenderer(cfg render.RendererConfig) Option {
	return func(s *Server) {
		s.renderer = render.NewRenderer(cfg)
	}
}

// New creates a Server rendering routes from r.
func New(r *router.Router, opts ...Option) *Server {
	s := &Server{
		logger:   slog.Default(),
		renderer: render.NewRenderer(render.RendererConfig{}),
		layout:   func(outlet *vdom.VNode) *vdom.VNode { return outlet },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.Store(r)
	s.tracer = middleware.Tracer(s.otelOpts...)
	s.handler = s.routes()
	return s
}

// Router returns the router currently serving requests.
func (s *Server) Router() *router.Router {
	return s.router.Load()
}

// SetRouter replaces the router. Requests already rendering finish with
// the previous one.
func (s *Server) SetRouter(r *router.Router) {
	if r != nil {
		s.router.Store(r)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestID)
	r.Use(chimw.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Handler)
	}
	r.Use(middleware.OpenTelemetry(append(s.otelOpts, middleware.WithRequestFilter(traced))...))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/*", s.handlePage)
	return r
}

func traced(r *http.Request) bool {
	return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
}

type requestIDKey struct{}

// requestID assigns a uuid to requests that arrive without one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	res, err := s.Render(r.Context(), &buf, r.URL.RequestURI())
	if err != nil {
		if rverrors.HasCode(err, "E203") {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("render failed",
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("write response", "path", res.Location.Path, "error", err)
	}
}

// Result describes a completed render.
type Result struct {
	Location *router.Location

	// Views is the number of RouterViews rendered, EmptyViews the number
	// of them that had nothing matched.
	Views      int
	EmptyViews int

	Duration time.Duration
}

// Render resolves path and writes the page to w. Unmatched paths return
// an E203 error and write nothing.
func (s *Server) Render(ctx context.Context, w io.Writer, path string) (*Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "routeview.render",
		trace.WithAttributes(attribute.String("routeview.path", path)),
	)
	defer span.End()

	res, err := s.render(span, w, path)
	elapsed := time.Since(start)

	outcome := middleware.OutcomeOK
	switch {
	case rverrors.HasCode(err, "E203"):
		outcome = middleware.OutcomeNotFound
		span.SetStatus(codes.Error, "no route matched")
	case err != nil:
		outcome = middleware.OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		res.Duration = elapsed
		span.SetStatus(codes.Ok, "")
	}
	if s.metrics != nil {
		s.metrics.ObserveRender(outcome, elapsed)
	}

	if err != nil {
		return nil, err
	}
	s.logger.Info("rendered",
		"path", res.Location.Path,
		"depth", len(res.Location.Matched),
		"views", res.Views,
		"duration", elapsed,
		"request_id", RequestID(ctx),
	)
	return res, nil
}

func (s *Server) render(span trace.Span, w io.Writer, path string) (*Result, error) {
	loc, err := s.Router().Resolve(path)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("routeview.route", loc.Leaf().Path),
		attribute.Int("routeview.matched", len(loc.Matched)),
	)

	stats := &renderStats{}
	observers := []view.Observer{stats, middleware.SpanObserver(span)}
	if s.metrics != nil {
		observers = append(observers, s.metrics)
	}

	scope := vango.NewScope()
	router.LocationContext.Provide(scope, vango.NewSignal(loc))
	view.ObserverContext.Provide(scope, view.Observers(observers...))

	rt := mount.New(mount.WithLogger(s.logger), mount.WithScope(scope))
	defer rt.Unmount()

	props := vdom.Props{view.PropKeepAlive: s.keepAlive}
	if s.keepAliveMax > 0 {
		props[view.PropKeepAliveMax] = s.keepAliveMax
	}
	if err := rt.Mount(s.layout(view.New(props))); err != nil {
		return nil, err
	}

	title := s.title
	if t, ok := loc.Meta["title"].(string); ok && t != "" {
		title = t
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderPage(&buf, render.PageData{Body: rt.Tree(), Title: title}); err != nil {
		return nil, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return nil, err
	}
	return &Result{Location: loc, Views: stats.views, EmptyViews: stats.empty}, nil
}

// renderStats counts views within one render.
type renderStats struct {
	views int
	empty int
}

func (r *renderStats) ViewRendered(_ int, _ string, def *vdom.Definition) {
	r.views++
	if def == nil {
		r.empty++
	}
}

func (r *renderStats) InstanceRegistered(int, string) {}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout time.Duration) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}
