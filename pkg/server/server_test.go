package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	rverrors "github.com/vango-dev/routeview/internal/errors"
	"github.com/vango-dev/routeview/pkg/middleware"
	"github.com/vango-dev/routeview/pkg/router"
	"github.com/vango-dev/routeview/pkg/vdom"
	"github.com/vango-dev/routeview/pkg/view"
)

var (
	rootDef = vdom.Define("Root", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Div(vdom.Class("root"), vdom.Text("Root;"), view.New(nil))
	})
	layoutDef = vdom.Define("UserLayout", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Section(vdom.Textf("User %v;", c.Props["id"]), view.New(nil))
	})
	profileDef = vdom.Define("UserProfile", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.P(vdom.Text("Profile;"))
	})
	brokenDef = vdom.Define("Broken", func(c *vdom.Ctx) *vdom.VNode {
		panic("broken page")
	})
)

func registry() router.Registry {
	return router.Registry{
		"Root":        rootDef,
		"UserLayout":  layoutDef,
		"UserProfile": profileDef,
		"Broken":      brokenDef,
	}
}

const routeTable = `
routes:
  - path: /
    component: Root
    children:
      - path: users/:id
        component: UserLayout
        props: true
        meta: {title: User}
        children:
          - path: profile
            component: UserProfile
      - path: broken
        component: Broken
`

func newRouter(t *testing.T, table string) *router.Router {
	t.Helper()
	r := router.New()
	require.NoError(t, r.LoadTable(strings.NewReader(table), registry()))
	return r
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServeNestedPage(t *testing.T) {
	srv := New(newRouter(t, routeTable), WithLogger(quietLogger()), WithTitle("App"))

	rec := get(t, srv, "/users/42/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>User</title>")
	assert.Contains(t, body, `<div class="root">`)
	assert.Contains(t, body, "Root;")
	assert.Contains(t, body, "User 42;")
	assert.Contains(t, body, "<p>Profile;</p>")
}

func TestServeShrunkChain(t *testing.T) {
	srv := New(newRouter(t, routeTable), WithLogger(quietLogger()), WithTitle("App"))

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>App</title>")
	assert.Contains(t, rec.Body.String(), "Root;")
	assert.NotContains(t, rec.Body.String(), "User")
}

func TestServeNotFound(t *testing.T) {
	srv := New(newRouter(t, routeTable), WithLogger(quietLogger()))

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nowhere").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/users/1/unknown").Code)
}

func TestServeRenderFailure(t *testing.T) {
	srv := New(newRouter(t, routeTable), WithLogger(quietLogger()))

	rec := get(t, srv, "/broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "broken page")
}

func TestRequestIDPropagates(t *testing.T) {
	srv := New(newRouter(t, routeTable), WithLogger(quietLogger()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
}

func TestHealthz(t *testing.T) {
	srv := New(router.New(), WithLogger(quietLogger()))

	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestRenderResult(t *testing.T) {
	srv := New(newRouter(t, routeTable), WithLogger(quietLogger()))

	var buf bytes.Buffer
	res, err := srv.Render(context.Background(), &buf, "/users/7")
	require.NoError(t, err)
	assert.Equal(t, "/users/7", res.Location.Path)
	// Root, UserLayout and the empty view below the layout.
	assert.Equal(t, 3, res.Views)
	assert.Equal(t, 1, res.EmptyViews)
	assert.Contains(t, buf.String(), "User 7;")

	buf.Reset()
	_, err = srv.Render(context.Background(), &buf, "/missing")
	require.Error(t, err)
	assert.True(t, rverrors.HasCode(err, "E203"))
	assert.Zero(t, buf.Len())
}

func TestLayoutAndKeepAlive(t *testing.T) {
	srv := New(newRouter(t, routeTable),
		WithLogger(quietLogger()),
		WithKeepAlive(true, 2),
		WithLayout(func(outlet *vdom.VNode) *vdom.VNode {
			return vdom.Main(vdom.ID("app"), outlet)
		}),
	)

	rec := get(t, srv, "/users/3/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<main id="app">`)
	assert.Contains(t, rec.Body.String(), "Profile;")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(middleware.WithRegistry(reg))
	srv := New(newRouter(t, routeTable), WithLogger(quietLogger()), WithMetrics(m, reg))

	get(t, srv, "/users/1/profile")
	get(t, srv, "/users/1")
	get(t, srv, "/nowhere")

	rec := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `routeview_renders_total{outcome="ok"} 2`)
	assert.Contains(t, body, `routeview_renders_total{outcome="not_found"} 1`)
	assert.Contains(t, body, `routeview_empty_views_total{depth="2"} 1`)
	assert.Contains(t, body, `routeview_instance_registrations_total{depth="0",slot="default"} 2`)

	count, err := testutil.GatherAndCount(reg, "routeview_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "2xx and 4xx series")
}

func TestTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	srv := New(newRouter(t, routeTable),
		WithLogger(quietLogger()),
		WithTracing(middleware.WithTracerProvider(tp)),
	)

	get(t, srv, "/users/5/profile")
	get(t, srv, "/healthz")

	spans := sr.Ended()
	require.Len(t, spans, 2, "render span and request span; /healthz is not traced")

	render, request := spans[0], spans[1]
	assert.Equal(t, "routeview.render", render.Name())
	assert.Equal(t, "GET /users/5/profile", request.Name())
	assert.Equal(t, request.SpanContext().SpanID(), render.Parent().SpanID())

	var route string
	for _, kv := range render.Attributes() {
		if kv.Key == attribute.Key("routeview.route") {
			route = kv.Value.AsString()
		}
	}
	assert.Equal(t, "/users/:id/profile", route)

	var views int
	for _, ev := range render.Events() {
		if ev.Name == "routeview.view" {
			views++
		}
	}
	assert.Equal(t, 3, views)
}

func TestSetRouter(t *testing.T) {
	srv := New(router.New(), WithLogger(quietLogger()))
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/").Code)

	srv.SetRouter(newRouter(t, routeTable))
	assert.Equal(t, http.StatusOK, get(t, srv, "/").Code)

	srv.SetRouter(nil)
	assert.Equal(t, http.StatusOK, get(t, srv, "/").Code, "nil router is ignored")
}
