package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/routeview/pkg/vdom"
)

func newRecorder() (*tracetest.SpanRecorder, trace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	return sr, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
}

func attrValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetryStartsServerSpan(t *testing.T) {
	sr, tp := newRecorder()

	var inner trace.Span
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = trace.SpanFromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/42", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /users/42", span.Name())
	assert.Equal(t, trace.SpanKindServer, span.SpanKind())
	assert.Equal(t, span.SpanContext().SpanID(), inner.SpanContext().SpanID())
	assert.Equal(t, codes.Ok, span.Status().Code)

	v, ok := attrValue(span.Attributes(), "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusNotFound), v.AsInt64())
	v, ok = attrValue(span.Attributes(), "test.attr")
	require.True(t, ok)
	assert.Equal(t, "ok", v.AsString())
}

func TestOpenTelemetryMarksServerErrors(t *testing.T) {
	sr, tp := newRecorder()
	h := OpenTelemetry(WithTracerProvider(tp))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestOpenTelemetryFilter(t *testing.T) {
	sr, tp := newRecorder()
	h := OpenTelemetry(
		WithTracerProvider(tp),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, sr.Ended())
}

func TestSpanObserverAddsEvents(t *testing.T) {
	sr, tp := newRecorder()
	_, span := tp.Tracer("test").Start(context.Background(), "render")

	obs := SpanObserver(span)
	require.NotNil(t, obs)
	obs.ViewRendered(0, "default", vdom.Define("Root", func(*vdom.Ctx) *vdom.VNode { return nil }))
	obs.ViewRendered(1, "default", nil)
	obs.InstanceRegistered(0, "default")
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 3)
	assert.Equal(t, "routeview.view", events[0].Name)
	v, _ := attrValue(events[0].Attributes, "routeview.component")
	assert.Equal(t, "Root", v.AsString())
	v, _ = attrValue(events[1].Attributes, "routeview.component")
	assert.Equal(t, "", v.AsString())
	assert.Equal(t, "routeview.instance", events[2].Name)
}

func TestSpanObserverNonRecording(t *testing.T) {
	_, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "render")
	assert.Nil(t, SpanObserver(span))
	assert.Nil(t, SpanObserver(nil))
}
