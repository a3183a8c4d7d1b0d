// Package middleware provides HTTP middleware and view observers for
// routeview servers.
//
// # Prometheus Metrics
//
// Metrics collects request and render metrics and doubles as a
// view.Observer, so the same value counts empty views and instance
// registrations per depth:
//
//	m := middleware.NewMetrics(
//	    middleware.WithNamespace("myapp"),
//	    middleware.WithRegistry(reg),
//	)
//	r.Use(m.Handler)
//
// Metrics collected:
//   - routeview_requests_total: requests by status class
//   - routeview_request_duration_seconds: request duration histogram
//   - routeview_renders_total: SSR renders by outcome
//   - routeview_render_duration_seconds: SSR render duration histogram
//   - routeview_views_rendered_total: view renders by depth
//   - routeview_empty_views_total: views with no match by depth
//   - routeview_instance_registrations_total: instance map writes by depth and slot
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request. SpanObserver turns view
// activity into events on the span carried by a context:
//
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("myapp")))
//
// The tracer comes from the global provider unless WithTracerProvider is
// given.
package middleware
