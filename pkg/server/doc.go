// Package server renders routeview applications over HTTP.
//
// Each request resolves its path against the current Router, mounts the
// application with a RouterView at its root and writes the resulting HTML
// document. Rendering is stateless: every request gets its own runtime and
// location signal, so one Server handles concurrent requests.
//
//	srv := server.New(r,
//	    server.WithMetrics(m, reg),
//	    server.WithKeepAlive(true, 0),
//	)
//	http.ListenAndServe(":8080", srv)
//
// Routes:
//   - GET /healthz reports liveness
//   - GET /metrics exposes Prometheus metrics when configured
//   - GET /* renders a page; unmatched paths answer 404
//
// WatchRoutes reloads a YAML route table when it changes on disk and
// swaps the router without interrupting requests in flight.
package server
