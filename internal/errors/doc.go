// Package errors provides coded, actionable errors for routeview.
//
// Every error carries a code (e.g. "E101") that maps to a short message, a
// longer explanation and a category. Configuration problems such as a
// malformed props setting on a route record are reported when the route is
// registered, never deferred to render time.
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail(`route "/users/:id": props must be true, a map or a func`).
//	    WithSuggestion("Use router.PropsFromParams() or router.StaticProps(...)")
//
//	fmt.Println(err.Format())
//	// ERROR E101: Malformed props configuration
//	//
//	//   route "/users/:id": props must be true, a map or a func
//	//
//	//   Hint: Use router.PropsFromParams() or router.StaticProps(...)
package errors
