// Package router resolves request paths into a chain of matched route
// records.
//
// Routes are registered as a tree of RouteRecords. A record's path is
// relative to its parent unless it starts with "/". Matching a path yields
// a Location whose Matched slice holds one MatchedRecord per nesting
// level, root first. A RouterView at depth N renders Matched[N].
//
// # Paths
//
//	/users             static segment
//	/users/:id         parameter, any value
//	/users/:id:int     parameter constrained to int (also uint, uuid)
//	/files/*rest       catch-all, must be the last segment
//
// # Props
//
// A record's props configuration decides what the rendered component
// receives:
//
//	nil or false      no props
//	true              the route params
//	map[string]any    the map itself
//	PropsFunc         the result of calling it with the Location
//
// Anything else is rejected with E101 when the route is added.
//
// # Usage
//
//	r := router.New()
//	err := r.AddRoute(router.RouteRecord{
//	    Path:      "/users/:id",
//	    Component: UserLayout,
//	    Children: []router.RouteRecord{
//	        {Path: "profile", Component: UserProfile, Props: true},
//	    },
//	})
//	loc, err := r.Resolve("/users/42/profile")
//	// loc.Matched[0].Component("default") == UserLayout
//	// loc.Params["id"] == "42"
package router
