package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Malformed props configuration",
		Detail:   "A route record's props must be absent, true, a static map or a function of the route.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Unknown component",
		Detail:   "A route table references a component name that is not registered.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Duplicate route",
		Detail:   "Two route records share the same path or name.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid route table",
		Detail:   "The route table is malformed or a route has neither components nor children.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid route path",
		Detail:   "Top-level route paths must start with \"/\" and catch-all segments must be last.",
	},
	"E106": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range or the config file could not be read.",
	},

	// ============================================
	// Runtime Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryRuntime,
		Message:  "Component has no render function",
		Detail:   "A component definition was mounted without a Render function.",
	},
	"E202": {
		Category: CategoryRuntime,
		Message:  "Render pass failed",
		Detail:   "A component render or props function panicked during the render pass.",
	},
	"E203": {
		Category: CategoryRuntime,
		Message:  "No route matched",
		Detail:   "The path did not match any registered route.",
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
