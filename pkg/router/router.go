package router

import (
	"log/slog"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	rverrors "github.com/vango-dev/routeview/internal/errors"
	"github.com/vango-dev/routeview/pkg/vango"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// LocationContext carries the reactive current location through a render
// tree. Router.Install provides it on a root scope.
var LocationContext = vango.CreateNamedContext[*vango.Signal[*Location]]("route", nil)

// Router holds the route tree and the current location.
type Router struct {
	logger *slog.Logger

	mu        sync.RWMutex
	root      *node
	byPattern map[string]*MatchedRecord
	byName    map[string]*MatchedRecord

	// resolved caches locations by canonical path and query.
	resolved *cache.Cache

	current *vango.Signal[*Location]
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithResolveCache caches resolved locations for ttl. A ttl of zero or
// less disables the cache.
func WithResolveCache(ttl time.Duration) Option {
	return func(r *Router) {
		if ttl > 0 {
			r.resolved = cache.New(ttl, 2*ttl)
		}
	}
}

// New creates an empty Router.
func New(opts ...Option) *Router {
	r := &Router{
		logger:    slog.Default(),
		root:      newNode(""),
		byPattern: make(map[string]*MatchedRecord),
		byName:    make(map[string]*MatchedRecord),
		current:   vango.NewSignal[*Location](nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type pending struct {
	pattern string
	record  *MatchedRecord
}

// AddRoute registers rec and its children. Either every record is added
// or, on error, none is.
func (r *Router) AddRoute(rec RouteRecord) error {
	if !strings.HasPrefix(rec.Path, "/") {
		return rverrors.New("E105").
			WithDetailf("top-level route %q must start with \"/\"", rec.Path).
			WithSuggestion("only child routes may use relative paths")
	}

	var batch []pending
	if err := collect(&rec, nil, &batch); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	patterns := maps.Clone(r.byPattern)
	names := make(map[string]bool, len(r.byName))
	for n := range r.byName {
		names[n] = true
	}
	for _, p := range batch {
		if existing, ok := patterns[p.pattern]; ok && !isAncestor(existing, p.record) {
			return rverrors.New("E103").WithDetailf("path %q", p.pattern)
		}
		patterns[p.pattern] = p.record
		if name := p.record.Name; name != "" {
			if names[name] {
				return rverrors.New("E103").WithDetailf("name %q", name)
			}
			names[name] = true
		}
	}

	for _, p := range batch {
		r.root.insert(p.pattern).record = p.record
		r.byPattern[p.pattern] = p.record
		if p.record.Name != "" {
			r.byName[p.record.Name] = p.record
		}
		r.logger.Debug("route added", "path", p.pattern, "name", p.record.Name, "depth", p.record.Depth())
	}
	if r.resolved != nil {
		r.resolved.Flush()
	}
	return nil
}

// collect normalizes rec and its descendants, parents first.
func collect(rec *RouteRecord, parent *MatchedRecord, out *[]pending) error {
	parentPath := ""
	if parent != nil {
		parentPath = parent.Path
	}
	pattern := joinPath(parentPath, rec.Path)
	if err := checkPattern(pattern); err != nil {
		return err
	}

	components := make(map[string]*vdom.Definition, len(rec.Components)+1)
	for slot, def := range rec.Components {
		if def != nil {
			components[slot] = def
		}
	}
	if rec.Component != nil {
		components[DefaultSlot] = rec.Component
	}
	if len(components) == 0 && len(rec.Children) == 0 {
		return rverrors.New("E104").WithDetailf("route %q has neither components nor children", pattern)
	}

	props, err := normalizeRecordProps(rec, components)
	if err != nil {
		return err
	}

	m := &MatchedRecord{
		Path:       pattern,
		Name:       rec.Name,
		Components: components,
		Instances:  NewInstanceMap(),
		Props:      props,
		Meta:       maps.Clone(rec.Meta),
		Parent:     parent,
	}
	*out = append(*out, pending{pattern: pattern, record: m})

	for i := range rec.Children {
		if err := collect(&rec.Children[i], m, out); err != nil {
			return err
		}
	}
	return nil
}

func isAncestor(a, b *MatchedRecord) bool {
	for p := b.Parent; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}

// Resolve matches path against the registered routes. Paths that match
// nothing yield an E203 error.
func (r *Router) Resolve(input string) (*Location, error) {
	path, query, err := Canonicalize(input)
	if err != nil {
		return nil, rverrors.New("E203").WithDetailf("%q", input).Wrap(err)
	}
	key := path
	if query != "" {
		key += "?" + query
	}
	if r.resolved != nil {
		if loc, ok := r.resolved.Get(key); ok {
			return loc.(*Location), nil
		}
	}

	segments, err := decodeSegments(path)
	if err != nil {
		return nil, rverrors.New("E203").WithDetailf("%q", input).Wrap(err)
	}

	params := make(map[string]string)
	r.mu.RLock()
	found := r.root.match(segments, params)
	r.mu.RUnlock()
	if found == nil {
		return nil, rverrors.New("E203").WithDetailf("%q", path)
	}

	loc := newLocation(path, query, found.record, params)
	if r.resolved != nil {
		r.resolved.SetDefault(key, loc)
	}
	return loc, nil
}

// Replace resolves path and makes it the current location.
func (r *Router) Replace(path string) (*Location, error) {
	loc, err := r.Resolve(path)
	if err != nil {
		return nil, err
	}
	r.current.Set(loc)
	return loc, nil
}

// Current returns the reactive current location. It holds nil until the
// first Replace.
func (r *Router) Current() *vango.Signal[*Location] {
	return r.current
}

// Install provides the current location on scope.
func (r *Router) Install(scope *vango.Scope) {
	LocationContext.Provide(scope, r.current)
}

// Named returns the record registered under name.
func (r *Router) Named(name string) (*MatchedRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byName[name]
	return rec, ok
}

// Routes returns every registered record sorted by path, parents before
// children sharing their path.
func (r *Router) Routes() []*MatchedRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*MatchedRecord
	seen := make(map[*MatchedRecord]bool)
	r.root.walk(func(rec *MatchedRecord) {
		for p := rec; p != nil && !seen[p]; p = p.Parent {
			seen[p] = true
			out = append(out, p)
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Depth() < out[j].Depth()
	})
	return out
}
