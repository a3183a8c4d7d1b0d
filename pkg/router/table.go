package router

import (
	"errors"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	rverrors "github.com/vango-dev/routeview/internal/errors"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// Table is a route table document:
//
//	routes:
//	  - path: /
//	    component: Root
//	    children:
//	      - path: users/:id
//	        name: user
//	        component: UserLayout
//	        props: true
//	        children:
//	          - path: profile
//	            components: {default: UserProfile, aside: Help}
//	            slotProps: {aside: {topic: profile}}
type Table struct {
	Routes []TableRoute `yaml:"routes"`
}

// TableRoute is one record of a Table. Components are referenced by
// registry name.
type TableRoute struct {
	Path       string            `yaml:"path"`
	Name       string            `yaml:"name,omitempty"`
	Component  string            `yaml:"component,omitempty"`
	Components map[string]string `yaml:"components,omitempty"`
	Props      any               `yaml:"props,omitempty"`
	SlotProps  map[string]any    `yaml:"slotProps,omitempty"`
	Meta       map[string]any    `yaml:"meta,omitempty"`
	Children   []TableRoute      `yaml:"children,omitempty"`
}

// Registry maps component names used in tables to definitions.
type Registry map[string]*vdom.Definition

// Names returns the registered names, sorted.
func (reg Registry) Names() []string {
	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseTable decodes a YAML route table. Unknown fields are rejected.
func ParseTable(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return &t, nil
		}
		return nil, rverrors.New("E104").Wrap(err)
	}
	return &t, nil
}

// Records converts the table into route records.
func (t *Table) Records(reg Registry) ([]RouteRecord, error) {
	out := make([]RouteRecord, 0, len(t.Routes))
	for i := range t.Routes {
		rec, err := t.Routes[i].record(reg)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (tr *TableRoute) record(reg Registry) (RouteRecord, error) {
	rec := RouteRecord{
		Path:      tr.Path,
		Name:      tr.Name,
		Props:     tr.Props,
		SlotProps: tr.SlotProps,
		Meta:      tr.Meta,
	}
	if tr.Component != "" {
		def, err := lookup(reg, tr.Component, tr.Path)
		if err != nil {
			return rec, err
		}
		rec.Component = def
	}
	if len(tr.Components) > 0 {
		rec.Components = make(map[string]*vdom.Definition, len(tr.Components))
		for slot, name := range tr.Components {
			def, err := lookup(reg, name, tr.Path)
			if err != nil {
				return rec, err
			}
			rec.Components[slot] = def
		}
	}
	for i := range tr.Children {
		child, err := tr.Children[i].record(reg)
		if err != nil {
			return rec, err
		}
		rec.Children = append(rec.Children, child)
	}
	return rec, nil
}

func lookup(reg Registry, name, path string) (*vdom.Definition, error) {
	def, ok := reg[name]
	if !ok || def == nil {
		return nil, rverrors.New("E102").
			WithDetailf("route %q references %q", path, name).
			WithSuggestion("register the component before loading the table")
	}
	return def, nil
}

// LoadTable parses a route table and adds every route in it.
func (r *Router) LoadTable(rd io.Reader, reg Registry) error {
	t, err := ParseTable(rd)
	if err != nil {
		return err
	}
	recs, err := t.Records(reg)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := r.AddRoute(rec); err != nil {
			return err
		}
	}
	return nil
}

// LoadTableFile is LoadTable reading from a file.
func (r *Router) LoadTableFile(path string, reg Registry) error {
	f, err := os.Open(path)
	if err != nil {
		return rverrors.New("E104").WithDetailf("open %s", path).Wrap(err)
	}
	defer f.Close()
	return r.LoadTable(f, reg)
}
