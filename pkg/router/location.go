package router

import "net/url"

// Location is a resolved route. Locations may be shared between callers
// and must not be modified.
type Location struct {
	// Path is the canonical path without query.
	Path string

	// FullPath is Path plus the raw query, if any.
	FullPath string

	// Name is the name of the deepest matched record.
	Name string

	Params map[string]string
	Query  url.Values

	// Matched lists the matched records from the root to the leaf.
	Matched []*MatchedRecord

	// Meta merges the meta of every matched record, deeper records winning.
	Meta map[string]any
}

// At returns the matched record at depth, or nil when the chain is
// shorter.
func (l *Location) At(depth int) *MatchedRecord {
	if l == nil || depth < 0 || depth >= len(l.Matched) {
		return nil
	}
	return l.Matched[depth]
}

// Leaf returns the deepest matched record.
func (l *Location) Leaf() *MatchedRecord {
	if l == nil || len(l.Matched) == 0 {
		return nil
	}
	return l.Matched[len(l.Matched)-1]
}

// ParamProps returns the params as a props map.
func (l *Location) ParamProps() map[string]any {
	if l == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(l.Params))
	for k, v := range l.Params {
		out[k] = v
	}
	return out
}

func newLocation(path, query string, leaf *MatchedRecord, params map[string]string) *Location {
	loc := &Location{
		Path:     path,
		FullPath: path,
		Params:   params,
		Meta:     make(map[string]any),
	}
	if query != "" {
		loc.FullPath += "?" + query
		if q, err := url.ParseQuery(query); err == nil {
			loc.Query = q
		}
	}
	if loc.Query == nil {
		loc.Query = url.Values{}
	}

	for rec := leaf; rec != nil; rec = rec.Parent {
		loc.Matched = append(loc.Matched, rec)
	}
	for i, j := 0, len(loc.Matched)-1; i < j; i, j = i+1, j-1 {
		loc.Matched[i], loc.Matched[j] = loc.Matched[j], loc.Matched[i]
	}
	for _, rec := range loc.Matched {
		for k, v := range rec.Meta {
			loc.Meta[k] = v
		}
	}
	if leaf != nil {
		loc.Name = leaf.Name
	}
	return loc
}
