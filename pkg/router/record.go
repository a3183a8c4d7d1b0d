package router

import (
	"sort"
	"sync"

	"github.com/vango-dev/routeview/pkg/vdom"
)

// DefaultSlot is the slot rendered by a view that does not name one.
const DefaultSlot = "default"

// RouteRecord describes a route as registered by the application.
type RouteRecord struct {
	// Path is relative to the parent record unless it starts with "/".
	Path string

	// Name optionally identifies the route. Names are unique per router.
	Name string

	// Component is shorthand for Components[DefaultSlot].
	Component *vdom.Definition

	// Components maps slot names to components.
	Components map[string]*vdom.Definition

	// Props configures the props of every slot.
	Props any

	// SlotProps configures props per slot and overrides Props.
	SlotProps map[string]any

	Meta     map[string]any
	Children []RouteRecord
}

// MatchedRecord is a normalized route record. Locations share
// MatchedRecords, so instances registered through one Location are
// visible through every other Location matching the same record.
type MatchedRecord struct {
	// Path is the full path pattern, parent segments included.
	Path string
	Name string

	Components map[string]*vdom.Definition

	// Instances holds the live instance per slot. It is written by the
	// view rendering the slot and by nothing else.
	Instances *InstanceMap

	Props map[string]PropsConfig
	Meta  map[string]any

	Parent *MatchedRecord
}

// Component returns the component registered in slot, or nil.
func (m *MatchedRecord) Component(slot string) *vdom.Definition {
	if m == nil {
		return nil
	}
	return m.Components[slot]
}

// PropsFor returns the props configuration of slot. Slots without one
// receive no props.
func (m *MatchedRecord) PropsFor(slot string) PropsConfig {
	if m == nil {
		return PropsConfig{}
	}
	return m.Props[slot]
}

// Depth returns the number of ancestors of m.
func (m *MatchedRecord) Depth() int {
	d := 0
	for p := m.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// InstanceMap maps slot names to live instances.
type InstanceMap struct {
	mu sync.RWMutex
	m  map[string]vdom.Instance
}

// NewInstanceMap creates an empty map.
func NewInstanceMap() *InstanceMap {
	return &InstanceMap{m: make(map[string]vdom.Instance)}
}

// Get returns the instance registered for slot.
func (im *InstanceMap) Get(slot string) vdom.Instance {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.m[slot]
}

// Set registers inst for slot, replacing any earlier instance.
func (im *InstanceMap) Set(slot string, inst vdom.Instance) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.m[slot] = inst
}

// ClearIf removes the entry for slot if it is inst. It reports whether
// an entry was removed.
func (im *InstanceMap) ClearIf(slot string, inst vdom.Instance) bool {
	im.mu.Lock()
	defer im.mu.Unlock()
	if cur, ok := im.m[slot]; ok && cur == inst {
		delete(im.m, slot)
		return true
	}
	return false
}

// Len returns the number of registered instances.
func (im *InstanceMap) Len() int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return len(im.m)
}

// Slots returns the registered slot names, sorted.
func (im *InstanceMap) Slots() []string {
	im.mu.RLock()
	defer im.mu.RUnlock()
	slots := make([]string, 0, len(im.m))
	for s := range im.m {
		slots = append(slots, s)
	}
	sort.Strings(slots)
	return slots
}
