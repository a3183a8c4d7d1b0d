package view

import (
	"github.com/vango-dev/routeview/pkg/router"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// Binding ties the instance rendered by one Render call to its record.
// Register is the only writer of Record.Instances[Slot].
type Binding struct {
	view *View

	Record *router.MatchedRecord
	Slot   string
	Depth  int
}

// Register records inst as the live instance of the slot. When the view
// moved to another record while keeping inst, the entry of the previous
// record is cleared.
func (b *Binding) Register(inst vdom.Instance) {
	if b.Record == nil || inst == nil {
		return
	}
	if prev := b.view.registered; prev != nil && prev != b && (prev.Record != b.Record || prev.Slot != b.Slot) {
		prev.Record.Instances.ClearIf(prev.Slot, inst)
	}
	b.view.registered = b

	if b.Record.Instances.Get(b.Slot) == inst {
		return
	}
	b.Record.Instances.Set(b.Slot, inst)
	if o := b.view.observer; o != nil {
		o.InstanceRegistered(b.Depth, b.Slot)
	}
}

// Release clears the slot if it still holds inst. A newer instance
// registered by another view is left alone.
func (b *Binding) Release(inst vdom.Instance) {
	if b.Record == nil || inst == nil {
		return
	}
	b.Record.Instances.ClearIf(b.Slot, inst)
}

// Hooks returns lifecycle hooks that keep the record's instance map in
// sync with the mounted tree.
func (b *Binding) Hooks() *vdom.Hooks {
	return &vdom.Hooks{
		OnMounted:     b.Register,
		OnActivated:   b.Register,
		OnUpdated:     b.Register,
		OnUnmounted:   b.Release,
		OnDeactivated: b.Release,
	}
}
