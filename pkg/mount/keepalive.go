package mount

import "github.com/vango-dev/routeview/pkg/vdom"

// keepAliveCache holds the instances rendered by one keep-alive boundary.
type keepAliveCache struct {
	max     int
	cache   map[*vdom.Definition]*instance
	order   []*vdom.Definition // least recently used first
	current *instance
}

func newKeepAliveCache() *keepAliveCache {
	return &keepAliveCache{cache: make(map[*vdom.Definition]*instance)}
}

// resolve returns the instance to render for def: the current one, a
// cached one (reactivated) or a new one.
func (b *keepAliveCache) resolve(r *Runtime, p *pass, owner *instance, node *vdom.VNode) *instance {
	def := node.Def
	if b.current != nil && b.current.discarded {
		b.current = nil
	}
	if b.current != nil && b.current.def == def {
		b.touch(def)
		return b.current
	}
	b.deactivateCurrent(r, p)

	if cached, ok := b.cache[def]; ok && cached.discarded {
		delete(b.cache, def)
	}
	if cached, ok := b.cache[def]; ok {
		b.current = cached
		b.touch(def)
		r.setActive(p, cached, true)
		return cached
	}

	inst := r.create(p, owner, def, node.Props)
	b.cache[def] = inst
	b.current = inst
	b.touch(def)
	b.prune(r, p)
	return inst
}

func (b *keepAliveCache) deactivateCurrent(r *Runtime, p *pass) {
	if b.current == nil {
		return
	}
	if b.current.mounted {
		r.setActive(p, b.current, false)
	}
	b.current = nil
}

func (b *keepAliveCache) touch(def *vdom.Definition) {
	for i, d := range b.order {
		if d == def {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	b.order = append(b.order, def)
}

// prune evicts least recently used instances beyond max.
func (b *keepAliveCache) prune(r *Runtime, p *pass) {
	if b.max <= 0 {
		return
	}
	for len(b.order) > b.max {
		victim := b.order[0]
		b.order = b.order[1:]
		inst := b.cache[victim]
		delete(b.cache, victim)
		if inst != nil && inst != b.current {
			r.unmount(p, inst)
		}
	}
}

func (b *keepAliveCache) unmountAll(r *Runtime, p *pass) {
	for _, inst := range b.cache {
		r.unmount(p, inst)
	}
	b.cache = make(map[*vdom.Definition]*instance)
	b.order = nil
	b.current = nil
}
