package vdom

import "github.com/vango-dev/routeview/pkg/vango"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Component invocation
	KindRaw                    // Raw HTML (dangerous)
	KindKeepAlive              // Keeps its child component instance alive across deactivation
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	case KindKeepAlive:
		return "KeepAlive"
	default:
		return "Unknown"
	}
}

// VNode is a render description node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes, or component props for KindComponent
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key
	Text     string   // For KindText and KindRaw

	// Def is the component rendered by a KindComponent node.
	Def *Definition

	// Hooks are lifecycle callbacks for the instance created from a
	// KindComponent node.
	Hooks *Hooks

	// Ref receives the live instance once a KindComponent node has mounted.
	Ref *vango.Ref[Instance]
}

// Props holds attributes or component props.
type Props map[string]any

// Clone returns a shallow copy of p. A nil Props clones to an empty map.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// MergeProps returns a new Props holding every key of layers in order.
// Later layers win on key collision.
func MergeProps(layers ...Props) Props {
	size := 0
	for _, l := range layers {
		size += len(l)
	}
	out := make(Props, size)
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}
