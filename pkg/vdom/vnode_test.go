package vdom

import (
	"testing"

	"github.com/vango-dev/routeview/pkg/vango"
)

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{KindRaw, "Raw"},
		{KindKeepAlive, "KeepAlive"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestMergePropsLastWriteWins(t *testing.T) {
	computed := Props{"a": 1, "b": 2}
	attrs := Props{"b": 3, "c": 4}

	got := MergeProps(computed, attrs)

	want := Props{"a": 1, "b": 3, "c": 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("got[%q] = %v, want %v", k, got[k], v)
		}
	}
	if computed["b"] != 2 {
		t.Error("MergeProps must not mutate its inputs")
	}
}

func TestPropsClone(t *testing.T) {
	var nilProps Props
	if c := nilProps.Clone(); c == nil || len(c) != 0 {
		t.Error("clone of nil should be an empty map")
	}
	p := Props{"x": 1}
	c := p.Clone()
	c["x"] = 2
	if p["x"] != 1 {
		t.Error("clone should be independent")
	}
}

func TestComponentNode(t *testing.T) {
	def := Define("Card", func(c *Ctx) *VNode { return Div() })
	ref := vango.NewRef[Instance](nil)
	hooks := &Hooks{}

	n := Component(def, nil, WithRef(ref), WithHooks(hooks), WithKey("k1"))

	if n.Kind != KindComponent || n.Def != def {
		t.Fatalf("unexpected node %+v", n)
	}
	if n.Props == nil {
		t.Error("nil props should become empty props")
	}
	if n.Ref != ref || n.Hooks != hooks || n.Key != "k1" {
		t.Error("options not applied")
	}
	if def.String() != "Card" {
		t.Errorf("String() = %q", def.String())
	}
}

func TestKeepAliveNode(t *testing.T) {
	child := Component(Define("A", nil), nil)
	n := KeepAlive(child, 3)
	if n.Kind != KindKeepAlive || len(n.Children) != 1 || n.Children[0] != child {
		t.Fatalf("unexpected keep-alive node %+v", n)
	}
	if n.KeepAliveMax() != 3 {
		t.Errorf("max = %d, want 3", n.KeepAliveMax())
	}
	if KeepAlive(nil, 0).Children != nil {
		t.Error("nil child should produce no children")
	}
	if Div().KeepAliveMax() != 0 {
		t.Error("non keep-alive node should report 0")
	}
}
