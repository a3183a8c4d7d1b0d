package vdom

import "testing"

func TestCreateElement(t *testing.T) {
	n := Div(
		Class("a", "b"),
		ID("main"),
		Key("row-1"),
		nil,
		[]Attr{Data("depth", "1")},
		Props{"title": "t"},
		H1("Hello"),
		[]*VNode{Text("x"), nil},
	)

	if n.Tag != "div" || n.Kind != KindElement {
		t.Fatalf("unexpected node %+v", n)
	}
	if n.Props["class"] != "a b" || n.Props["id"] != "main" {
		t.Errorf("attributes: %v", n.Props)
	}
	if n.Props["data-depth"] != "1" || n.Props["title"] != "t" {
		t.Errorf("attributes: %v", n.Props)
	}
	if n.Key != "row-1" {
		t.Errorf("key = %q", n.Key)
	}
	if _, ok := n.Props["key"]; ok {
		t.Error("key must not be rendered as an attribute")
	}
	if len(n.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(n.Children))
	}
	if TextContent(n) != "Hellox" {
		t.Errorf("TextContent = %q", TextContent(n))
	}
}

func TestVoidElements(t *testing.T) {
	if !IsVoidElement("br") || IsVoidElement("div") {
		t.Error("void element table is wrong")
	}
}

func TestFragmentAndConditionals(t *testing.T) {
	f := Fragment("a", nil, Text("b"), []*VNode{Text("c")}, If(false, Text("no")))
	if len(f.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(f.Children))
	}
	if When(false, func() *VNode { panic("not called") }) != nil {
		t.Error("When(false) should be nil")
	}
	items := Range([]string{"x", "", "y"}, func(_ int, s string) *VNode {
		if s == "" {
			return nil
		}
		return Li(s)
	})
	if len(items) != 2 {
		t.Errorf("Range should skip nil results, got %d", len(items))
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	tree := Div(Span("inner"), P("para"))
	var tags []string
	Walk(tree, func(n *VNode) bool {
		if n.Kind == KindElement {
			tags = append(tags, n.Tag)
		}
		return n.Tag != "span"
	})
	want := []string{"div", "span", "p"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v", tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags = %v, want %v", tags, want)
		}
	}
}
