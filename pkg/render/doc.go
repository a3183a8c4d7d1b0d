// Package render writes mounted trees as HTML.
//
// The renderer works on expanded trees, the output of mount.Runtime.Tree:
// component invocations must already be replaced by their output. Text is
// escaped, attributes are sorted for deterministic output and void
// elements get no closing tag.
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(rt.Tree())
//
// RenderPage wraps a tree in a complete HTML document.
package render
