package render

import (
	"io"
	"sort"

	"github.com/vango-dev/routeview/pkg/vdom"
)

// PageData describes a complete HTML document.
type PageData struct {
	// Body is rendered inside <body>.
	Body *vdom.VNode

	Title string

	// Lang defaults to "en".
	Lang string

	// Meta holds <meta name=... content=...> pairs.
	Meta map[string]string

	StyleSheets []string
}

// RenderPage writes a complete HTML document.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	ew := &errWriter{w: w}
	ew.WriteString("<!DOCTYPE html>\n")
	ew.WriteString(`<html lang="` + escapeAttr(lang) + `">` + "\n")
	ew.WriteString("<head>\n")
	ew.WriteString(`  <meta charset="utf-8">` + "\n")
	if page.Title != "" {
		ew.WriteString("  <title>" + escapeHTML(page.Title) + "</title>\n")
	}

	names := make([]string, 0, len(page.Meta))
	for name := range page.Meta {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ew.WriteString(`  <meta name="` + escapeAttr(name) + `" content="` + escapeAttr(page.Meta[name]) + `">` + "\n")
	}
	for _, href := range page.StyleSheets {
		ew.WriteString(`  <link rel="stylesheet" href="` + escapeAttr(href) + `">` + "\n")
	}
	ew.WriteString("</head>\n<body>\n")

	if err := r.renderNode(ew, page.Body, 0); err != nil {
		return err
	}

	ew.WriteString("\n</body>\n</html>\n")
	return ew.err
}
