// Package web embeds the HTML templates and static assets served by the site
// and the admin pages.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed all:static
var staticFS embed.FS

// Templates parses every template with funcs available to all of them.
func Templates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Static returns the static/ tree rooted at its top level.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static/ is compiled in; Sub only fails on a bad pattern
		panic(err)
	}
	return sub
}
