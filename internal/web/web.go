package web

import (
	"embed"
	"html/template"
	"io/fs"
)

// Assets holds the HTML templates.
//
//go:embed templates
var Assets embed.FS

// Templates parses the page layout together with the named page template.
func Templates(funcs template.FuncMap, page string) (*template.Template, error) {
	sub, err := fs.Sub(Assets, "templates")
	if err != nil {
		return nil, err
	}
	return template.New("base.html").Funcs(funcs).ParseFS(sub, "base.html", page)
}
