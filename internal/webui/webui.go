// Package webui embeds the server-rendered page templates.
package webui

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded page templates. Panics on a malformed
// template, which only happens at build time.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"datetime": func(millis int64) string {
			return time.UnixMilli(millis).Format("2006/01/02 15:04")
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}
