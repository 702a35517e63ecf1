// Package web holds the server-rendered pages of the admin shell.
package web

import (
	"embed"
	"fmt"
	"html/template"
)

// Page template names
const (
	PageLogin    = "login.html"
	PageHome     = "home.html"
	PageLoading  = "loading.html"
	PageRedirect = "redirect.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return tmpl, nil
}

// MustTemplates is Templates for static setup code
func MustTemplates() *template.Template {
	tmpl, err := Templates()
	if err != nil {
		panic(err)
	}
	return tmpl
}
