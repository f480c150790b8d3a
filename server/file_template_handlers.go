package server

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a page together with any partials it uses
func ParseTemplate(name string, partials ...string) (*template.Template, error) {
	return template.New(name).ParseFS(TemplateFilesFS(), append([]string{name}, partials...)...)
}

// pages holds every template, parsed once at start up
type pages struct {
	index        *template.Template
	signin       *template.Template
	adminLayout  *template.Template
	dashboard    *template.Template
	profile      *template.Template
	gateError    *template.Template
	gateLoading  *template.Template
	unauthorized *template.Template
}

func loadPages() (*pages, error) {
	p := &pages{}
	for _, t := range []struct {
		dst      **template.Template
		name     string
		partials []string
	}{
		{&p.index, "index.html", nil},
		{&p.signin, "signin.html", []string{"signin_field.html"}},
		{&p.adminLayout, "admin_layout.html", nil},
		{&p.dashboard, "admin_dashboard_content.html", nil},
		{&p.profile, "admin_profile_content.html", nil},
		{&p.gateError, "gate_error.html", nil},
		{&p.gateLoading, "gate_loading.html", nil},
		{&p.unauthorized, "gate_unauthorized.html", nil},
	} {
		tmpl, err := ParseTemplate(t.name, t.partials...)
		if err != nil {
			return nil, err
		}
		*t.dst = tmpl
	}
	return p, nil
}
