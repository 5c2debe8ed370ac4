package server

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*
var templateFiles embed.FS

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, err
	}
	content, err := fs.ReadFile(subFS, name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}
