package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

const (
	TemplateInvitation   = "invitation-email"
	TemplateVerification = "verification-email"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer rendert eine benannte Vorlage mit den gegebenen Variablen zu HTML.
type Renderer interface {
	Render(name string, vars map[string]any) (string, error)
}

type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parst alle eingebetteten Vorlagen. Der Name einer Vorlage ist ihr Dateiname ohne .html.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	root := template.New("").Option("missingkey=error")
	for _, e := range entries {
		raw, err := templateFS.ReadFile("templates/" + e.Name())
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(e.Name(), ".html")
		if _, err := root.New(name).Parse(string(raw)); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	return &TemplateRenderer{templates: root}, nil
}

func (r *TemplateRenderer) Render(name string, vars map[string]any) (string, error) {
	tpl := r.templates.Lookup(name)
	if tpl == nil {
		return "", fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
