package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltmpl "html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"
)

// Template names shipped with the binary.
const (
	TemplateVerifyEmail   = "verify_email"
	TemplatePasswordReset = "password_reset"
)

//go:embed templates/*
var templateFS embed.FS

type templateSet struct {
	text *texttmpl.Template
	html *htmltmpl.Template
}

var (
	templatesOnce sync.Once
	templates     map[string]templateSet
	templatesErr  error
)

// TemplateData is exposed to every template. Extra values are reachable via .Data.
type TemplateData struct {
	SiteName  string
	FirstName string
	Link      string
	ExpiresIn string
	Data      any
}

// Render executes the named template pair and returns the plain text and HTML bodies.
func Render(name string, data TemplateData) (string, string, error) {
	templatesOnce.Do(func() {
		templates, templatesErr = parseTemplates(templateFS)
	})
	if templatesErr != nil {
		return "", "", templatesErr
	}

	set, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("mail: unknown template %q", name)
	}

	var text, html bytes.Buffer
	if err := set.text.ExecuteTemplate(&text, "base", data); err != nil {
		return "", "", fmt.Errorf("mail: render %s.txt: %w", name, err)
	}
	if err := set.html.ExecuteTemplate(&html, "base", data); err != nil {
		return "", "", fmt.Errorf("mail: render %s.gohtml: %w", name, err)
	}
	return strings.TrimSpace(text.String()), html.String(), nil
}

// parseTemplates pairs every name.txt with name.gohtml, each layered over the
// matching _base file. Files starting with "_" are partials.
func parseTemplates(fsys fs.FS) (map[string]templateSet, error) {
	entries, err := fs.ReadDir(fsys, "templates")
	if err != nil {
		return nil, fmt.Errorf("mail: read templates: %w", err)
	}

	out := make(map[string]templateSet)
	for _, entry := range entries {
		file := entry.Name()
		if entry.IsDir() || strings.HasPrefix(file, "_") || path.Ext(file) != ".txt" {
			continue
		}
		name := strings.TrimSuffix(file, ".txt")

		text, err := texttmpl.New(name).Option("missingkey=error").
			ParseFS(fsys, "templates/_base.txt", "templates/"+file)
		if err != nil {
			return nil, fmt.Errorf("mail: parse %s: %w", file, err)
		}
		html, err := htmltmpl.New(name).Option("missingkey=error").
			ParseFS(fsys, "templates/_base.gohtml", "templates/"+name+".gohtml")
		if err != nil {
			return nil, fmt.Errorf("mail: parse %s.gohtml: %w", name, err)
		}
		out[name] = templateSet{text: text, html: html}
	}
	return out, nil
}
