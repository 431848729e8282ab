// Package render turns dashboard figures into HTML and SVG fragments and
// assembles them into the kiosk page. Spreadsheet text always goes through
// html/template escaping.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/okian/painel/internal/domain/people"
)

//go:embed templates/*.gohtml assets/*
var files embed.FS

// Renderer renders cards. It is safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	photos *people.Directory
	page   string
	css    string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPhotos sets the photo directory used by avatars.
func WithPhotos(d *people.Directory) Option {
	return func(r *Renderer) {
		r.photos = d
	}
}

// New parses the embedded templates.
func New(opts ...Option) (*Renderer, error) {
	tmpl, err := template.ParseFS(files, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	page, err := files.ReadFile("assets/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	css, err := files.ReadFile("assets/dashboard.css")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	r := &Renderer{tmpl: tmpl, page: string(page), css: string(css)}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Renderer) exec(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTemplate, name, err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
