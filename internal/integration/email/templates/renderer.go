// Package templates renders notification emails from embedded templates.
// Each template is a pair NAME.html and NAME.txt; the text part is optional.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed *.html *.txt
var files embed.FS

// Message is a rendered email body.
type Message struct {
	HTML string
	Text string
}

// Renderer executes the embedded templates.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses every embedded template. A parse error is a build
// defect, so callers fail fast on it.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html email templates: %w", err)
	}
	text, err := texttemplate.ParseFS(files, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text email templates: %w", err)
	}
	return &Renderer{html: html, text: text}, nil
}

// Has reports whether an HTML template called name exists.
func (r *Renderer) Has(name string) bool {
	return r.html.Lookup(name+".html") != nil
}

// Render executes template name with data.
func (r *Renderer) Render(name string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := r.html.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("render %s.html: %w", name, err)
	}
	msg := Message{HTML: buf.String()}

	if r.text.Lookup(name+".txt") == nil {
		return msg, nil
	}
	buf.Reset()
	if err := r.text.ExecuteTemplate(&buf, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s.txt: %w", name, err)
	}
	msg.Text = strings.TrimSpace(buf.String()) + "\n"
	return msg, nil
}
