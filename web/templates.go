// ABOUTME: TemplateEngine loads embedded HTML page templates and renders them with Go's html/template.
// ABOUTME: Every page is parsed together with the layout so the layout wraps it.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/2389-research/blocksite/content"
	"github.com/2389-research/blocksite/stories"
	"github.com/2389-research/blocksite/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title       string
	Stylesheets []string
	Admin       bool
	Message     string

	// Body is pre-rendered component markup (public pages, story previews).
	Body template.HTML

	Routes []store.Route
	Route  store.Route

	// Editor
	DocumentJSON   string
	BlockTypes     []content.BlockType
	BlockTemplates map[content.BlockType]json.RawMessage

	Stories     []*stories.Story
	Story       *stories.Story
	FixtureJSON string
}

// TemplateEngine loads and renders embedded HTML templates.
type TemplateEngine struct {
	templates map[string]*template.Template
}

var pages = []string{
	"page.html",
	"admin_index.html",
	"route_index.html",
	"editor.html",
	"stories_index.html",
	"story.html",
	"not_found.html",
}

// NewTemplateEngine parses all embedded templates and returns a ready-to-use engine.
func NewTemplateEngine() (*TemplateEngine, error) {
	engine := &TemplateEngine{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		t, err := template.New("layout.html").ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		engine.templates[page] = t
	}

	return engine, nil
}

// RenderStatus executes the named template and writes it to w as text/html
// with the given status. The page is rendered to a buffer first so a template
// failure can still produce a 500.
func (e *TemplateEngine) RenderStatus(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := e.RenderTo(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// RenderTo executes the named template with the given data and writes the
// result to an arbitrary io.Writer.
func (e *TemplateEngine) RenderTo(w io.Writer, name string, data any) error {
	t, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
