// ABOUTME: Tests for the TemplateEngine that loads and renders embedded HTML templates.
// ABOUTME: Covers parsing, layout wrapping, stylesheet links, and the editor's palette data.
package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2389-research/blocksite/content"
)

func TestTemplatesParse(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("failed to create template engine: %v", err)
	}
	for _, page := range pages {
		if _, ok := engine.templates[page]; !ok {
			t.Errorf("expected template %s to be loaded", page)
		}
	}
}

func TestLayoutRender(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("failed to create template engine: %v", err)
	}

	rec := httptest.NewRecorder()
	data := PageData{
		Title:       "Test Page",
		Stylesheets: []string{"/assets/styles.css", "/features/hero/styles.css"},
		Body:        template.HTML(`<p class="marker">hi</p>`),
	}
	if err := engine.RenderStatus(rec, http.StatusOK, "page.html", data); err != nil {
		t.Fatalf("failed to render: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("expected HTML5 doctype")
	}
	if !strings.Contains(body, "<title>Test Page</title>") {
		t.Error("expected title")
	}
	if !strings.Contains(body, `<link rel="stylesheet" href="/features/hero/styles.css">`) {
		t.Error("expected feature stylesheet link")
	}
	if !strings.Contains(body, `<p class="marker">hi</p>`) {
		t.Error("expected body markup unescaped")
	}
	if strings.Contains(body, "admin-nav") {
		t.Error("public pages should not show the admin nav")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestAdminLayout(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("failed to create template engine: %v", err)
	}

	var buf bytes.Buffer
	if err := engine.RenderTo(&buf, "admin_index.html", adminPage("Admin")); err != nil {
		t.Fatalf("failed to render: %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "admin-nav") || !strings.Contains(body, "/assets/admin.css") {
		t.Error("expected admin chrome")
	}
}

func TestEditorTemplatesAreJSON(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("failed to create template engine: %v", err)
	}

	raw, err := content.MarshalBlock(content.HeroProps{})
	if err != nil {
		t.Fatalf("MarshalBlock: %v", err)
	}
	data := adminPage("Edit homepage")
	data.DocumentJSON = `{"blocks": []}`
	data.BlockTypes = []content.BlockType{content.TypeHero}
	data.BlockTemplates = map[content.BlockType]json.RawMessage{content.TypeHero: raw}

	var buf bytes.Buffer
	if err := engine.RenderTo(&buf, "editor.html", data); err != nil {
		t.Fatalf("failed to render: %v", err)
	}
	body := buf.String()

	start := strings.Index(body, `<script type="application/json" id="block-templates">`)
	if start < 0 {
		t.Fatal("expected block templates script")
	}
	rest := body[start:]
	rest = rest[strings.Index(rest, ">")+1:]
	rest = rest[:strings.Index(rest, "</script>")]

	var got map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rest), &got); err != nil {
		t.Fatalf("block templates are not JSON: %v\n%s", err, rest)
	}
	if _, ok := got["Hero"]; !ok {
		t.Errorf("expected Hero template, got %v", got)
	}
}

func TestRenderStatusWritesStatus(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("failed to create template engine: %v", err)
	}
	rec := httptest.NewRecorder()
	data := PageData{Title: "Missing", Message: "gone"}
	if err := engine.RenderStatus(rec, http.StatusNotFound, "not_found.html", data); err != nil {
		t.Fatalf("failed to render: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("failed to create template engine: %v", err)
	}
	if err := engine.RenderStatus(httptest.NewRecorder(), http.StatusOK, "nope.html", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}
