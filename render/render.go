// ABOUTME: Renders block and component props to HTML fragments via embedded html/template files.
// ABOUTME: Block dispatch is an exhaustive type switch over the closed content.Block set.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/2389-research/blocksite/content"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrUnknownBlock is returned when Block is handed a variant it has no
// component for.
var ErrUnknownBlock = errors.New("no renderer for block")

// GlobalStylesheet is included on every page before any feature stylesheet.
const GlobalStylesheet = "/assets/styles.css"

var components = template.Must(template.New("components").ParseFS(templateFS, "templates/*.html"))

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := components.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Button renders a call-to-action link.
func Button(p content.ButtonProps) (template.HTML, error) {
	return execute("button", p)
}

// Header renders a page header; the button is rendered by the button component.
func Header(p content.HeaderProps) (template.HTML, error) {
	return execute("header", p)
}

// Hero renders a hero section.
func Hero(p content.HeroProps) (template.HTML, error) {
	return execute("hero", p)
}

// Input renders a labelled form input.
func Input(p content.InputProps) (template.HTML, error) {
	return execute("input", p)
}

// Checkbox renders a labelled checkbox.
func Checkbox(p content.CheckboxProps) (template.HTML, error) {
	return execute("checkbox", p)
}

// Block renders one block by dispatching on its variant.
func Block(b content.Block) (template.HTML, error) {
	switch v := b.(type) {
	case content.HeaderProps:
		return Header(v)
	case content.HeroProps:
		return Hero(v)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownBlock, b)
	}
}

// Blocks renders blocks in order, each wrapped in an element carrying its id.
func Blocks(blocks []content.BlockWithID) (template.HTML, error) {
	var buf bytes.Buffer
	for _, b := range blocks {
		html, err := Block(b.Block)
		if err != nil {
			return "", fmt.Errorf("block %s: %w", b.ID, err)
		}
		buf.WriteString(`<div class="block" data-block-id="`)
		buf.WriteString(template.HTMLEscapeString(b.ID))
		buf.WriteString(`">`)
		buf.WriteString(string(html))
		buf.WriteString("</div>\n")
	}
	return template.HTML(buf.String()), nil
}

// FeatureName returns the stylesheet directory for a block variant.
func FeatureName(t content.BlockType) string {
	switch t {
	case content.TypeHeader:
		return "header"
	case content.TypeHero:
		return "hero"
	default:
		return ""
	}
}

// FeatureStylesheet returns the URL of a feature's stylesheet.
func FeatureStylesheet(feature string) string {
	return "/features/" + feature + "/styles.css"
}

// Stylesheets lists the stylesheets a page of blocks needs: the global sheet,
// then one per feature in order of first appearance. A header also pulls in
// the button sheet since it embeds one.
func Stylesheets(blocks []content.BlockWithID) []string {
	sheets := []string{GlobalStylesheet}
	seen := map[string]bool{GlobalStylesheet: true}
	add := func(feature string) {
		if feature == "" {
			return
		}
		url := FeatureStylesheet(feature)
		if !seen[url] {
			seen[url] = true
			sheets = append(sheets, url)
		}
	}
	for _, b := range blocks {
		if b.Block == nil {
			continue
		}
		t := b.Block.BlockType()
		add(FeatureName(t))
		if t == content.TypeHeader {
			add("button")
		}
	}
	return sheets
}
