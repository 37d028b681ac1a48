// ABOUTME: Component story registry: fixtures and markdown descriptions for the admin preview pages.
// ABOUTME: Stories are embedded as YAML and decoded into typed props by story name.
package stories

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"slices"

	"github.com/2389-research/blocksite/content"
	"github.com/2389-research/blocksite/render"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed stories.yaml
var storiesYAML []byte

// ErrUnknownStory is returned for a story name outside the known component set.
var ErrUnknownStory = errors.New("unknown story")

// ErrMissingStory is returned when a component in Names has no story.
var ErrMissingStory = errors.New("missing story")

// Names lists every component with a story, in display order.
var Names = []string{"button", "header", "hero", "input", "checkbox"}

// Story is one previewable component with its fixture props.
type Story struct {
	Name        string
	Title       string
	Description string
	// DescriptionHTML is Description rendered from markdown.
	DescriptionHTML template.HTML
	Extra           []string
	Fixture         any
}

type storyYAML struct {
	Name        string    `yaml:"name"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Stylesheets []string  `yaml:"stylesheets"`
	Fixture     yaml.Node `yaml:"fixture"`
}

// Registry holds stories keyed by name, preserving file order.
type Registry struct {
	stories []*Story
	byName  map[string]*Story
}

// Load parses the embedded story file.
func Load() (*Registry, error) {
	return Parse(storiesYAML)
}

// Parse builds a registry from YAML story definitions.
func Parse(data []byte) (*Registry, error) {
	var raw []storyYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse stories: %w", err)
	}

	reg := &Registry{byName: make(map[string]*Story, len(raw))}
	md := goldmark.New()

	for _, r := range raw {
		if !slices.Contains(Names, r.Name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStory, r.Name)
		}
		if _, dup := reg.byName[r.Name]; dup {
			return nil, fmt.Errorf("story %q defined twice", r.Name)
		}

		fixture, err := decodeFixture(r.Name, &r.Fixture)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := md.Convert([]byte(r.Description), &buf); err != nil {
			return nil, fmt.Errorf("story %s: render description: %w", r.Name, err)
		}

		title := r.Title
		if title == "" {
			title = r.Name
		}

		s := &Story{
			Name:            r.Name,
			Title:           title,
			Description:     r.Description,
			DescriptionHTML: template.HTML(buf.String()),
			Extra:           r.Stylesheets,
			Fixture:         fixture,
		}
		reg.stories = append(reg.stories, s)
		reg.byName[s.Name] = s
	}

	for _, name := range Names {
		if _, ok := reg.byName[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingStory, name)
		}
	}
	return reg, nil
}

func decodeFixture(name string, node *yaml.Node) (any, error) {
	var (
		target any
		err    error
	)
	switch name {
	case "button":
		var p content.ButtonProps
		err = node.Decode(&p)
		target = p
	case "header":
		var p content.HeaderProps
		err = node.Decode(&p)
		target = p
	case "hero":
		var p content.HeroProps
		err = node.Decode(&p)
		target = p
	case "input":
		var p content.InputProps
		err = node.Decode(&p)
		target = p
	case "checkbox":
		var p content.CheckboxProps
		err = node.Decode(&p)
		target = p
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStory, name)
	}
	if err != nil {
		return nil, fmt.Errorf("story %s: decode fixture: %w", name, err)
	}
	return target, nil
}

// All returns stories in definition order.
func (r *Registry) All() []*Story {
	out := make([]*Story, len(r.stories))
	copy(out, r.stories)
	return out
}

// Get looks up a story by name.
func (r *Registry) Get(name string) (*Story, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Render renders the story's fixture with its component.
func (s *Story) Render() (template.HTML, error) {
	switch p := s.Fixture.(type) {
	case content.ButtonProps:
		return render.Button(p)
	case content.HeaderProps:
		return render.Header(p)
	case content.HeroProps:
		return render.Hero(p)
	case content.InputProps:
		return render.Input(p)
	case content.CheckboxProps:
		return render.Checkbox(p)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStory, s.Name)
	}
}

// FixtureJSON returns the fixture in its persisted JSON shape.
func (s *Story) FixtureJSON() (string, error) {
	data, err := json.MarshalIndent(s.Fixture, "", "  ")
	if err != nil {
		return "", fmt.Errorf("story %s: encode fixture: %w", s.Name, err)
	}
	return string(data), nil
}

// Stylesheets returns the global sheet, the story's own feature sheet, and
// any extras, without duplicates.
func (s *Story) Stylesheets() []string {
	sheets := []string{render.GlobalStylesheet}
	seen := map[string]bool{render.GlobalStylesheet: true}
	for _, url := range append([]string{render.FeatureStylesheet(s.Name)}, s.Extra...) {
		if !seen[url] {
			seen[url] = true
			sheets = append(sheets, url)
		}
	}
	return sheets
}
