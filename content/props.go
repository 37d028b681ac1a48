// ABOUTME: Props payloads for blocks and standalone components (button, input, checkbox).
// ABOUTME: Decoding is strict about required fields so malformed documents are rejected.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ButtonProps describes a call-to-action link. It has no identity of its
// own and is always owned by the block that contains it.
type ButtonProps struct {
	Href      string `json:"href" yaml:"href"`
	Text      string `json:"text" yaml:"text"`
	AriaLabel string `json:"aria_label" yaml:"aria_label"`
}

// HeaderProps is the payload of a Header block: a headline and a CTA button.
type HeaderProps struct {
	Headline string      `json:"headline" yaml:"headline"`
	Button   ButtonProps `json:"button" yaml:"button"`
}

// HeroProps is the payload of a Hero block.
type HeroProps struct {
	Headline    string `json:"headline" yaml:"headline"`
	Subheadline string `json:"subheadline" yaml:"subheadline"`
}

// InputProps describes a labelled form input. It is a component, not a block.
type InputProps struct {
	Label           string  `json:"label" yaml:"label"`
	Name            string  `json:"name" yaml:"name"`
	InputType       string  `json:"type" yaml:"type"`
	Placeholder     *string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Value           *string `json:"value,omitempty" yaml:"value,omitempty"`
	Required        bool    `json:"required" yaml:"required"`
	AriaDescribedBy *string `json:"aria_describedby,omitempty" yaml:"aria_describedby,omitempty"`
}

// CheckboxProps describes a labelled checkbox. It is a component, not a block.
type CheckboxProps struct {
	Label           string  `json:"label" yaml:"label"`
	Name            string  `json:"name" yaml:"name"`
	Value           *string `json:"value,omitempty" yaml:"value,omitempty"`
	Checked         bool    `json:"checked" yaml:"checked"`
	Required        bool    `json:"required" yaml:"required"`
	AriaDescribedBy *string `json:"aria_describedby,omitempty" yaml:"aria_describedby,omitempty"`
}

func missingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}

// objectFields splits a JSON object into its members keyed by exact name.
// Struct decoding in encoding/json folds case; the persisted format does not.
func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("expected a JSON object, got null")
	}
	return m, nil
}

// requiredField decodes member key of m into dst. An absent or null member
// is a missing field.
func requiredField(m map[string]json.RawMessage, key string, dst any) error {
	raw, ok := m[key]
	if !ok || string(raw) == "null" {
		return missingField(key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// UnmarshalJSON rejects payloads that omit any of the button fields.
func (p *ButtonProps) UnmarshalJSON(data []byte) error {
	m, err := objectFields(data)
	if err != nil {
		return err
	}
	var b ButtonProps
	if err := requiredField(m, "href", &b.Href); err != nil {
		return err
	}
	if err := requiredField(m, "text", &b.Text); err != nil {
		return err
	}
	if err := requiredField(m, "aria_label", &b.AriaLabel); err != nil {
		return err
	}
	*p = b
	return nil
}

// UnmarshalJSON rejects payloads that omit the headline or the button.
func (p *HeaderProps) UnmarshalJSON(data []byte) error {
	m, err := objectFields(data)
	if err != nil {
		return err
	}
	var h HeaderProps
	if err := requiredField(m, "headline", &h.Headline); err != nil {
		return err
	}
	if err := requiredField(m, "button", &h.Button); err != nil {
		return err
	}
	*p = h
	return nil
}

// UnmarshalJSON rejects payloads that omit the headline or subheadline.
func (p *HeroProps) UnmarshalJSON(data []byte) error {
	m, err := objectFields(data)
	if err != nil {
		return err
	}
	var h HeroProps
	if err := requiredField(m, "headline", &h.Headline); err != nil {
		return err
	}
	if err := requiredField(m, "subheadline", &h.Subheadline); err != nil {
		return err
	}
	*p = h
	return nil
}
