// ABOUTME: Document is the persisted unit for one route: an ordered list of blocks.
// ABOUTME: Also holds the seed content used when no valid document exists and id helpers.
package content

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Document is the top-level persisted shape of a route's content file.
// Block order is render order.
type Document struct {
	Blocks []BlockWithID `json:"blocks"`
}

// NewDocument wraps blocks verbatim.
func NewDocument(blocks []BlockWithID) Document {
	return Document{Blocks: blocks}
}

type documentJSON struct {
	Blocks []BlockWithID `json:"blocks"`
}

// MarshalJSON writes a nil block list as [] rather than null.
func (d Document) MarshalJSON() ([]byte, error) {
	blocks := d.Blocks
	if blocks == nil {
		blocks = []BlockWithID{}
	}
	return json.Marshal(documentJSON{Blocks: blocks})
}

// UnmarshalJSON requires the "blocks" key to be present and non-null.
func (d *Document) UnmarshalJSON(data []byte) error {
	m, err := objectFields(data)
	if err != nil {
		return err
	}
	var blocks []BlockWithID
	if err := requiredField(m, "blocks", &blocks); err != nil {
		return err
	}
	if blocks == nil {
		blocks = []BlockWithID{}
	}
	d.Blocks = blocks
	return nil
}

// ParseDocument decodes a content file.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// MarshalDocument encodes a content file as pretty-printed JSON.
func MarshalDocument(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// DefaultBlocks returns the seed homepage content shown when a route has no
// usable document. Each call returns a fresh slice with identical values.
func DefaultBlocks() []BlockWithID {
	return []BlockWithID{
		{
			ID: "550e8400-e29b-41d4-a716-446655440001",
			Block: HeaderProps{
				Headline: "Eng Manager",
				Button: ButtonProps{
					Href:      "/contact",
					Text:      "Get in touch",
					AriaLabel: "Contact us to discuss your engineering needs",
				},
			},
		},
		{
			ID: "550e8400-e29b-41d4-a716-446655440002",
			Block: HeroProps{
				Headline:    "Building world-class engineering teams",
				Subheadline: "Leadership through example, expertise, and empathy",
			},
		},
	}
}

// EnsureBlockIDs returns a copy of blocks in which every empty id has been
// replaced with a fresh UUIDv4. Existing ids are kept as-is and are not
// checked for uniqueness.
func EnsureBlockIDs(blocks []BlockWithID) []BlockWithID {
	out := make([]BlockWithID, len(blocks))
	for i, b := range blocks {
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		out[i] = b
	}
	return out
}

// DuplicateIDs lists ids that occur more than once, in order of their
// second occurrence. Load and save never call this.
func DuplicateIDs(blocks []BlockWithID) []string {
	seen := make(map[string]int, len(blocks))
	var dups []string
	for _, b := range blocks {
		seen[b.ID]++
		if seen[b.ID] == 2 {
			dups = append(dups, b.ID)
		}
	}
	return dups
}
