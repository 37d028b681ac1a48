// ABOUTME: Tests for the block wire format: discriminator, flattened ids, and strict decoding.
// ABOUTME: Covers round-trips for every variant and rejection of malformed payloads.
package content

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleHeader() HeaderProps {
	return HeaderProps{
		Headline: "Hello",
		Button: ButtonProps{
			Href:      "/go",
			Text:      "Go",
			AriaLabel: "Go somewhere",
		},
	}
}

func TestMarshalBlockDiscriminant(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{name: "header", block: sampleHeader(), want: "Header"},
		{name: "hero", block: HeroProps{Headline: "h", Subheadline: "s"}, want: "Hero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalBlock(tt.block)
			if err != nil {
				t.Fatalf("MarshalBlock: %v", err)
			}
			var m map[string]json.RawMessage
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			var typ string
			if err := json.Unmarshal(m["type"], &typ); err != nil {
				t.Fatalf("decode type: %v", err)
			}
			if typ != tt.want {
				t.Errorf("type = %q, want %q", typ, tt.want)
			}
			if _, ok := m["props"]; !ok {
				t.Error("expected props key")
			}
		})
	}
}

func TestBlockWithIDFlattened(t *testing.T) {
	b := BlockWithID{ID: "abc", Block: sampleHeader()}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(m) != 3 {
		t.Fatalf("expected exactly 3 keys, got %d: %s", len(m), data)
	}
	for _, key := range []string{"id", "type", "props"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if _, ok := m["block"]; ok {
		t.Error("block must not be nested under a \"block\" key")
	}
	if !strings.HasPrefix(string(data), `{"id":"abc","type":"Header","props":{`) {
		t.Errorf("unexpected key order: %s", data)
	}
}

func TestBlockPropsFieldNames(t *testing.T) {
	data, err := MarshalBlock(sampleHeader())
	if err != nil {
		t.Fatalf("MarshalBlock: %v", err)
	}
	want := `{"type":"Header","props":{"headline":"Hello","button":{"href":"/go","text":"Go","aria_label":"Go somewhere"}}}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}

func TestUnmarshalBlockRoundTrip(t *testing.T) {
	for _, typ := range BlockTypes() {
		t.Run(string(typ), func(t *testing.T) {
			blk, err := NewBlock(typ)
			if err != nil {
				t.Fatalf("NewBlock: %v", err)
			}
			data, err := MarshalBlock(blk)
			if err != nil {
				t.Fatalf("MarshalBlock: %v", err)
			}
			got, err := UnmarshalBlock(data)
			if err != nil {
				t.Fatalf("UnmarshalBlock: %v", err)
			}
			if got.BlockType() != typ {
				t.Errorf("BlockType = %q, want %q", got.BlockType(), typ)
			}
			if diff := cmp.Diff(blk, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshalBlockRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "unknown type", json: `{"type":"Footer","props":{}}`},
		{name: "missing type", json: `{"props":{"headline":"a","subheadline":"b"}}`},
		{name: "missing props", json: `{"type":"Hero"}`},
		{name: "null props", json: `{"type":"Hero","props":null}`},
		{name: "hero missing subheadline", json: `{"type":"Hero","props":{"headline":"a"}}`},
		{name: "header missing button", json: `{"type":"Header","props":{"headline":"a"}}`},
		{name: "button missing aria_label", json: `{"type":"Header","props":{"headline":"a","button":{"href":"/","text":"t"}}}`},
		{name: "wrong field type", json: `{"type":"Hero","props":{"headline":1,"subheadline":"b"}}`},
		{name: "not an object", json: `"Hero"`},
		{name: "null", json: `null`},
		{name: "capitalized type key", json: `{"Type":"Hero","props":{"headline":"a","subheadline":"b"}}`},
		{name: "upper case props key", json: `{"type":"Hero","PROPS":{"headline":"a","subheadline":"b"}}`},
		{name: "upper case payload key", json: `{"type":"Hero","props":{"HEADLINE":"a","subheadline":"b"}}`},
		{name: "camel case payload key", json: `{"type":"Hero","props":{"headline":"a","SubHeadline":"b"}}`},
		{name: "capitalized button key", json: `{"type":"Header","props":{"headline":"a","button":{"Href":"/","text":"t","aria_label":"l"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalBlock([]byte(tt.json)); err == nil {
				t.Errorf("expected error for %s", tt.json)
			}
		})
	}
}

func TestBlockWithIDMissingIDDecodesEmpty(t *testing.T) {
	var b BlockWithID
	err := json.Unmarshal([]byte(`{"type":"Hero","props":{"headline":"a","subheadline":"b"}}`), &b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if b.ID != "" {
		t.Errorf("ID = %q, want empty", b.ID)
	}
	if diff := cmp.Diff(Block(HeroProps{Headline: "a", Subheadline: "b"}), b.Block); diff != "" {
		t.Errorf("block mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalNilBlockFails(t *testing.T) {
	if _, err := json.Marshal(BlockWithID{ID: "x"}); err == nil {
		t.Error("expected error marshaling a BlockWithID without a block")
	}
}

func TestBlockWithIDIgnoresMiscasedID(t *testing.T) {
	var b BlockWithID
	err := json.Unmarshal([]byte(`{"ID":"x","type":"Hero","props":{"headline":"a","subheadline":"b"}}`), &b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if b.ID != "" {
		t.Errorf("ID = %q, want empty; only the exact \"id\" key is read", b.ID)
	}
}

func TestMarshalPointerBlockFails(t *testing.T) {
	for _, b := range []Block{&HeroProps{Headline: "a"}, &HeaderProps{}} {
		if _, err := MarshalBlock(b); err == nil {
			t.Errorf("expected error marshaling %T", b)
		}
		if _, err := json.Marshal(BlockWithID{ID: "x", Block: b}); err == nil {
			t.Errorf("expected error marshaling BlockWithID holding %T", b)
		}
	}
}

func TestNewBlockUnknown(t *testing.T) {
	if _, err := NewBlock("Carousel"); err == nil {
		t.Error("expected error for unknown block type")
	}
}

func TestBlockTypesReturnsCopy(t *testing.T) {
	types := BlockTypes()
	types[0] = "Mutated"
	if BlockTypes()[0] != TypeHeader {
		t.Error("BlockTypes must not expose its backing array")
	}
}
