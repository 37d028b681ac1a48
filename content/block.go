// ABOUTME: Block content model: a closed set of typed page blocks tagged by variant name.
// ABOUTME: Encodes blocks as {"type": ..., "props": {...}} and BlockWithID with a flattened id.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

// BlockType is the discriminant written to the "type" field of a serialized block.
type BlockType string

const (
	TypeHeader BlockType = "Header"
	TypeHero   BlockType = "Hero"
)

var blockTypes = []BlockType{TypeHeader, TypeHero}

// BlockTypes returns every block variant in declaration order. Consumers that
// dispatch over blocks (rendering, the admin palette) iterate this list in
// their tests so a new variant cannot go unhandled.
func BlockTypes() []BlockType {
	out := make([]BlockType, len(blockTypes))
	copy(out, blockTypes)
	return out
}

// Block is one piece of typed page content. The set of implementations is
// closed: only the props types declared in this package satisfy it, and only
// their values are encoded; pointers to them are rejected.
type Block interface {
	BlockType() BlockType
	isBlock()
}

// BlockType implements Block.
func (HeaderProps) BlockType() BlockType { return TypeHeader }
func (HeaderProps) isBlock()             {}

// BlockType implements Block.
func (HeroProps) BlockType() BlockType { return TypeHero }
func (HeroProps) isBlock()             {}

// NewBlock returns the zero value of the variant named by t.
func NewBlock(t BlockType) (Block, error) {
	switch t {
	case TypeHeader:
		return HeaderProps{}, nil
	case TypeHero:
		return HeroProps{}, nil
	default:
		return nil, fmt.Errorf("unknown block type: %q", t)
	}
}

// blockJSON is the wire format of a bare Block.
type blockJSON struct {
	Type  BlockType       `json:"type"`
	Props json.RawMessage `json:"props"`
}

// blockWithIDJSON is the wire format of a BlockWithID. The id sits beside
// the discriminant instead of wrapping the block.
type blockWithIDJSON struct {
	ID    string          `json:"id"`
	Type  BlockType       `json:"type"`
	Props json.RawMessage `json:"props"`
}

// MarshalBlock serializes a Block with its "type" discriminator and "props" payload.
func MarshalBlock(b Block) ([]byte, error) {
	props, err := marshalProps(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockJSON{Type: b.BlockType(), Props: props})
}

// UnmarshalBlock deserializes a Block from JSON with a "type" discriminator.
func UnmarshalBlock(data []byte) (Block, error) {
	m, err := objectFields(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal block: %w", err)
	}
	return decodeEnvelope(m)
}

// decodeEnvelope reads the exact "type" and "props" members of a block.
func decodeEnvelope(m map[string]json.RawMessage) (Block, error) {
	var t BlockType
	if err := requiredField(m, "type", &t); err != nil {
		return nil, err
	}
	return decodeBlock(t, m["props"])
}

func marshalProps(b Block) (json.RawMessage, error) {
	switch b.(type) {
	case HeaderProps, HeroProps:
	case nil:
		return nil, errors.New("marshal block: nil block")
	default:
		return nil, fmt.Errorf("marshal block: unsupported block value %T", b)
	}
	props, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal %s props: %w", b.BlockType(), err)
	}
	return props, nil
}

func decodeBlock(t BlockType, props json.RawMessage) (Block, error) {
	if t == "" {
		return nil, errors.New("block is missing its type")
	}
	if len(props) == 0 || string(props) == "null" {
		return nil, fmt.Errorf("block %q is missing its props", t)
	}

	switch t {
	case TypeHeader:
		var p HeaderProps
		if err := json.Unmarshal(props, &p); err != nil {
			return nil, fmt.Errorf("decode Header props: %w", err)
		}
		return p, nil
	case TypeHero:
		var p HeroProps
		if err := json.Unmarshal(props, &p); err != nil {
			return nil, fmt.Errorf("decode Hero props: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown block type: %q", t)
	}
}

// BlockWithID pairs a Block with a stable identifier, normally a UUIDv4
// string. The shape of the id is not enforced.
type BlockWithID struct {
	ID    string
	Block Block
}

// MarshalJSON writes the id as a sibling of "type" and "props".
func (b BlockWithID) MarshalJSON() ([]byte, error) {
	props, err := marshalProps(b.Block)
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockWithIDJSON{
		ID:    b.ID,
		Type:  b.Block.BlockType(),
		Props: props,
	})
}

// UnmarshalJSON reads the flattened form. A missing id decodes as "".
func (b *BlockWithID) UnmarshalJSON(data []byte) error {
	m, err := objectFields(data)
	if err != nil {
		return err
	}
	var id string
	if raw, ok := m["id"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &id); err != nil {
			return fmt.Errorf("field %q: %w", "id", err)
		}
	}
	blk, err := decodeEnvelope(m)
	if err != nil {
		return err
	}
	b.ID = id
	b.Block = blk
	return nil
}
