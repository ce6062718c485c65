package ast

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chazu/speculate/pkg/lexer"
)

// Block kinds as written in the "type" field of the JSON form.
const (
	TypeDescribe = "describe"
	TypeIt       = "it"
	TypeItem     = "item"
)

// Marshal encodes a parsed tree as indented JSON.
func Marshal(root *Root) ([]byte, error) {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal AST: %w", err)
	}
	return data, nil
}

// Parse reads AST JSON from a reader and returns a Root.
func Parse(r io.Reader) (*Root, error) {
	var root Root
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse AST: %w", err)
	}
	if root.Describe == nil {
		return nil, fmt.Errorf("failed to parse AST: missing describe")
	}
	return &root, nil
}

// ParseBytes parses AST JSON from a byte slice.
func ParseBytes(data []byte) (*Root, error) {
	var root Root
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse AST: %w", err)
	}
	if root.Describe == nil {
		return nil, fmt.Errorf("failed to parse AST: missing describe")
	}
	return &root, nil
}

func (d *Describe) MarshalJSON() ([]byte, error) {
	type plain Describe
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeDescribe, (*plain)(d)})
}

func (i *It) MarshalJSON() ([]byte, error) {
	type plain It
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeIt, (*plain)(i)})
}

func (i *Item) MarshalJSON() ([]byte, error) {
	type plain Item
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeItem, (*plain)(i)})
}

func (d *Describe) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string            `json:"name"`
		Before []RawBlock        `json:"before"`
		After  []RawBlock        `json:"after"`
		Blocks []json.RawMessage `json:"blocks"`
		Pos    Pos               `json:"pos"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Name, d.Before, d.After, d.Pos = raw.Name, raw.Before, raw.After, raw.Pos
	d.Blocks = make([]Block, 0, len(raw.Blocks))
	for _, msg := range raw.Blocks {
		b, err := decodeBlock(msg)
		if err != nil {
			return err
		}
		d.Blocks = append(d.Blocks, b)
	}
	return nil
}

func decodeBlock(msg json.RawMessage) (Block, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		return nil, err
	}

	var b Block
	switch head.Type {
	case TypeDescribe:
		b = &Describe{}
	case TypeIt:
		b = &It{}
	case TypeItem:
		b = &Item{}
	default:
		return nil, fmt.Errorf("unknown block type %q", head.Type)
	}
	if err := json.Unmarshal(msg, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Token runs are not serialized; decoding recovers them from the text.
// Positions of recovered tokens are relative to the text.

func (i *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	if err := json.Unmarshal(data, (*plain)(i)); err != nil {
		return err
	}
	toks, err := lexer.New(i.Text).Tokenize()
	if err != nil {
		return fmt.Errorf("item at %s: %w", i.Pos, err)
	}
	i.Tokens = toks
	return nil
}

func (a *Attribute) UnmarshalJSON(data []byte) error {
	type plain Attribute
	if err := json.Unmarshal(data, (*plain)(a)); err != nil {
		return err
	}
	toks, err := lexer.New(a.Text).Tokenize()
	if err != nil {
		return fmt.Errorf("attribute at %s: %w", a.Pos, err)
	}
	// Drop the leading `#` `[` and the closing `]`.
	if len(toks) < 3 || toks[0].Type != lexer.HASH || toks[1].Type != lexer.LBRACKET || toks[len(toks)-1].Type != lexer.RBRACKET {
		return fmt.Errorf("attribute at %s: malformed %q", a.Pos, a.Text)
	}
	a.Tokens = toks[2 : len(toks)-1]
	return nil
}
