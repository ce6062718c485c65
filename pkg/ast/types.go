// Package ast defines the tree produced by the speculate parser.
package ast

import (
	"fmt"
	"strings"

	"github.com/chazu/speculate/pkg/lexer"
)

// RootName is the placeholder name of the synthetic outermost Describe.
const RootName = "speculate"

// Pos represents a position in a source file.
type Pos struct {
	Filename string `json:"file,omitempty"`
	Line     int    `json:"line"` // 1-based
	Col      int    `json:"col"`  // 1-based, bytes
}

// PosOf returns the position of a lexer token.
func PosOf(filename string, tok lexer.Token) Pos {
	return Pos{Filename: filename, Line: tok.Line, Col: tok.Column + 1}
}

// String returns "file:line:col", or "line:col" without a filename.
func (p Pos) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// IsValid reports whether the position is known.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Root is the result of parsing one invocation. It wraps the synthetic
// Describe standing for the invocation's outermost scope.
type Root struct {
	Describe *Describe `json:"describe"`
}

// Describe is a named group of hooks, tests, nested groups and
// passthrough declarations.
type Describe struct {
	Name   string     `json:"name"`
	Before []RawBlock `json:"before"` // source order among before hooks
	After  []RawBlock `json:"after"`  // source order among after hooks
	Blocks []Block    `json:"blocks"`
	Pos    Pos        `json:"pos"`
}

// IsEmpty reports whether the group has no hooks and no blocks.
func (d *Describe) IsEmpty() bool {
	return len(d.Before) == 0 && len(d.After) == 0 && len(d.Blocks) == 0
}

// Block is one entry of a Describe: a *Describe, an *It or an *Item.
type Block interface {
	Position() Pos
	blockNode()
}

// It is a single test case.
type It struct {
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
	Block      RawBlock    `json:"block"`
	Pos        Pos         `json:"pos"`
}

// Item is a declaration carried through verbatim.
type Item struct {
	Text   string        `json:"text"`
	Tokens []lexer.Token `json:"-"`
	Pos    Pos           `json:"pos"`
}

// Keyword returns the declaration keyword the item starts with
// (func, const, var, type or import).
func (i *Item) Keyword() string {
	for _, tok := range i.Tokens {
		if tok.Type != lexer.NEWLINE {
			return tok.Value
		}
	}
	return ""
}

func (d *Describe) Position() Pos { return d.Pos }
func (i *It) Position() Pos       { return i.Pos }
func (i *Item) Position() Pos     { return i.Pos }

func (*Describe) blockNode() {}
func (*It) blockNode()       {}
func (*Item) blockNode()     {}

// Attribute is an annotation written before a test, e.g. #[ignore].
type Attribute struct {
	Text   string        `json:"text"`
	Tokens []lexer.Token `json:"-"` // payload between the brackets
	Pos    Pos           `json:"pos"`
}

// Name returns the attribute's leading identifier, e.g. "should_panic".
func (a Attribute) Name() string {
	for _, tok := range a.Tokens {
		if tok.Type == lexer.IDENTIFIER {
			return tok.Value
		}
		if tok.Type != lexer.NEWLINE {
			break
		}
	}
	return ""
}

// RawBlock is a brace-delimited body kept as written.
type RawBlock struct {
	Text string `json:"text"` // including the braces
	Pos  Pos    `json:"pos"`
}

// Inner returns the text between the outer braces.
func (b RawBlock) Inner() string {
	s := strings.TrimSpace(b.Text)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	return s
}
