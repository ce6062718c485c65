// Package parser builds the speculate AST from a token stream.
//
// The grammar:
//
//	root            := describe_block*
//	describe_block  := 'before' block_body
//	                 | 'after'  block_body
//	                 | block
//	block           := attribute* ('it' | 'test') IDENT block_body
//	                 | ('describe' | 'context') STRING '{' root '}'
//	                 | declaration
//
// Keywords are contextual: they are only recognized where the grammar peeks
// for them, so bodies and declarations may use the same words freely.
// Parsing stops at the first error; no partial tree is returned.
package parser

import (
	"go/token"
	"strconv"

	"github.com/chazu/speculate/pkg/ast"
	"github.com/chazu/speculate/pkg/ident"
	"github.com/chazu/speculate/pkg/lexer"
)

// describeBlock is an entry of a group before it is filed into the
// group's hooks or blocks.
type describeBlock interface {
	describeBlockNode()
}

type regularBlock struct{ block ast.Block }
type beforeHook struct{ body ast.RawBlock }
type afterHook struct{ body ast.RawBlock }

func (regularBlock) describeBlockNode() {}
func (beforeHook) describeBlockNode()   {}
func (afterHook) describeBlockNode()    {}

type parser struct {
	filename string
}

// Parse tokenizes and parses one invocation. filename is only used in
// positions and may be empty.
func Parse(filename string, src []byte) (*ast.Root, error) {
	toks, err := lexer.NewNamed(filename, string(src)).Tokenize()
	if err != nil {
		return nil, err
	}
	return ParseTokens(filename, src, toks)
}

// ParseTokens parses an already tokenized invocation. toks must come from
// tokenizing src.
func ParseTokens(filename string, src []byte, toks []lexer.Token) (*ast.Root, error) {
	p := &parser{filename: filename}
	d, err := p.parseRoot(newCursor(string(src), toks))
	if err != nil {
		return nil, err
	}
	d.Pos = ast.Pos{Filename: filename, Line: 1, Col: 1}
	return &ast.Root{Describe: d}, nil
}

// parseRoot parses describe blocks until c is exhausted and files them
// into a group carrying the placeholder name.
func (p *parser) parseRoot(c *cursor) (*ast.Describe, error) {
	d := &ast.Describe{
		Name:   ast.RootName,
		Before: []ast.RawBlock{},
		After:  []ast.RawBlock{},
		Blocks: []ast.Block{},
	}

	for !c.atEnd() {
		db, err := p.parseDescribeBlock(c)
		if err != nil {
			return nil, err
		}
		switch db := db.(type) {
		case regularBlock:
			d.Blocks = append(d.Blocks, db.block)
		case beforeHook:
			d.Before = append(d.Before, db.body)
		case afterHook:
			d.After = append(d.After, db.body)
		}
	}

	return d, nil
}

func (p *parser) parseDescribeBlock(c *cursor) (describeBlock, error) {
	tok := c.peek()

	if tok.IsWord(kwBefore) {
		c.advance()
		body, err := p.parseBody(c, "before hook")
		if err != nil {
			return nil, err
		}
		return beforeHook{body}, nil
	}

	if tok.IsWord(kwAfter) {
		c.advance()
		body, err := p.parseBody(c, "after hook")
		if err != nil {
			return nil, err
		}
		return afterHook{body}, nil
	}

	block, err := p.parseBlock(c)
	if err != nil {
		return nil, err
	}
	return regularBlock{block}, nil
}

func (p *parser) parseBlock(c *cursor) (ast.Block, error) {
	tok := c.peek()

	switch {
	case isDescribe(tok):
		return p.parseDescribe(c)
	// An attribute can only precede a test.
	case isAttributeMarker(tok), isIt(tok):
		return p.parseIt(c)
	case isDeclaration(tok):
		return p.parseItem(c), nil
	}

	return nil, p.unexpected(tok, describeBlockAlternatives...)
}

func (p *parser) parseDescribe(c *cursor) (*ast.Describe, error) {
	kw := c.peek()
	if !isDescribe(kw) {
		return nil, p.unexpected(kw, kwDescribe, kwContext)
	}
	c.advance()

	lit := c.peek()
	if lit.Type != lexer.STRING {
		return nil, p.errorAt(MalformedLiteral, lit, []string{"string literal"}, "")
	}
	c.advance()
	name, err := strconv.Unquote(lit.Value)
	if err != nil {
		return nil, p.errorAt(MalformedLiteral, lit, nil, "invalid string literal "+lit.String()+": "+err.Error())
	}

	inner, _, _, ok := c.group(lexer.LBRACE)
	if !ok {
		return nil, p.unexpected(c.peek(), "{")
	}

	d, err := p.parseRoot(inner)
	if err != nil {
		return nil, err
	}
	d.Name = ident.Sanitize(name)
	d.Pos = ast.PosOf(p.filename, kw)
	return d, nil
}

func (p *parser) parseIt(c *cursor) (*ast.It, error) {
	start := c.peek()

	attrs := []ast.Attribute{}
	for isAttributeMarker(c.peek()) {
		hash := c.advance()
		inner, _, closeTok, ok := c.group(lexer.LBRACKET)
		if !ok {
			return nil, p.unexpected(c.peek(), "[")
		}
		attrs = append(attrs, ast.Attribute{
			Text:   c.text(hash, closeTok),
			Tokens: inner.toks,
			Pos:    ast.PosOf(p.filename, hash),
		})
	}

	kw := c.peek()
	if !isIt(kw) {
		return nil, p.unexpected(kw, "#", kwIt, kwTest)
	}
	c.advance()

	// Test names become identifiers, so Go keywords are out. The DSL
	// words are not Go keywords and stay usable.
	name := c.peek()
	if !name.IsIdentifier() || token.IsKeyword(name.Value) {
		return nil, p.errorAt(MalformedIdentifier, name, []string{"identifier"}, "")
	}
	c.advance()

	body, err := p.parseBody(c, "test "+name.Value)
	if err != nil {
		return nil, err
	}

	return &ast.It{
		Name:       name.Value,
		Attributes: attrs,
		Block:      body,
		Pos:        ast.PosOf(p.filename, start),
	}, nil
}

// parseBody consumes a brace-delimited body verbatim.
func (p *parser) parseBody(c *cursor, what string) (ast.RawBlock, error) {
	_, openTok, closeTok, ok := c.group(lexer.LBRACE)
	if !ok {
		tok := c.peek()
		return ast.RawBlock{}, p.errorAt(MalformedIdentifier, tok, nil,
			"expected `{` to open the body of "+what+", found "+tok.String())
	}
	return ast.RawBlock{
		Text: c.text(openTok, closeTok),
		Pos:  ast.PosOf(p.filename, openTok),
	}, nil
}

// parseItem consumes one declaration. The caller has checked that the next
// token starts one, so the run is never empty.
func (p *parser) parseItem(c *cursor) *ast.Item {
	toks := c.declaration()
	first, last := toks[0], toks[len(toks)-1]
	return &ast.Item{
		Text:   c.text(first, last),
		Tokens: toks,
		Pos:    ast.PosOf(p.filename, first),
	}
}
