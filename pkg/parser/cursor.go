package parser

import (
	"github.com/chazu/speculate/pkg/lexer"
)

// cursor walks a delimiter-balanced token run. Newlines are skipped at
// every decision point; only the declaration scanner looks at them.
type cursor struct {
	src  string
	toks []lexer.Token
	pos  int
	end  lexer.Token // reported once the run is exhausted: the closing delimiter or EOF
}

func newCursor(src string, toks []lexer.Token) *cursor {
	return &cursor{src: src, toks: toks, end: eofToken(src)}
}

// eofToken marks the position just past the last character of src.
func eofToken(src string) lexer.Token {
	line, col := 1, 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return lexer.Token{Type: lexer.EOF, Line: line, Column: col, Offset: len(src), End: len(src)}
}

func (c *cursor) skipNewlines() {
	for c.pos < len(c.toks) && c.toks[c.pos].Type == lexer.NEWLINE {
		c.pos++
	}
}

func (c *cursor) atEnd() bool {
	c.skipNewlines()
	return c.pos >= len(c.toks)
}

func (c *cursor) peek() lexer.Token {
	return c.peekAhead(0)
}

// peekAhead returns the n-th significant token from the current position.
func (c *cursor) peekAhead(n int) lexer.Token {
	for i := c.pos; i < len(c.toks); i++ {
		if c.toks[i].Type == lexer.NEWLINE {
			continue
		}
		if n == 0 {
			return c.toks[i]
		}
		n--
	}
	return c.end
}

func (c *cursor) advance() lexer.Token {
	if c.atEnd() {
		return c.end
	}
	tok := c.toks[c.pos]
	c.pos++
	return tok
}

// group consumes a balanced group opened by a token of type open and
// returns a cursor over its contents together with both delimiters.
// Nothing is consumed when the next token does not open such a group.
func (c *cursor) group(open lexer.TokenType) (inner *cursor, openTok, closeTok lexer.Token, ok bool) {
	if c.peek().Type != open {
		return nil, lexer.Token{}, lexer.Token{}, false
	}
	c.skipNewlines()
	start := c.pos
	depth := 0
	for i := start; i < len(c.toks); i++ {
		tok := c.toks[i]
		switch {
		case tok.IsOpen():
			depth++
		case tok.IsClose():
			depth--
		}
		if depth == 0 {
			c.pos = i + 1
			inner = &cursor{src: c.src, toks: c.toks[start+1 : i], end: tok}
			return inner, c.toks[start], tok, true
		}
	}
	// The lexer never hands out unbalanced runs.
	return nil, lexer.Token{}, lexer.Token{}, false
}

// declaration consumes one top-level declaration without interpreting it:
// everything up to a semicolon, or a newline that Go's semicolon rule
// turns into one, outside any delimiters.
func (c *cursor) declaration() []lexer.Token {
	c.skipNewlines()
	start := c.pos
	depth := 0
scan:
	for c.pos < len(c.toks) {
		tok := c.toks[c.pos]
		switch {
		case tok.IsOpen():
			depth++
		case tok.IsClose():
			depth--
		case depth == 0 && tok.Type == lexer.SEMI:
			c.pos++
			break scan
		case depth == 0 && tok.Type == lexer.NEWLINE && c.pos > start && c.toks[c.pos-1].EndsStatement():
			break scan
		}
		c.pos++
	}
	toks := c.toks[start:c.pos]
	for len(toks) > 0 && toks[len(toks)-1].Type == lexer.NEWLINE {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// text returns the source covered by the tokens from first to last.
func (c *cursor) text(first, last lexer.Token) string {
	return c.src[first.Offset:last.End]
}
