// Package lexer provides tokenization for speculate source files.
package lexer

import "fmt"

// TokenType represents the type of a token.
type TokenType string

// Token types produced by the lexer.
const (
	// Basic tokens
	IDENTIFIER TokenType = "IDENTIFIER" // Names, Go keywords and DSL keywords alike (e.g., describe, func, x)
	NUMBER     TokenType = "NUMBER"     // Numeric literals (e.g., 42, 0x1F, 3.14, 1e9, 2i)
	STRING     TokenType = "STRING"     // Interpreted or raw string literals (e.g., "hello", `raw`)
	CHAR       TokenType = "CHAR"       // Rune literals (e.g., 'a', '\n')
	OPERATOR   TokenType = "OPERATOR"   // Operators and other punctuation (e.g., :=, +, ..., .)

	// Delimiters
	LBRACE   TokenType = "LBRACE"   // {
	RBRACE   TokenType = "RBRACE"   // }
	LPAREN   TokenType = "LPAREN"   // (
	RPAREN   TokenType = "RPAREN"   // )
	LBRACKET TokenType = "LBRACKET" // [
	RBRACKET TokenType = "RBRACKET" // ]

	// Punctuation
	SEMI  TokenType = "SEMI"  // ;
	COMMA TokenType = "COMMA" // ,
	HASH  TokenType = "HASH"  // # (attribute marker)

	// Whitespace and structure
	NEWLINE TokenType = "NEWLINE" // Line break

	// Special tokens
	EOF TokenType = "EOF" // End of input
)

// Token represents a single token from the lexer.
type Token struct {
	Type   TokenType `json:"type"`
	Value  string    `json:"value"`
	Line   int       `json:"line"`
	Column int       `json:"col"`
	Offset int       `json:"offset"` // byte offset of the first character
	End    int       `json:"end"`    // byte offset just past the last character
}

// NewToken creates a new token with the given properties.
func NewToken(typ TokenType, value string, line, col, offset int) Token {
	return Token{
		Type:   typ,
		Value:  value,
		Line:   line,
		Column: col,
		Offset: offset,
		End:    offset + len(value),
	}
}

// String renders the token the way diagnostics quote it.
func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "newline"
	}
	return fmt.Sprintf("`%s`", t.Value)
}

// IsIdentifier returns true if the token is an identifier.
func (t Token) IsIdentifier() bool {
	return t.Type == IDENTIFIER
}

// IsWord returns true if the token is the identifier w.
func (t Token) IsWord(w string) bool {
	return t.Type == IDENTIFIER && t.Value == w
}

// IsOpen returns true for an opening delimiter.
func (t Token) IsOpen() bool {
	switch t.Type {
	case LBRACE, LPAREN, LBRACKET:
		return true
	}
	return false
}

// IsClose returns true for a closing delimiter.
func (t Token) IsClose() bool {
	switch t.Type {
	case RBRACE, RPAREN, RBRACKET:
		return true
	}
	return false
}

// Closer returns the closing delimiter type matching an opening one.
func Closer(open TokenType) TokenType {
	switch open {
	case LBRACE:
		return RBRACE
	case LPAREN:
		return RPAREN
	case LBRACKET:
		return RBRACKET
	}
	return ""
}

// EndsStatement reports whether a newline directly after t terminates a
// statement under Go's automatic semicolon rule.
func (t Token) EndsStatement() bool {
	switch t.Type {
	case IDENTIFIER:
		switch t.Value {
		case "break", "continue", "fallthrough", "return":
			return true
		}
		return !isGoKeyword(t.Value)
	case NUMBER, STRING, CHAR, RPAREN, RBRACKET, RBRACE:
		return true
	case OPERATOR:
		return t.Value == "++" || t.Value == "--"
	}
	return false
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

func isGoKeyword(s string) bool {
	return goKeywords[s]
}
