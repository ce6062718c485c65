// Package lexer provides tokenization for speculate source files.
//
// The lexical rules are Go's: a .spec file is Go code with a handful of
// extra grammar on top, so test bodies, hooks and passthrough declarations
// tokenize exactly as they would inside a Go file. The lexer knows nothing
// about the DSL keywords; describe, it and friends come out as plain
// IDENTIFIER tokens and are recognized by the parser from context.
//
// Token Types:
//
//	IDENTIFIER  - Names and keywords (e.g., describe, func, counter)
//	NUMBER      - Numeric literals (e.g., 42, 0x1F, 1_000, 3.14)
//	STRING      - "interpreted" or `raw` string literals
//	CHAR        - Rune literals (e.g., 'x')
//	OPERATOR    - Operators and punctuation (e.g., :=, ==, ..., .)
//	LBRACE etc. - Delimiters { } ( ) [ ]
//	HASH        - Attribute marker #
//	NEWLINE     - Line break (significant for declaration boundaries)
//
// Comments are dropped. Every successful tokenization is delimiter
// balanced; a stray or mismatched delimiter is a lexing error.
package lexer

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"
)

// Error is a lexing failure at a source position.
type Error struct {
	Filename string
	Line     int
	Column   int
	Message  string
}

func (e *Error) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column+1, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column+1, e.Message)
}

// Lexer tokenizes speculate source code.
type Lexer struct {
	filename string  // Used in error messages only
	input    string  // The source code being tokenized
	pos      int     // Current position in input
	line     int     // Current line number (1-indexed)
	col      int     // Current column number (0-indexed, bytes)
	tokens   []Token
	open     []Token // Unclosed delimiters
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	return NewNamed("", input)
}

// NewNamed creates a Lexer whose errors mention filename.
func NewNamed(filename, input string) *Lexer {
	return &Lexer{
		filename: filename,
		input:    input,
		pos:      0,
		line:     1,
		col:      0,
		tokens:   make([]Token, 0),
	}
}

// NewFromReader creates a new Lexer from an io.Reader. filename is only
// used in error messages and may be empty.
func NewFromReader(filename string, r io.Reader) (*Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return NewNamed(filename, string(data)), nil
}

// Tokenize processes the entire input and returns all tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	if n := len(l.open); n > 0 {
		tok := l.open[n-1]
		return nil, l.errorAt(tok.Line, tok.Column, "unclosed %s", tok)
	}
	return l.tokens, nil
}

// TokenizeJSON processes the input and returns tokens as a JSON array.
func (l *Lexer) TokenizeJSON() (string, error) {
	tokens, err := l.Tokenize()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tokens: %w", err)
	}
	return string(data), nil
}

// Helper methods for character access and movement

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) advance() byte {
	ch := l.input[l.pos]
	l.pos++
	l.col++
	if ch == '\n' {
		l.line++
		l.col = 0
	}
	return ch
}

func (l *Lexer) advanceRune() {
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	l.col += size
}

func (l *Lexer) errorAt(line, col int, format string, args ...any) *Error {
	return &Error{
		Filename: l.filename,
		Line:     line,
		Column:   col,
		Message:  fmt.Sprintf(format, args...),
	}
}

// emit appends a token spanning input[start:l.pos].
func (l *Lexer) emit(typ TokenType, start, line, col int) Token {
	tok := NewToken(typ, l.input[start:l.pos], line, col, start)
	l.tokens = append(l.tokens, tok)
	return tok
}

var delimiters = map[byte]TokenType{
	'{': LBRACE, '}': RBRACE,
	'(': LPAREN, ')': RPAREN,
	'[': LBRACKET, ']': RBRACKET,
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// scanToken scans a single token from the current position.
func (l *Lexer) scanToken() error {
	start, line, col := l.pos, l.line, l.col
	char := l.peek()
	next := l.peekNext()

	switch char {
	// Whitespace - skip but track column
	case ' ', '\t', '\r':
		l.advance()
		return nil

	case '\n':
		l.advance()
		l.tokens = append(l.tokens, NewToken(NEWLINE, "\n", line, col, start))
		return nil

	case '/':
		if next == '/' {
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
			return nil
		}
		if next == '*' {
			return l.scanBlockComment()
		}
		return l.scanOperator()

	case '#':
		l.advance()
		l.emit(HASH, start, line, col)
		return nil

	case ';':
		l.advance()
		l.emit(SEMI, start, line, col)
		return nil

	case ',':
		l.advance()
		l.emit(COMMA, start, line, col)
		return nil

	case '{', '(', '[':
		l.advance()
		typ := delimiters[char]
		l.open = append(l.open, l.emit(typ, start, line, col))
		return nil

	case '}', ')', ']':
		return l.scanClose()

	case '"':
		return l.scanString()

	case '`':
		return l.scanRawString()

	case '\'':
		return l.scanChar()

	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return l.scanNumber()

	case '.':
		if isDigit(next) {
			return l.scanNumber()
		}
		return l.scanOperator()
	}

	if char >= utf8.RuneSelf || isLetter(rune(char)) {
		r := l.peekRune()
		if isLetter(r) {
			return l.scanIdentifier()
		}
		return l.errorAt(line, col, "unexpected character %q", r)
	}

	return l.scanOperator()
}

func (l *Lexer) scanIdentifier() error {
	start, line, col := l.pos, l.line, l.col
	for !l.isAtEnd() {
		r := l.peekRune()
		if !isLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.advanceRune()
	}
	l.emit(IDENTIFIER, start, line, col)
	return nil
}

// scanNumber accepts the union of Go's numeric literal forms without
// validating them; the Go compiler does that for emitted code.
func (l *Lexer) scanNumber() error {
	start, line, col := l.pos, l.line, l.col
	for !l.isAtEnd() {
		c := l.peek()
		switch {
		case isDigit(c), c == '_', c == '.', isLetter(rune(c)) && c < utf8.RuneSelf:
			l.advance()
		case (c == '+' || c == '-') && l.pos > start && isExponent(l.input[l.pos-1], l.input[start:l.pos]):
			l.advance()
		default:
			l.emit(NUMBER, start, line, col)
			return nil
		}
	}
	l.emit(NUMBER, start, line, col)
	return nil
}

func isExponent(prev byte, lit string) bool {
	hex := len(lit) > 1 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X')
	if hex {
		return prev == 'p' || prev == 'P'
	}
	return prev == 'e' || prev == 'E'
}

func (l *Lexer) scanString() error {
	start, line, col := l.pos, l.line, l.col
	l.advance() // opening quote
	for {
		if l.isAtEnd() || l.peek() == '\n' {
			return l.errorAt(line, col, "unterminated string literal")
		}
		c := l.advance()
		if c == '\\' {
			if l.isAtEnd() {
				return l.errorAt(line, col, "unterminated string literal")
			}
			l.advance()
			continue
		}
		if c == '"' {
			break
		}
	}
	l.emit(STRING, start, line, col)
	return nil
}

func (l *Lexer) scanRawString() error {
	start, line, col := l.pos, l.line, l.col
	l.advance() // opening backquote
	for {
		if l.isAtEnd() {
			return l.errorAt(line, col, "unterminated raw string literal")
		}
		if l.advance() == '`' {
			break
		}
	}
	l.emit(STRING, start, line, col)
	return nil
}

func (l *Lexer) scanChar() error {
	start, line, col := l.pos, l.line, l.col
	l.advance() // opening quote
	for {
		if l.isAtEnd() || l.peek() == '\n' {
			return l.errorAt(line, col, "unterminated rune literal")
		}
		c := l.advance()
		if c == '\\' {
			if l.isAtEnd() {
				return l.errorAt(line, col, "unterminated rune literal")
			}
			l.advance()
			continue
		}
		if c == '\'' {
			break
		}
	}
	l.emit(CHAR, start, line, col)
	return nil
}

func (l *Lexer) scanBlockComment() error {
	line, col := l.line, l.col
	l.advance()
	l.advance()
	sawNewline := false
	nlLine, nlCol, nlPos := 0, 0, 0
	for {
		if l.isAtEnd() {
			return l.errorAt(line, col, "unterminated block comment")
		}
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			break
		}
		if l.peek() == '\n' && !sawNewline {
			sawNewline = true
			nlLine, nlCol, nlPos = l.line, l.col, l.pos
		}
		l.advance()
	}
	// A comment spanning lines acts like a newline.
	if sawNewline {
		l.tokens = append(l.tokens, NewToken(NEWLINE, "\n", nlLine, nlCol, nlPos))
	}
	return nil
}

func (l *Lexer) scanClose() error {
	start, line, col := l.pos, l.line, l.col
	char := l.advance()
	typ := delimiters[char]

	n := len(l.open)
	if n == 0 {
		return l.errorAt(line, col, "unexpected `%c` with no matching opening delimiter", char)
	}
	opener := l.open[n-1]
	if Closer(opener.Type) != typ {
		return l.errorAt(line, col, "mismatched `%c`, %s opened at %d:%d", char, opener, opener.Line, opener.Column+1)
	}
	l.open = l.open[:n-1]
	l.emit(typ, start, line, col)
	return nil
}

// Go's operators, longest first so the first prefix match wins.
var operators = []string{
	"<<=", ">>=", "&^=", "...",
	"&&", "||", "<-", "++", "--", "==", "!=", "<=", ">=", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "&^",
	"+", "-", "*", "/", "%", "&", "|", "^", "<", ">", "=", "!",
	":", ".", "~",
}

func (l *Lexer) scanOperator() error {
	start, line, col := l.pos, l.line, l.col
	rest := l.input[l.pos:]
	for _, op := range operators {
		if len(rest) >= len(op) && rest[:len(op)] == op {
			for range len(op) {
				l.advance()
			}
			l.emit(OPERATOR, start, line, col)
			return nil
		}
	}
	return l.errorAt(line, col, "unexpected character %q", l.peekRune())
}
