package parser

import (
	"fmt"
	"strings"

	"github.com/chazu/speculate/pkg/ast"
	"github.com/chazu/speculate/pkg/lexer"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	// UnexpectedToken means the token matches no alternative at this point.
	UnexpectedToken ErrorKind = iota
	// MalformedLiteral means a group name is not a valid string literal.
	MalformedLiteral
	// MalformedIdentifier means a test name is not a bare identifier, or a
	// required block body is missing.
	MalformedIdentifier
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case MalformedLiteral:
		return "malformed literal"
	case MalformedIdentifier:
		return "malformed identifier"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the single diagnostic produced for a failed parse.
type Error struct {
	Kind     ErrorKind
	Pos      ast.Pos
	Expected []string // acceptable alternatives, already quoted
	Found    string   // the offending token as quoted in the message
	Msg      string   // overrides the generated message when set
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Message()
}

// Message returns the diagnostic without the position prefix.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	switch len(e.Expected) {
	case 0:
		return e.Kind.String() + " " + e.Found
	case 1:
		return fmt.Sprintf("expected %s, found %s", e.Expected[0], e.Found)
	}
	return fmt.Sprintf("expected one of %s, found %s", strings.Join(e.Expected, ", "), e.Found)
}

func quote(words ...string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = "`" + w + "`"
	}
	return out
}

func (p *parser) errorAt(kind ErrorKind, tok lexer.Token, expected []string, msg string) *Error {
	return &Error{
		Kind:     kind,
		Pos:      ast.PosOf(p.filename, tok),
		Expected: expected,
		Found:    tok.String(),
		Msg:      msg,
	}
}

func (p *parser) unexpected(tok lexer.Token, alternatives ...string) *Error {
	return p.errorAt(UnexpectedToken, tok, quote(alternatives...), "")
}
