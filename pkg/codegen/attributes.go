package codegen

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/chazu/speculate/pkg/ast"
	"github.com/chazu/speculate/pkg/lexer"
	"github.com/dave/jennifer/jen"
)

type directiveKind int

const (
	directiveSkip directiveKind = iota
	directiveShouldPanic
	directiveParallel
)

// directive is an attribute the generator knows how to lower.
type directive struct {
	kind    directiveKind
	message string // skip reason or expected panic text
}

// Attribute forms:
//
//	#[ignore]                          skip
//	#[ignore = "reason"]               skip with reason
//	#[skip("reason")]                  skip with reason
//	#[should_panic]                    body must panic
//	#[should_panic(expected = "text")] panic value must contain text
//	#[parallel]                        t.Parallel()
func parseDirective(a ast.Attribute) (directive, error) {
	toks := significant(a.Tokens)
	if len(toks) == 0 || toks[0].Type != lexer.IDENTIFIER {
		return directive{}, &Error{Pos: a.Pos, Msg: "malformed attribute " + a.Text}
	}

	var d directive
	switch toks[0].Value {
	case "ignore", "skip":
		d.kind = directiveSkip
	case "should_panic":
		d.kind = directiveShouldPanic
	case "parallel":
		d.kind = directiveParallel
	default:
		return directive{}, &Error{Pos: a.Pos, Msg: "unsupported attribute " + a.Text}
	}

	msg, err := attributeArgument(toks[1:], d.kind == directiveShouldPanic)
	if err != nil {
		return directive{}, &Error{Pos: a.Pos, Msg: err.Error() + " in attribute " + a.Text}
	}
	if msg != "" && d.kind == directiveParallel {
		return directive{}, &Error{Pos: a.Pos, Msg: "parallel takes no argument in attribute " + a.Text}
	}
	d.message = msg
	return d, nil
}

// attributeArgument reads the optional `= "s"`, `("s")` or
// `(expected = "s")` tail of an attribute.
func attributeArgument(toks []lexer.Token, named bool) (string, error) {
	switch {
	case len(toks) == 0:
		return "", nil
	case len(toks) == 2 && toks[0].Value == "=" && toks[1].Type == lexer.STRING:
		return unquote(toks[1])
	case len(toks) == 3 && toks[0].Type == lexer.LPAREN && toks[1].Type == lexer.STRING && toks[2].Type == lexer.RPAREN:
		return unquote(toks[1])
	case named && len(toks) == 5 && toks[0].Type == lexer.LPAREN && toks[1].IsWord("expected") &&
		toks[2].Value == "=" && toks[3].Type == lexer.STRING && toks[4].Type == lexer.RPAREN:
		return unquote(toks[3])
	}
	return "", errUnexpectedArgument
}

var errUnexpectedArgument = errors.New("unexpected argument")

func unquote(tok lexer.Token) (string, error) {
	s, err := strconv.Unquote(tok.Value)
	if err != nil {
		return "", fmt.Errorf("invalid string %s", tok.Value)
	}
	return s, nil
}

func significant(toks []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Type != lexer.NEWLINE {
			out = append(out, tok)
		}
	}
	return out
}

// prologue returns the statements a directive places before the body.
func (d directive) prologue() jen.Code {
	switch d.kind {
	case directiveSkip:
		if d.message == "" {
			return jen.Id("t").Dot("Skip").Call()
		}
		return jen.Id("t").Dot("Skip").Call(jen.Lit(d.message))
	case directiveParallel:
		return jen.Id("t").Dot("Parallel").Call()
	}

	check := []jen.Code{
		jen.Id("r").Op(":=").Recover(),
		jen.If(jen.Id("r").Op("==").Nil()).Block(
			jen.Id("t").Dot("Error").Call(jen.Lit("expected panic")),
			jen.Return(),
		),
	}
	if d.message != "" {
		check = append(check,
			jen.If(jen.Id("msg").Op(":=").Qual("fmt", "Sprint").Call(jen.Id("r")),
				jen.Op("!").Qual("strings", "Contains").Call(jen.Id("msg"), jen.Lit(d.message))).Block(
				jen.Id("t").Dot("Errorf").Call(jen.Lit("panic %q does not contain %q"), jen.Id("msg"), jen.Lit(d.message)),
			),
		)
	}
	return jen.Defer().Func().Params().Block(check...).Call()
}
