// Package codegen lowers a speculate AST into a Go test file.
//
// The root group becomes one top-level test function, every nested group a
// t.Run scope and every test a t.Run whose body is the applicable before
// hooks, the test body and the applicable after hooks, spliced in that
// order. Declarations at the root are emitted at package level unchanged;
// nested ones are emitted at the top of their group's closure so that the
// group and its descendants see them.
package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chazu/speculate/pkg/ast"
	"github.com/chazu/speculate/pkg/ident"
	"github.com/chazu/speculate/pkg/lexer"
	"github.com/dave/jennifer/jen"
)

// Options configures code generation.
type Options struct {
	Package    string        // package clause of the generated file
	TestName   string        // top-level test function; derived from the root name when empty
	Source     string        // input file named in the header comment
	AfterOrder ast.HookOrder // how after hooks of nested groups are sequenced
}

// Result contains the generated code and any warnings.
type Result struct {
	Code     string
	Warnings []string
	Cases    int
}

// Error is a construct that cannot be lowered.
type Error struct {
	Pos ast.Pos
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// Generate produces Go test source for a parsed invocation.
func Generate(root *ast.Root, opts Options) (*Result, error) {
	if !usableName(opts.Package) {
		return nil, &Error{Msg: fmt.Sprintf("invalid package name %q", opts.Package)}
	}
	name := opts.TestName
	if name == "" {
		name = "Test" + exported(root.Describe.Name)
	}
	if !usableName(name) {
		return nil, &Error{Msg: fmt.Sprintf("invalid test name %q", name)}
	}

	g := &generator{
		opts:     opts,
		warnings: []string{},
	}
	return g.generate(root, name)
}

// usableName reports whether s can name a package or function.
func usableName(s string) bool {
	return ident.IsValid(s) && !token.IsKeyword(s)
}

type generator struct {
	opts     Options
	warnings []string
}

func (g *generator) warnf(format string, args ...any) {
	g.warnings = append(g.warnings, fmt.Sprintf(format, args...))
}

func (g *generator) generate(root *ast.Root, testName string) (*Result, error) {
	f := jen.NewFile(g.opts.Package)
	if g.opts.Source != "" {
		f.HeaderComment("Code generated by speculate from " + g.opts.Source + ". DO NOT EDIT.")
	} else {
		f.HeaderComment("Code generated by speculate. DO NOT EDIT.")
	}

	// Imports have to precede every other declaration.
	var imports, decls []*ast.Item
	for _, b := range root.Describe.Blocks {
		if item, ok := b.(*ast.Item); ok {
			if item.Keyword() == "import" {
				imports = append(imports, item)
			} else {
				decls = append(decls, item)
			}
		}
	}
	for _, item := range imports {
		f.Id(item.Text)
	}
	if len(imports) > 0 {
		f.Line()
	}
	for _, item := range decls {
		f.Id(item.Text)
		f.Line()
	}

	scope := (*ast.Scope)(nil).Enter(root.Describe)
	body, err := g.scopeBody(scope)
	if err != nil {
		return nil, err
	}
	f.Func().Id(testName).Params(testingParam()).Block(body...)

	cases := ast.Cases(root, g.opts.AfterOrder)
	g.checkDuplicates(cases)
	g.checkEmptyGroups(root)

	buf := &bytes.Buffer{}
	if err := f.Render(buf); err != nil {
		return nil, fmt.Errorf("rendering generated code: %w", err)
	}

	return &Result{
		Code:     buf.String(),
		Warnings: g.warnings,
		Cases:    len(cases),
	}, nil
}

func testingParam() jen.Code {
	return jen.Id("t").Op("*").Qual("testing", "T")
}

// subtest renders t.Run(name, func(t *testing.T) { body }).
func subtest(name string, body []jen.Code) jen.Code {
	return jen.Id("t").Dot("Run").Call(
		jen.Lit(name),
		jen.Func().Params(testingParam()).Block(body...),
	)
}

// scopeBody lowers the blocks of one group. Nested declarations go first
// so they are in scope for every test and subgroup regardless of where
// they were written.
func (g *generator) scopeBody(s *ast.Scope) ([]jen.Code, error) {
	nested := s.Parent != nil
	var decls, runs []jen.Code

	for _, b := range s.Describe.Blocks {
		switch b := b.(type) {
		case *ast.Item:
			if !nested {
				continue
			}
			code, err := g.nestedItem(b)
			if err != nil {
				return nil, err
			}
			decls = append(decls, code...)
		case *ast.It:
			code, err := g.it(s, b)
			if err != nil {
				return nil, err
			}
			runs = append(runs, code)
		case *ast.Describe:
			body, err := g.scopeBody(s.Enter(b))
			if err != nil {
				return nil, err
			}
			runs = append(runs, subtest(b.Name, body))
		}
	}

	return append(decls, runs...), nil
}

func (g *generator) it(s *ast.Scope, it *ast.It) (jen.Code, error) {
	var body []jen.Code

	for _, a := range it.Attributes {
		d, err := parseDirective(a)
		if err != nil {
			return nil, err
		}
		body = append(body, d.prologue())
	}

	raw := []ast.RawBlock{}
	raw = append(raw, s.Before()...)
	raw = append(raw, it.Block)
	raw = append(raw, s.After(g.opts.AfterOrder)...)
	for _, b := range raw {
		if inner := strings.TrimSpace(b.Inner()); inner != "" {
			body = append(body, jen.Id(inner))
		}
	}

	return subtest(it.Name, body), nil
}

// nestedItem re-emits a declaration inside a closure. Go has no nested
// function declarations, so `func name(...)` becomes `name := func(...)`.
func (g *generator) nestedItem(item *ast.Item) ([]jen.Code, error) {
	switch item.Keyword() {
	case "const", "type":
		return []jen.Code{jen.Id(item.Text)}, nil
	case "var":
		// Locals nobody reads must still compile.
		code := []jen.Code{jen.Id(item.Text)}
		for _, name := range varNames(item.Tokens) {
			code = append(code, jen.Id("_").Op("=").Id(name))
		}
		return code, nil
	case "import":
		return nil, &Error{Pos: item.Pos, Msg: "imports are only allowed at the top level"}
	}

	toks := significant(item.Tokens)
	if len(toks) < 2 {
		return nil, &Error{Pos: item.Pos, Msg: "malformed function declaration"}
	}
	name := toks[1]
	switch {
	case name.Type == lexer.LPAREN:
		return nil, &Error{Pos: item.Pos, Msg: "methods can only be declared at the top level"}
	case name.Type != lexer.IDENTIFIER:
		return nil, &Error{Pos: item.Pos, Msg: "malformed function declaration"}
	case len(toks) > 2 && toks[2].Type == lexer.LBRACKET:
		return nil, &Error{Pos: item.Pos, Msg: "generic function " + name.Value + " can only be declared at the top level"}
	}

	base := item.Tokens[0].Offset
	signature := item.Text[name.End-base:]
	g.warnf("%s: nested function %s lowered to a closure", item.Pos, name.Value)
	return []jen.Code{
		jen.Id(name.Value).Op(":=").Func().Id(signature),
		jen.Id("_").Op("=").Id(name.Value),
	}, nil
}

// checkDuplicates warns about tests whose full names collide after
// sanitizing; go test would tell them apart only by a #01 suffix.
func (g *generator) checkDuplicates(cases []ast.Case) {
	seen := map[string]ast.Pos{}
	for _, c := range cases {
		full := c.FullName()
		if prev, ok := seen[full]; ok {
			g.warnf("%s: test %s has the same name as the one at %s", c.It.Pos, full, prev)
			continue
		}
		seen[full] = c.It.Pos
	}
}

// varNames lists the names a var declaration introduces, in order and
// without the blank identifier. Both `var a, b = 1, 2` and the grouped
// `var ( ... )` form are understood.
func varNames(toks []lexer.Token) []string {
	if len(toks) < 2 {
		return nil
	}
	rest := toks[1:]
	if rest[0].Type != lexer.LPAREN {
		return identList(rest)
	}

	var names []string
	depth := 0
	start := true
	for i := 1; i < len(rest); i++ {
		tok := rest[i]
		switch {
		case tok.IsOpen():
			depth++
		case tok.IsClose():
			depth--
		case depth == 0 && (tok.Type == lexer.NEWLINE || tok.Type == lexer.SEMI):
			start = true
			continue
		case depth == 0 && start && tok.Type == lexer.IDENTIFIER:
			names = append(names, identList(rest[i:])...)
		}
		start = false
	}
	return names
}

// identList reads `a, b, c` from the front of toks.
func identList(toks []lexer.Token) []string {
	var names []string
	i := 0
	for i < len(toks) && toks[i].Type == lexer.IDENTIFIER {
		if toks[i].Value != "_" {
			names = append(names, toks[i].Value)
		}
		i++
		if i >= len(toks) || toks[i].Type != lexer.COMMA {
			break
		}
		i++
		for i < len(toks) && toks[i].Type == lexer.NEWLINE {
			i++
		}
	}
	return names
}

// checkEmptyGroups warns about nested groups with nothing in them.
func (g *generator) checkEmptyGroups(root *ast.Root) {
	ast.Walk(root.Describe, func(b ast.Block) bool {
		if d, ok := b.(*ast.Describe); ok && d.IsEmpty() {
			g.warnf("%s: group %s is empty", d.Pos, d.Name)
		}
		return true
	})
}

func exported(name string) string {
	name = strings.TrimLeft(name, "_")
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
