package ast

// HookOrder selects how after hooks of nested groups are sequenced.
type HookOrder int

const (
	// AncestorOrder runs after hooks from the outermost group inwards,
	// the same order before hooks use.
	AncestorOrder HookOrder = iota
	// UnwindOrder runs the innermost group's after hooks first, like
	// deferred teardown.
	UnwindOrder
)

func (o HookOrder) String() string {
	if o == UnwindOrder {
		return "unwind"
	}
	return "ancestor"
}

// Scope is a Describe together with the chain of groups enclosing it.
type Scope struct {
	Parent   *Scope
	Describe *Describe
}

// Enter returns the scope of a group nested in s. Enter on a nil scope
// starts a new chain.
func (s *Scope) Enter(d *Describe) *Scope {
	return &Scope{Parent: s, Describe: d}
}

// chain lists the groups from the outermost one down to s.
func (s *Scope) chain() []*Describe {
	var out []*Describe
	for c := s; c != nil; c = c.Parent {
		out = append(out, c.Describe)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Path returns the names of the enclosing groups, skipping the root.
func (s *Scope) Path() []string {
	chain := s.chain()
	names := []string{}
	for _, d := range chain[1:] {
		names = append(names, d.Name)
	}
	return names
}

// Before returns every before hook that applies in s, outermost first.
func (s *Scope) Before() []RawBlock {
	var hooks []RawBlock
	for _, d := range s.chain() {
		hooks = append(hooks, d.Before...)
	}
	return hooks
}

// After returns every after hook that applies in s. Within a group the
// hooks keep source order; order decides how groups are sequenced.
func (s *Scope) After(order HookOrder) []RawBlock {
	chain := s.chain()
	if order == UnwindOrder {
		for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
			chain[i], chain[j] = chain[j], chain[i]
		}
	}
	var hooks []RawBlock
	for _, d := range chain {
		hooks = append(hooks, d.After...)
	}
	return hooks
}

// Case is one test with everything needed to run it.
type Case struct {
	Path   []string
	It     *It
	Before []RawBlock
	After  []RawBlock
}

// FullName joins the path and the test name with slashes, the way
// `go test -run` addresses subtests.
func (c Case) FullName() string {
	name := ""
	for _, p := range c.Path {
		name += p + "/"
	}
	return name + c.It.Name
}

// Cases flattens the tree into its test cases in source order.
func Cases(root *Root, order HookOrder) []Case {
	var cases []Case
	var visit func(s *Scope)
	visit = func(s *Scope) {
		for _, b := range s.Describe.Blocks {
			switch b := b.(type) {
			case *It:
				cases = append(cases, Case{
					Path:   s.Path(),
					It:     b,
					Before: s.Before(),
					After:  s.After(order),
				})
			case *Describe:
				visit(s.Enter(b))
			}
		}
	}
	visit((*Scope)(nil).Enter(root.Describe))
	return cases
}

// Walk calls fn for every block in depth-first source order, starting
// with the children of d. Returning false from fn skips a Describe's
// children.
func Walk(d *Describe, fn func(Block) bool) {
	for _, b := range d.Blocks {
		if !fn(b) {
			continue
		}
		if nested, ok := b.(*Describe); ok {
			Walk(nested, fn)
		}
	}
}
