// Package sat answers satisfiability questions about Boolean expressions with
// the gini SAT solver instead of enumerating their truth tables.
package sat

import (
	"errors"
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/gnoswap-labs/tt/bexpr"
)

// ErrUnknown is returned when the solver gives up without an answer.
var ErrUnknown = errors.New("sat: solver returned unknown")

// circuit is an and-inverter graph with one input literal per symbol.
type circuit struct {
	c      *logic.C
	inputs map[string]z.Lit
	names  []string
}

func newCircuit() *circuit {
	return &circuit{
		c:      logic.NewC(),
		inputs: make(map[string]z.Lit),
	}
}

// declare adds inputs for symbols in order, reusing inputs shared by name.
func (cc *circuit) declare(symbols []string) {
	for _, name := range symbols {
		if _, ok := cc.inputs[name]; ok {
			continue
		}
		cc.inputs[name] = cc.c.Lit()
		cc.names = append(cc.names, name)
	}
}

func (cc *circuit) build(n *bexpr.Node) (z.Lit, error) {
	switch n.Kind() {
	case bexpr.KindOperand:
		lit, ok := cc.inputs[n.Name()]
		if !ok {
			return z.LitNull, fmt.Errorf("sat: undeclared symbol %q", n.Name())
		}
		return lit, nil
	case bexpr.KindUnary:
		x, err := cc.build(n.Left())
		if err != nil {
			return z.LitNull, err
		}
		return x.Not(), nil
	case bexpr.KindBinary:
		a, err := cc.build(n.Left())
		if err != nil {
			return z.LitNull, err
		}
		b, err := cc.build(n.Right())
		if err != nil {
			return z.LitNull, err
		}
		return cc.gate(n.Op(), a, b)
	default:
		return z.LitNull, fmt.Errorf("sat: invalid node kind %s", n.Kind())
	}
}

func (cc *circuit) gate(op bexpr.Operator, a, b z.Lit) (z.Lit, error) {
	c := cc.c
	switch op {
	case bexpr.OpAnd:
		return c.And(a, b), nil
	case bexpr.OpNand:
		return c.And(a, b).Not(), nil
	case bexpr.OpOr:
		return c.Or(a, b), nil
	case bexpr.OpNor:
		return c.Or(a, b).Not(), nil
	case bexpr.OpXor:
		return cc.xor(a, b), nil
	case bexpr.OpXnor, bexpr.OpIff:
		return cc.xor(a, b).Not(), nil
	case bexpr.OpImplies:
		return c.Or(a.Not(), b), nil
	default:
		return z.LitNull, fmt.Errorf("sat: unsupported operator %s", op)
	}
}

func (cc *circuit) xor(a, b z.Lit) z.Lit {
	return cc.c.Or(cc.c.And(a, b.Not()), cc.c.And(a.Not(), b))
}

// solve looks for an assignment making f true.
func (cc *circuit) solve(f z.Lit) (map[string]bool, bool, error) {
	switch f {
	case cc.c.F:
		return nil, false, nil
	case cc.c.T:
		// any assignment works
		model := make(map[string]bool, len(cc.names))
		for _, name := range cc.names {
			model[name] = false
		}
		return model, true, nil
	}

	g := gini.New()
	cc.c.ToCnf(g)
	for _, name := range cc.names {
		// register every input, including ones simplified out of f
		lit := cc.inputs[name]
		g.Add(lit)
		g.Add(lit.Not())
		g.Add(z.LitNull)
	}
	g.Assume(f)
	switch g.Solve() {
	case 1:
		model := make(map[string]bool, len(cc.names))
		for _, name := range cc.names {
			model[name] = g.Value(cc.inputs[name])
		}
		return model, true, nil
	case -1:
		return nil, false, nil
	default:
		return nil, false, ErrUnknown
	}
}

func compile(e *bexpr.Expression) (*circuit, z.Lit, error) {
	cc := newCircuit()
	cc.declare(e.Symbols())
	f, err := cc.build(e.Root())
	if err != nil {
		return nil, z.LitNull, err
	}
	return cc, f, nil
}

// SatOne returns an assignment under which e is true, if one exists.
func SatOne(e *bexpr.Expression) (map[string]bool, bool, error) {
	cc, f, err := compile(e)
	if err != nil {
		return nil, false, err
	}
	return cc.solve(f)
}

// Satisfiable reports whether some assignment makes e true.
func Satisfiable(e *bexpr.Expression) (bool, error) {
	_, ok, err := SatOne(e)
	return ok, err
}

// Counterexample returns an assignment under which e is false, if one
// exists.
func Counterexample(e *bexpr.Expression) (map[string]bool, bool, error) {
	cc, f, err := compile(e)
	if err != nil {
		return nil, false, err
	}
	return cc.solve(f.Not())
}

// Tautology reports whether e is true under every assignment.
func Tautology(e *bexpr.Expression) (bool, error) {
	_, found, err := Counterexample(e)
	if err != nil {
		return false, err
	}
	return !found, nil
}

// Difference returns an assignment on which a and b disagree. Symbols are
// matched by name; a symbol present in only one expression is free.
func Difference(a, b *bexpr.Expression) (map[string]bool, bool, error) {
	cc := newCircuit()
	cc.declare(a.Symbols())
	cc.declare(b.Symbols())
	fa, err := cc.build(a.Root())
	if err != nil {
		return nil, false, err
	}
	fb, err := cc.build(b.Root())
	if err != nil {
		return nil, false, err
	}
	return cc.solve(cc.xor(fa, fb))
}

// Equivalent reports whether a and b agree under every assignment.
func Equivalent(a, b *bexpr.Expression) (bool, error) {
	_, differ, err := Difference(a, b)
	if err != nil {
		return false, err
	}
	return !differ, nil
}
