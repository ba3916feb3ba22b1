package bexpr

import (
	"fmt"
	"strings"
)

// A pass rewrites a tree into a new, independently allocated tree. Passes
// never return any node reachable from their input.
type pass struct {
	name string
	fn   func(*Node) *Node
}

var passes = []pass{
	{"de-morgans", deMorgans},
	{"coalesce-negations", coalesceNegations},
	{"distribute-ands", distributeAnds},
	{"distribute-ors", distributeOrs},
	{"to-primitives", toPrimitives},
}

// Passes returns the names accepted by Transform, in a stable order.
func Passes() []string {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.name
	}
	return names
}

func lookupPass(name string) (pass, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	key = strings.TrimPrefix(key, "apply-")
	for _, p := range passes {
		if p.name == key {
			return p, nil
		}
	}
	return pass{}, &InvalidArgumentError{
		Arg: "transformation",
		Msg: fmt.Sprintf("unknown transformation %q (want one of %s)", name, strings.Join(Passes(), ", ")),
	}
}

// CanonicalPass resolves an accepted spelling of a pass name to the form
// listed by Passes.
func CanonicalPass(name string) (string, error) {
	p, err := lookupPass(name)
	if err != nil {
		return "", err
	}
	return p.name, nil
}

func run(op string, v any, fn func(*Node) *Node) (out *Expression, err error) {
	e, err := Ensure(v)
	if err != nil {
		return nil, err
	}
	defer guard(op, &err)
	return e.derive(fn(e.root)), nil
}

// Transform applies the pass called name to v, which may be an *Expression or
// an equation string. Names are case-insensitive; underscores and an
// "apply-" prefix are accepted, so "apply_de_morgans" works.
func Transform(name string, v any) (*Expression, error) {
	p, err := lookupPass(name)
	if err != nil {
		return nil, err
	}
	return run(p.name, v, p.fn)
}

// Pipeline applies passes in order. With no names it returns the input
// expression unchanged.
func Pipeline(v any, names ...string) (*Expression, error) {
	e, err := Ensure(v)
	if err != nil {
		return nil, err
	}
	steps := make([]pass, 0, len(names))
	for _, name := range names {
		p, err := lookupPass(name)
		if err != nil {
			return nil, err
		}
		steps = append(steps, p)
	}
	for _, p := range steps {
		if e, err = run(p.name, e, p.fn); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// ApplyDeMorgans pushes negations across AND and OR:
// "not (A or B)" becomes "not A and not B".
func ApplyDeMorgans(v any) (*Expression, error) {
	return run("de-morgans", v, deMorgans)
}

// CoalesceNegations reduces every run of NOTs to its parity:
// "~~A or ~~~B" becomes "A or ~B".
func CoalesceNegations(v any) (*Expression, error) {
	return run("coalesce-negations", v, coalesceNegations)
}

// DistributeAnds distributes AND over OR clauses:
// "A and (B or C)" becomes "(A and B) or (A and C)".
func DistributeAnds(v any) (*Expression, error) {
	return run("distribute-ands", v, distributeAnds)
}

// DistributeOrs distributes OR over AND clauses:
// "A or (B and C)" becomes "(A or B) and (A or C)".
func DistributeOrs(v any) (*Expression, error) {
	return run("distribute-ors", v, distributeOrs)
}

// ToPrimitives rewrites every operator into AND, OR and NOT, keeping the
// notation (plain or symbolic) of the operator it replaces.
func ToPrimitives(v any) (*Expression, error) {
	return run("to-primitives", v, toPrimitives)
}

func deMorgans(n *Node) *Node {
	switch n.kind {
	case KindUnary:
		return negate(n.left, n.spelling)
	case KindBinary:
		return NewBinary(n.op, n.spelling, deMorgans(n.left), deMorgans(n.right))
	default:
		return n.Clone()
	}
}

// negate returns deMorgans(NOT n) without building the intermediate node.
func negate(n *Node, spelling string) *Node {
	if n.IsOp(OpAnd) || n.IsOp(OpOr) {
		dual := OpOr
		if n.op == OpOr {
			dual = OpAnd
		}
		return NewBinary(dual, dualSpelling(n.op, n.spelling), negate(n.left, spelling), negate(n.right, spelling))
	}
	return NewNot(spelling, deMorgans(n))
}

func coalesceNegations(n *Node) *Node {
	switch n.kind {
	case KindUnary:
		count, base := 0, n
		for base.kind == KindUnary {
			count++
			base = base.left
		}
		inner := coalesceNegations(base)
		if count%2 == 0 {
			return inner
		}
		return NewNot(n.spelling, inner)
	case KindBinary:
		return NewBinary(n.op, n.spelling, coalesceNegations(n.left), coalesceNegations(n.right))
	default:
		return n.Clone()
	}
}

func toPrimitives(n *Node) *Node {
	switch n.kind {
	case KindOperand:
		return n.Clone()
	case KindUnary:
		return NewNot(n.spelling, toPrimitives(n.left))
	}

	a, b := toPrimitives(n.left), toPrimitives(n.right)
	style := n.Style()
	and := func(l, r *Node) *Node { return NewBinary(OpAnd, OpAnd.Spelling(style), l, r) }
	or := func(l, r *Node) *Node { return NewBinary(OpOr, OpOr.Spelling(style), l, r) }
	not := func(x *Node) *Node { return NewNot(OpNot.Spelling(style), x) }

	switch n.op {
	case OpAnd, OpOr:
		return NewBinary(n.op, n.spelling, a, b)
	case OpXor:
		return or(and(a, not(b)), and(not(a.Clone()), b.Clone()))
	case OpXnor, OpIff:
		return or(and(a, b), and(not(a.Clone()), not(b.Clone())))
	case OpNand:
		return not(and(a, b))
	case OpNor:
		return not(or(a, b))
	case OpImplies:
		return or(not(a), b)
	default:
		panic(fmt.Errorf("no primitive form for operator %s", n.op))
	}
}
