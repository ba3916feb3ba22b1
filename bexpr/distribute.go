package bexpr

func distributeAnds(n *Node) *Node { return distribute(n, OpAnd, OpOr) }

func distributeOrs(n *Node) *Node { return distribute(n, OpOr, OpAnd) }

// distribute rewrites every outer(x, inner(y, z, ...)) into
// inner(outer(x, y), outer(x, z), ...), and symmetrically when the inner
// chain is on the left. Children are rewritten first so the result is a
// fixpoint: running the pass again changes nothing.
func distribute(n *Node, outer, inner Operator) *Node {
	switch n.kind {
	case KindOperand:
		return n.Clone()
	case KindUnary:
		return NewNot(n.spelling, distribute(n.left, outer, inner))
	}

	l := distribute(n.left, outer, inner)
	r := distribute(n.right, outer, inner)
	if n.op != outer || (!l.IsOp(inner) && !r.IsOp(inner)) {
		return NewBinary(n.op, n.spelling, l, r)
	}

	d := distributor{outer: outer, inner: inner, outerSpelling: n.spelling}
	if l.IsOp(inner) {
		d.innerSpelling = l.spelling
	} else {
		d.innerSpelling = r.spelling
	}
	return d.join(d.clauses(l, r))
}

type distributor struct {
	outer, inner                 Operator
	outerSpelling, innerSpelling string
}

// clauses returns the inner-operator clauses of outer(l, r) once outer has
// been pushed below every inner chain. l and r are consumed; every clause is
// built from fresh copies.
func (d distributor) clauses(l, r *Node) []*Node {
	if l.IsOp(d.inner) {
		var out []*Node
		for _, c := range chain(l, d.inner) {
			out = append(out, d.clauses(c.Clone(), r.Clone())...)
		}
		return out
	}
	if r.IsOp(d.inner) {
		var out []*Node
		for _, c := range chain(r, d.inner) {
			out = append(out, d.clauses(l.Clone(), c.Clone())...)
		}
		return out
	}
	return []*Node{NewBinary(d.outer, d.outerSpelling, l, r)}
}

// join folds clauses into a chain where each operator takes the previous
// result as its left child, the same shape the parser builds.
func (d distributor) join(clauses []*Node) *Node {
	acc := clauses[0]
	for _, c := range clauses[1:] {
		acc = NewBinary(d.inner, d.innerSpelling, acc, c)
	}
	return acc
}

// chain flattens every directly nested op node under n, left to right.
func chain(n *Node, op Operator) []*Node {
	if n.kind != KindBinary || n.op != op {
		return []*Node{n}
	}
	return append(chain(n.left, op), chain(n.right, op)...)
}
