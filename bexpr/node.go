package bexpr

import (
	"fmt"
	"strings"
)

// NodeKind is the variant tag of a Node.
type NodeKind int

const (
	KindOperand NodeKind = iota + 1
	KindUnary
	KindBinary
)

func (k NodeKind) String() string {
	switch k {
	case KindOperand:
		return "operand"
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	default:
		return "invalid"
	}
}

// Node is one vertex of an expression tree. Exactly one variant is populated:
//
//   - KindOperand: name
//   - KindUnary: op (always OpNot), spelling, left (the operand)
//   - KindBinary: op, spelling, left, right
//
// Nodes are immutable once built. A node belongs to at most one parent;
// constructors clone a child that already has one.
type Node struct {
	kind     NodeKind
	op       Operator
	name     string
	spelling string
	left     *Node
	right    *Node
	owned    bool
}

// NewOperand returns a leaf naming a symbol.
func NewOperand(name string) *Node {
	return &Node{kind: KindOperand, name: name}
}

// NewNot returns a negation of x. An empty spelling selects "not".
func NewNot(spelling string, x *Node) *Node {
	if spelling == "" {
		spelling = OpNot.Spelling(StylePlain)
	}
	return &Node{kind: KindUnary, op: OpNot, spelling: spelling, left: adopt(x)}
}

// NewBinary returns op applied to l and r. An empty spelling selects the
// plain-English word. It panics if op is not a binary operator.
func NewBinary(op Operator, spelling string, l, r *Node) *Node {
	if op.precedence() == 0 {
		panic(fmt.Sprintf("bexpr: %s is not a binary operator", op))
	}
	if spelling == "" {
		spelling = op.Spelling(StylePlain)
	}
	return &Node{kind: KindBinary, op: op, spelling: spelling, left: adopt(l), right: adopt(r)}
}

// adopt marks n as owned by a parent, cloning it first if it already is.
func adopt(n *Node) *Node {
	if n == nil {
		panic("bexpr: nil child")
	}
	if n.owned {
		n = n.Clone()
	}
	n.owned = true
	return n
}

func (n *Node) Kind() NodeKind { return n.kind }

// Op returns the operator of a unary or binary node, zero for operands.
func (n *Node) Op() Operator { return n.op }

// Name returns the symbol of an operand node.
func (n *Node) Name() string { return n.name }

// Spelling returns the operator text as written in the source.
func (n *Node) Spelling() string { return n.spelling }

// Style returns the notation family of the node's spelling.
func (n *Node) Style() Style { return StyleOf(n.spelling) }

// Left returns the left child of a binary node or the operand of a NOT.
func (n *Node) Left() *Node { return n.left }

func (n *Node) Right() *Node { return n.right }

// IsOp reports whether n is an operator node of kind op.
func (n *Node) IsOp(op Operator) bool {
	return n.kind != KindOperand && n.op == op
}

// Clone deep-copies n into freshly allocated nodes.
func (n *Node) Clone() *Node {
	c := &Node{kind: n.kind, op: n.op, name: n.name, spelling: n.spelling}
	if n.left != nil {
		c.left = n.left.Clone()
		c.left.owned = true
	}
	if n.right != nil {
		c.right = n.right.Clone()
		c.right.owned = true
	}
	return c
}

// Equal reports structural equality, spellings included.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.kind != o.kind || n.op != o.op || n.name != o.name || n.spelling != o.spelling {
		return false
	}
	return n.left.Equal(o.left) && n.right.Equal(o.right)
}

// Size returns the number of nodes in the subtree.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	return 1 + n.left.Size() + n.right.Size()
}

// Depth returns the height of the subtree; a leaf has depth 1.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	return 1 + max(n.left.Depth(), n.right.Depth())
}

// Walk calls fn for every node in pre-order. Returning false skips the
// node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	n.left.Walk(fn)
	n.right.Walk(fn)
}

// String renders n as infix text that parses back to an equal tree.
func (n *Node) String() string {
	var sb strings.Builder
	n.writeInfix(&sb)
	return sb.String()
}

func (n *Node) writeInfix(sb *strings.Builder) {
	switch n.kind {
	case KindOperand:
		sb.WriteString(n.name)
	case KindUnary:
		sb.WriteString(n.spelling)
		if StyleOf(n.spelling) == StylePlain {
			sb.WriteByte(' ')
		}
		n.left.writeOperand(sb, n.left.kind == KindBinary)
	case KindBinary:
		n.left.writeOperand(sb, n.left.kind == KindBinary && n.left.op != n.op)
		sb.WriteByte(' ')
		sb.WriteString(n.spelling)
		sb.WriteByte(' ')
		n.right.writeOperand(sb, n.right.kind == KindBinary)
	default:
		sb.WriteString("<invalid>")
	}
}

func (n *Node) writeOperand(sb *strings.Builder, paren bool) {
	if paren {
		sb.WriteByte('(')
	}
	n.writeInfix(sb)
	if paren {
		sb.WriteByte(')')
	}
}

// Diagram renders n as an indented tree, one node per line.
//
//	or
//	`----and
//	|    `----A
//	|    `----B
//	`----C
func (n *Node) Diagram() string {
	var sb strings.Builder
	sb.WriteString(n.label())
	sb.WriteByte('\n')
	n.writeChildren(&sb, "")
	return sb.String()
}

func (n *Node) writeChildren(sb *strings.Builder, prefix string) {
	children := n.children()
	for i, c := range children {
		sb.WriteString(prefix)
		sb.WriteString("`----")
		sb.WriteString(c.label())
		sb.WriteByte('\n')
		next := prefix + "|    "
		if i == len(children)-1 {
			next = prefix + "     "
		}
		c.writeChildren(sb, next)
	}
}

func (n *Node) label() string {
	if n.kind == KindOperand {
		return n.name
	}
	return n.spelling
}

func (n *Node) children() []*Node {
	switch n.kind {
	case KindUnary:
		return []*Node{n.left}
	case KindBinary:
		return []*Node{n.left, n.right}
	default:
		return nil
	}
}
