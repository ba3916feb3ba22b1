package bexpr

import "fmt"

// Expression is a parsed equation: a root node plus the ordered symbols it
// was parsed against. Expressions are immutable; every transformation returns
// a new one with an independently allocated tree.
type Expression struct {
	raw     string
	name    string
	root    *Node
	symbols *SymbolTable
}

// NewExpression wraps a hand-built tree. Symbols are collected in pre-order,
// left to right, which matches the order the parser would produce for the
// rendered text.
func NewExpression(name string, root *Node, opts ...ParseOption) (*Expression, error) {
	if root == nil {
		return nil, &InvalidArgumentError{Arg: "root", Msg: "nil node"}
	}
	cfg, err := newParseConfig(opts)
	if err != nil {
		return nil, err
	}
	symbols := newSymbolTable(cfg.maxSymbols)
	root.Walk(func(n *Node) bool {
		if n.kind == KindOperand {
			symbols.add(n.name)
		}
		return true
	})
	if err := symbols.check(); err != nil {
		return nil, err
	}
	root = adopt(root)
	return &Expression{
		raw:     root.String(),
		name:    name,
		root:    root,
		symbols: symbols,
	}, nil
}

// Ensure accepts either an *Expression or an equation string and returns an
// *Expression, parsing when needed. Anything else is an
// *InvalidArgumentTypeError.
func Ensure(v any, opts ...ParseOption) (*Expression, error) {
	switch x := v.(type) {
	case *Expression:
		if x == nil {
			return nil, &InvalidArgumentTypeError{Got: "nil *bexpr.Expression"}
		}
		return x, nil
	case string:
		return Parse(x, opts...)
	case nil:
		return nil, &InvalidArgumentTypeError{Got: "nil"}
	default:
		return nil, &InvalidArgumentTypeError{Got: fmt.Sprintf("%T", v)}
	}
}

// derive returns an expression sharing e's metadata with a new root. root
// must be freshly built.
func (e *Expression) derive(root *Node) *Expression {
	root.owned = true
	return &Expression{
		raw:     e.raw,
		name:    e.name,
		root:    root,
		symbols: e.symbols.clone(),
	}
}

// Source returns the text the expression was originally parsed from.
func (e *Expression) Source() string { return e.raw }

// Name returns the result name given with "name = ...", if any.
func (e *Expression) Name() string { return e.name }

// Root returns the tree. Nodes cannot be modified through it.
func (e *Expression) Root() *Node { return e.root }

// Symbols returns the operand names in first-occurrence order.
func (e *Expression) Symbols() []string { return e.symbols.Names() }

// SymbolTable returns the table the expression was parsed against.
func (e *Expression) SymbolTable() *SymbolTable { return e.symbols }

// String renders the tree as infix text.
func (e *Expression) String() string { return e.root.String() }

// Diagram renders the tree as an indented diagram.
func (e *Expression) Diagram() string { return e.root.Diagram() }

// Equal reports whether both trees are structurally equal.
func (e *Expression) Equal(o *Expression) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.root.Equal(o.root)
}
