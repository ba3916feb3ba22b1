package bexpr

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Row is one line of a truth table. Values follows the symbol order of the
// table.
type Row struct {
	Index  uint64
	Values []bool
	Result bool
}

// TruthTable is the ordered result of evaluating an expression.
//
// Rows count from all-false to all-true with the first symbol as the most
// significant bit, so for symbols A, B the order is FF, FT, TF, TT.
type TruthTable struct {
	Symbols []string
	Rows    []Row
}

// Evaluate accepts an *Expression or equation string and returns its full
// truth table.
func Evaluate(v any) (*TruthTable, error) {
	e, err := Ensure(v)
	if err != nil {
		return nil, err
	}
	return e.Evaluate()
}

// Evaluate enumerates every assignment of e's symbols.
func (e *Expression) Evaluate() (*TruthTable, error) {
	return e.EvaluateRange(0, e.RowCount())
}

// evalChunk is the number of rows EvaluateContext computes between checks of
// its context.
const evalChunk = 1 << 12

// EvaluateContext is Evaluate, giving up with ctx.Err() once ctx is done.
// The context is checked every evalChunk rows.
func (e *Expression) EvaluateContext(ctx context.Context) (*TruthTable, error) {
	total := e.RowCount()
	tt := &TruthTable{
		Symbols: e.symbols.Names(),
		Rows:    make([]Row, 0, total),
	}
	for from := uint64(0); from < total; from += evalChunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		part, err := e.EvaluateRange(from, min(from+evalChunk, total))
		if err != nil {
			return nil, err
		}
		tt.Rows = append(tt.Rows, part.Rows...)
	}
	return tt, nil
}

// RowCount returns 2^n for n symbols.
func (e *Expression) RowCount() uint64 {
	return uint64(1) << uint(e.symbols.Len())
}

// EvaluateRange evaluates the assignments with index in [from, to). Disjoint
// ranges can be evaluated independently and concatenated in order.
func (e *Expression) EvaluateRange(from, to uint64) (tt *TruthTable, err error) {
	if from > to || to > e.RowCount() {
		return nil, &InvalidArgumentError{
			Arg: "range",
			Msg: fmt.Sprintf("[%d, %d) is outside [0, %d)", from, to, e.RowCount()),
		}
	}
	defer guard("evaluate", &err)

	n := e.symbols.Len()
	tt = &TruthTable{
		Symbols: e.symbols.Names(),
		Rows:    make([]Row, 0, to-from),
	}
	for i := from; i < to; i++ {
		values := assignment(i, n)
		tt.Rows = append(tt.Rows, Row{
			Index:  i,
			Values: values,
			Result: e.root.eval(e.symbols, values),
		})
	}
	return tt, nil
}

// assignment expands index into n booleans, most significant bit first.
func assignment(index uint64, n int) []bool {
	values := make([]bool, n)
	for j := range values {
		values[j] = index>>uint(n-1-j)&1 == 1
	}
	return values
}

// EvalWith evaluates e for a single assignment. Every symbol must be bound
// and no unknown names may be given.
func (e *Expression) EvalWith(values map[string]bool) (result bool, err error) {
	var missing, unknown []string
	for _, name := range e.symbols.names {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range values {
		if !e.symbols.Contains(name) {
			unknown = append(unknown, name)
		}
	}
	switch {
	case len(missing) > 0:
		return false, &InvalidArgumentError{Arg: "assignment", Msg: "missing values for " + strings.Join(missing, ", ")}
	case len(unknown) > 0:
		sort.Strings(unknown)
		return false, &InvalidArgumentError{Arg: "assignment", Msg: "unknown symbols " + strings.Join(unknown, ", ")}
	}
	defer guard("evaluate", &err)

	row := make([]bool, e.symbols.Len())
	for i, name := range e.symbols.names {
		row[i] = values[name]
	}
	return e.root.eval(e.symbols, row), nil
}

func (n *Node) eval(symbols *SymbolTable, values []bool) bool {
	switch n.kind {
	case KindOperand:
		i := symbols.Index(n.name)
		if i < 0 {
			panic(fmt.Errorf("operand %q is not in the symbol table", n.name))
		}
		return values[i]
	case KindUnary:
		return !n.left.eval(symbols, values)
	case KindBinary:
		return n.op.Apply(n.left.eval(symbols, values), n.right.eval(symbols, values))
	default:
		panic(fmt.Errorf("invalid node kind %d", n.kind))
	}
}

// Minterms returns the indices of the rows that evaluate to true.
func (t *TruthTable) Minterms() []uint64 {
	return t.indices(true)
}

// Maxterms returns the indices of the rows that evaluate to false.
func (t *TruthTable) Maxterms() []uint64 {
	return t.indices(false)
}

func (t *TruthTable) indices(want bool) []uint64 {
	out := make([]uint64, 0)
	for _, r := range t.Rows {
		if r.Result == want {
			out = append(out, r.Index)
		}
	}
	return out
}

// Results returns the result column.
func (t *TruthTable) Results() []bool {
	out := make([]bool, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Result
	}
	return out
}

// Assignment returns the symbol bindings of row i.
func (t *TruthTable) Assignment(i int) map[string]bool {
	m := make(map[string]bool, len(t.Symbols))
	for j, name := range t.Symbols {
		m[name] = t.Rows[i].Values[j]
	}
	return m
}

// Satisfiable reports whether any row is true.
func (t *TruthTable) Satisfiable() bool {
	for _, r := range t.Rows {
		if r.Result {
			return true
		}
	}
	return false
}

// Tautology reports whether every row is true.
func (t *TruthTable) Tautology() bool {
	for _, r := range t.Rows {
		if !r.Result {
			return false
		}
	}
	return len(t.Rows) > 0
}
