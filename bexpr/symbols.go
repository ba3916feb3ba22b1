package bexpr

const (
	// DefaultMaxSymbols is the symbol ceiling used when no option overrides it.
	DefaultMaxSymbols = 16
	// HardMaxSymbols is the largest ceiling an option may request.
	HardMaxSymbols = 24
)

// SymbolTable is an ordered set of operand names. Order is first occurrence.
type SymbolTable struct {
	names []string
	index map[string]int
	max   int
}

func newSymbolTable(limit int) *SymbolTable {
	return &SymbolTable{
		index: make(map[string]int),
		max:   limit,
	}
}

func (st *SymbolTable) add(name string) {
	if _, ok := st.index[name]; ok {
		return
	}
	st.index[name] = len(st.names)
	st.names = append(st.names, name)
}

// check enforces the ceiling. The parser interns every operand first so the
// error can report the real count.
func (st *SymbolTable) check() error {
	if len(st.names) > st.max {
		return &TooManySymbolsError{Count: len(st.names), Max: st.max}
	}
	return nil
}

// Max returns the ceiling the table was built with.
func (st *SymbolTable) Max() int { return st.max }

// Len returns the number of distinct symbols.
func (st *SymbolTable) Len() int { return len(st.names) }

// Names returns a copy of the symbols in first-occurrence order.
func (st *SymbolTable) Names() []string {
	out := make([]string, len(st.names))
	copy(out, st.names)
	return out
}

// Index returns the position of name, or -1.
func (st *SymbolTable) Index(name string) int {
	if i, ok := st.index[name]; ok {
		return i
	}
	return -1
}

// Contains reports whether name is in the table.
func (st *SymbolTable) Contains(name string) bool {
	_, ok := st.index[name]
	return ok
}

func (st *SymbolTable) clone() *SymbolTable {
	out := newSymbolTable(st.max)
	for _, name := range st.names {
		out.add(name)
	}
	return out
}
