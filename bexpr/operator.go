package bexpr

import "strings"

// Operator is the closed set of Boolean operators understood by the parser.
type Operator int

const (
	_ Operator = iota
	OpNot
	OpAnd
	OpNand
	OpXor
	OpXnor
	OpOr
	OpNor
	OpImplies
	OpIff
)

// Operators lists every operator kind, unary first.
var Operators = []Operator{OpNot, OpAnd, OpNand, OpXor, OpXnor, OpOr, OpNor, OpImplies, OpIff}

// BinaryOperators lists the operator kinds that take two operands.
var BinaryOperators = []Operator{OpAnd, OpNand, OpXor, OpXnor, OpOr, OpNor, OpImplies, OpIff}

func (op Operator) String() string {
	switch op {
	case OpNot:
		return "NOT"
	case OpAnd:
		return "AND"
	case OpNand:
		return "NAND"
	case OpXor:
		return "XOR"
	case OpXnor:
		return "XNOR"
	case OpOr:
		return "OR"
	case OpNor:
		return "NOR"
	case OpImplies:
		return "IMPLIES"
	case OpIff:
		return "IFF"
	default:
		return "?"
	}
}

// IsUnary reports whether op takes a single operand.
func (op Operator) IsUnary() bool { return op == OpNot }

// IsPrimitive reports whether op is one of AND, OR and NOT.
func (op Operator) IsPrimitive() bool {
	return op == OpAnd || op == OpOr || op == OpNot
}

// precedence of a binary operator. Higher binds tighter; NOT binds tighter
// than all of them and is handled by the parser directly.
func (op Operator) precedence() int {
	switch op {
	case OpAnd, OpNand:
		return 5
	case OpXor, OpXnor:
		return 4
	case OpOr, OpNor:
		return 3
	case OpImplies:
		return 2
	case OpIff:
		return 1
	default:
		return 0
	}
}

// Apply is the truth function of a binary operator. For NOT the right operand
// is ignored.
func (op Operator) Apply(a, b bool) bool {
	switch op {
	case OpNot:
		return !a
	case OpAnd:
		return a && b
	case OpNand:
		return !(a && b)
	case OpXor:
		return a != b
	case OpXnor:
		return a == b
	case OpOr:
		return a || b
	case OpNor:
		return !(a || b)
	case OpImplies:
		return !a || b
	case OpIff:
		return a == b
	default:
		panic("bexpr: truth function of invalid operator " + op.String())
	}
}

// Style is the notation family an operator was written in.
type Style int

const (
	StylePlain Style = iota
	StyleSymbolic
)

func (s Style) String() string {
	if s == StyleSymbolic {
		return "symbolic"
	}
	return "plain"
}

// StyleOf classifies a spelling. Words are plain English, anything else is
// symbolic.
func StyleOf(spelling string) Style {
	if spelling == "" {
		return StylePlain
	}
	for _, r := range spelling {
		if !isIdentRune(r) {
			return StyleSymbolic
		}
	}
	return StylePlain
}

// Spelling returns the default spelling of op in the given style. Operators
// without a symbolic form fall back to their word.
func (op Operator) Spelling(style Style) string {
	if style == StyleSymbolic {
		switch op {
		case OpNot:
			return "~"
		case OpAnd:
			return `/\`
		case OpOr:
			return `\/`
		case OpImplies:
			return "->"
		case OpIff:
			return "<->"
		}
	}
	switch op {
	case OpNot:
		return "not"
	case OpAnd:
		return "and"
	case OpNand:
		return "nand"
	case OpXor:
		return "xor"
	case OpXnor:
		return "xnor"
	case OpOr:
		return "or"
	case OpNor:
		return "nor"
	case OpImplies:
		return "implies"
	case OpIff:
		return "iff"
	default:
		panic("bexpr: spelling of invalid operator " + op.String())
	}
}

// wordOperators maps lower-cased plain-English spellings to their kind.
var wordOperators = map[string]Operator{
	"not":     OpNot,
	"and":     OpAnd,
	"nand":    OpNand,
	"xor":     OpXor,
	"xnor":    OpXnor,
	"or":      OpOr,
	"nor":     OpNor,
	"implies": OpImplies,
	"impl":    OpImplies,
	"iff":     OpIff,
}

// symbolOperators is ordered longest first so the lexer can take the first
// match (maximal munch).
var symbolOperators = []struct {
	text string
	op   Operator
}{
	{"<->", OpIff},
	{"->", OpImplies},
	{"&&", OpAnd},
	{"||", OpOr},
	{`/\`, OpAnd},
	{`\/`, OpOr},
	{"&", OpAnd},
	{"|", OpOr},
	{"~", OpNot},
	{"!", OpNot},
}

// lookupWord resolves an identifier-shaped word to an operator.
func lookupWord(word string) (Operator, bool) {
	op, ok := wordOperators[strings.ToLower(word)]
	return op, ok
}

// dualSpelling maps an AND/OR spelling to the spelling of its De Morgan dual
// in the same notation family.
func dualSpelling(op Operator, spelling string) string {
	switch spelling {
	case "&&":
		return "||"
	case "||":
		return "&&"
	case "&":
		return "|"
	case "|":
		return "&"
	case `/\`:
		return `\/`
	case `\/`:
		return `/\`
	}
	dual := OpOr
	if op == OpOr {
		dual = OpAnd
	}
	word := dual.Spelling(StylePlain)
	if spelling != "" && spelling == strings.ToUpper(spelling) {
		return strings.ToUpper(word)
	}
	return word
}
