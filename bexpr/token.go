package bexpr

import "fmt"

// TokenKind defines the types of tokens produced by the lexer.
type TokenKind int

const (
	TokenEOF      TokenKind = iota // end of input
	TokenOperand                   // A, out_1
	TokenOperator                  // and, &&, ~, ->
	TokenLParen                    // (
	TokenRParen                    // )
	TokenAssign                    // =
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenOperand:
		return "OPERAND"
	case TokenOperator:
		return "OPERATOR"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenAssign:
		return "ASSIGN"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token with its kind, raw text and the 0-based
// rune offset where it starts in the source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
	// Op is set for TokenOperator.
	Op Operator
}

func (t Token) String() string {
	if t.Kind == TokenOperator {
		return fmt.Sprintf("%s(%s %s)@%d", t.Kind, t.Op, t.Text, t.Pos)
	}
	return fmt.Sprintf("%s(%s)@%d", t.Kind, t.Text, t.Pos)
}
