package bexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleOf(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"and", "OR", "implies", "impl", ""} {
		assert.Equal(t, StylePlain, StyleOf(s), s)
	}
	for _, s := range []string{"&&", `/\`, "~", "!", "->", "<->", "|"} {
		assert.Equal(t, StyleSymbolic, StyleOf(s), s)
	}
}

func TestDualSpelling(t *testing.T) {
	t.Parallel()
	tests := []struct {
		op       Operator
		spelling string
		want     string
	}{
		{OpAnd, "and", "or"},
		{OpOr, "or", "and"},
		{OpAnd, "AND", "OR"},
		{OpOr, "Or", "and"},
		{OpAnd, "&&", "||"},
		{OpOr, "|", "&"},
		{OpAnd, `/\`, `\/`},
		{OpOr, `\/`, `/\`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dualSpelling(tt.op, tt.spelling), tt.spelling)
	}
}

func TestOperator_Spelling(t *testing.T) {
	t.Parallel()
	for _, op := range Operators {
		plain := op.Spelling(StylePlain)
		got, ok := lookupWord(plain)
		assert.True(t, ok, op.String())
		assert.Equal(t, op, got)

		sym := op.Spelling(StyleSymbolic)
		tokens, err := Tokenize(sym)
		if assert.NoError(t, err) {
			assert.Equal(t, op, tokens[0].Op, sym)
		}
	}
}

func TestOperator_Precedence(t *testing.T) {
	t.Parallel()
	assert.Greater(t, OpAnd.precedence(), OpXor.precedence())
	assert.Greater(t, OpXor.precedence(), OpOr.precedence())
	assert.Greater(t, OpOr.precedence(), OpImplies.precedence())
	assert.Greater(t, OpImplies.precedence(), OpIff.precedence())
	assert.Equal(t, OpAnd.precedence(), OpNand.precedence())
	assert.Zero(t, OpNot.precedence())
}
