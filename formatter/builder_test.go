package formatter

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/tt/bexpr"
)

func TestMain(m *testing.M) {
	SetColor(false)
	os.Exit(m.Run())
}

func parseErr(t *testing.T, src string, opts ...bexpr.ParseOption) error {
	t.Helper()
	_, err := bexpr.Parse(src, opts...)
	require.Error(t, err)
	return err
}

func TestFormatError_Grammar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		filename string
		line     int
		expected string
	}{
		{
			name:     "missing right operand",
			src:      "A and",
			filename: "eq.tt",
			line:     1,
			expected: `error: grammar-error
 --> eq.tt:1:3
  |
1 | A and
  |   ^
  = operator "and" is missing its right operand

`,
		},
		{
			name: "unmatched paren",
			src:  "A or B)",
			line: 12,
			expected: `error: grammar-error
  --> <input>:12:7
   |
12 | A or B)
   |       ^
   = unmatched ")"

`,
		},
		{
			name: "unknown token after multibyte operand",
			src:  "é and $",
			line: 3,
			expected: `error: grammar-error
 --> <input>:3:7
  |
3 | é and $
  |       ^
  = unexpected character '$'

`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := parseErr(t, tt.src)
			got := FormatError(err, tt.filename, tt.line, "")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatError_TooManySymbols(t *testing.T) {
	t.Parallel()
	err := parseErr(t, "A and B and C", bexpr.WithMaxSymbols(2))

	expected := `error: too-many-symbols
 --> <input>:1
  |
1 | A and B and C
  = 3 distinct symbols, the limit is 2
  | Rows: 8
Note: a truth table over 3 symbols has 2^3 rows; raise max_symbols (at most 24) or split the equation

`
	assert.Equal(t, expected, FormatError(err, "", 0, "A and B and C"))
}

func TestNewDiagnostic(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		kind     string
		severity string
	}{
		{"grammar", &bexpr.GrammarError{Reason: bexpr.ReasonEmpty, Msg: "empty expression"}, GrammarError, "error"},
		{"symbols", &bexpr.TooManySymbolsError{Count: 30, Max: 24}, TooManySymbols, "error"},
		{"type", &bexpr.InvalidArgumentTypeError{Got: "int"}, InvalidArgument, "error"},
		{"value", &bexpr.InvalidArgumentError{Arg: "pass", Msg: "unknown"}, InvalidArgument, "error"},
		{"internal", &bexpr.InternalError{Op: "evaluate", Cause: assert.AnError}, InternalError, "bug"},
		{"other", assert.AnError, GeneralError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := NewDiagnostic(tt.err, "f.tt", 4, "A")
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.severity, d.Severity)
			assert.Equal(t, "f.tt", d.Filename)
			assert.Equal(t, 4, d.Line)
		})
	}
}

func TestFormatError_Internal(t *testing.T) {
	t.Parallel()
	err := &bexpr.InternalError{Op: "evaluate", Cause: assert.AnError}
	got := FormatError(err, "", 1, "")

	assert.Contains(t, got, "bug: internal-error\n")
	assert.Contains(t, got, " --> <input>:1\n")
	assert.Contains(t, got, "Note: this is a bug in tt")
	assert.NotContains(t, got, "^")
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line   string
		column int
		want   int
	}{
		{"A and B", 1, 0},
		{"A and B", 3, 2},
		{"\tA", 2, 8},
		{"é∧B", 3, 2},
		{"A", 3, 2},
		{"A", 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, calculateVisualColumn(tt.line, tt.column), "%q col %d", tt.line, tt.column)
	}
}
