package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/tt/bexpr"
)

func evaluate(t *testing.T, src string) (*bexpr.Expression, *bexpr.TruthTable) {
	t.Helper()
	e, err := bexpr.Parse(src)
	require.NoError(t, err)
	table, err := e.Evaluate()
	require.NoError(t, err)
	return e, table
}

func TestRenderTable(t *testing.T) {
	t.Parallel()
	_, table := evaluate(t, "A and B")
	out := RenderTable("", table)

	var digits []string
	for _, line := range strings.Split(out, "\n") {
		cells := strings.NewReplacer("|", "", " ", "", "+", "", "-", "").Replace(line)
		switch {
		case strings.Contains(cells, "AB"):
			assert.Equal(t, "AB=", cells)
		case cells != "":
			digits = append(digits, cells)
		}
	}
	assert.Equal(t, []string{"000", "010", "100", "111"}, digits)
}

func TestRenderTable_NamedResult(t *testing.T) {
	t.Parallel()
	e, table := evaluate(t, "out = A xor B")
	out := RenderTable(e.Name(), table)
	assert.Contains(t, out, "out")
	assert.NotContains(t, out, ResultColumn)
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()
	e, table := evaluate(t, "Q = A -> B")
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, e.Name(), table))
	assert.Equal(t, "A,B,Q\n0,0,1\n0,1,1\n1,0,0\n1,1,1\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	_, table := evaluate(t, "not A")
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, "", table))

	var got jsonTable
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Empty(t, got.Name)
	assert.Equal(t, []string{"A"}, got.Symbols)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, jsonRow{Index: 0, Values: []bool{false}, Result: true}, got.Rows[0])
	assert.Equal(t, jsonRow{Index: 1, Values: []bool{true}, Result: false}, got.Rows[1])
}

func TestWriteTruthTable(t *testing.T) {
	t.Parallel()
	_, table := evaluate(t, "A or B")
	for _, format := range []string{FormatTable, FormatJSON, FormatCSV} {
		var buf bytes.Buffer
		assert.NoError(t, WriteTruthTable(&buf, format, "", table), format)
		assert.NotEmpty(t, buf.String(), format)
	}
	assert.Error(t, WriteTruthTable(&bytes.Buffer{}, "xml", "", table))
}

func TestFormatSteps(t *testing.T) {
	t.Parallel()
	in, err := bexpr.Parse("not (A and B)")
	require.NoError(t, err)
	out, err := bexpr.ApplyDeMorgans(in)
	require.NoError(t, err)

	got := FormatSteps(in, []Step{{Pass: "de-morgans", Expr: out}})
	expected := "input      | not (A and B)\n" +
		"de-morgans | not A or not B\n"
	assert.Equal(t, expected, got)
}

func TestFormatModel(t *testing.T) {
	t.Parallel()
	got := FormatModel([]string{"B", "A"}, map[string]bool{"A": true})
	assert.Equal(t, "B=0 A=1", got)
}
