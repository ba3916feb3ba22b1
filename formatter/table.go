package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gnoswap-labs/tt/bexpr"
)

// Output formats for truth tables.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// ResultColumn is the header of the result column when the equation has no
// name.
const ResultColumn = "="

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)
	headerStyle = cellStyle.Bold(true).Foreground(lipgloss.Color("14"))
	trueStyle   = cellStyle.Bold(true).Foreground(lipgloss.Color("10"))
	falseStyle  = cellStyle.Foreground(lipgloss.Color("8"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// WriteTruthTable writes t to w in the given format. name heads the result
// column.
func WriteTruthTable(w io.Writer, format, name string, t *bexpr.TruthTable) error {
	switch format {
	case FormatTable, "":
		_, err := io.WriteString(w, RenderTable(name, t)+"\n")
		return err
	case FormatJSON:
		return WriteJSON(w, name, t)
	case FormatCSV:
		return WriteCSV(w, name, t)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func resultHeader(name string) string {
	if name == "" {
		return ResultColumn
	}
	return name
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func rows(t *bexpr.TruthTable) [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]string, 0, len(r.Values)+1)
		for _, v := range r.Values {
			row = append(row, bit(v))
		}
		out = append(out, append(row, bit(r.Result)))
	}
	return out
}

// RenderTable draws t as a bordered grid, one column per symbol and a final
// result column.
func RenderTable(name string, t *bexpr.TruthTable) string {
	headers := append(append([]string{}, t.Symbols...), resultHeader(name))
	last := len(headers) - 1

	tbl := table.New().
		Border(lipgloss.ASCIIBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows(t)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col != last:
				return cellStyle
			case row >= 0 && row < len(t.Rows) && t.Rows[row].Result:
				return trueStyle
			default:
				return falseStyle
			}
		})
	return tbl.Render()
}

type jsonTable struct {
	Name    string    `json:"name,omitempty"`
	Symbols []string  `json:"symbols"`
	Rows    []jsonRow `json:"rows"`
}

type jsonRow struct {
	Index  uint64 `json:"index"`
	Values []bool `json:"values"`
	Result bool   `json:"result"`
}

// WriteJSON writes t as a single indented JSON document.
func WriteJSON(w io.Writer, name string, t *bexpr.TruthTable) error {
	doc := jsonTable{
		Name:    name,
		Symbols: t.Symbols,
		Rows:    make([]jsonRow, 0, len(t.Rows)),
	}
	for _, r := range t.Rows {
		doc.Rows = append(doc.Rows, jsonRow{Index: r.Index, Values: r.Values, Result: r.Result})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteCSV writes a header line followed by one 0/1 line per row.
func WriteCSV(w io.Writer, name string, t *bexpr.TruthTable) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, t.Symbols...), resultHeader(name))
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows(t)); err != nil {
		return err
	}
	return cw.Error()
}

// Step is one entry of a transformation listing.
type Step struct {
	Pass string
	Expr *bexpr.Expression
}

// FormatSteps lists each pass with the expression it produced, the input
// first.
func FormatSteps(input *bexpr.Expression, steps []Step) string {
	width := len("input")
	for _, s := range steps {
		width = max(width, len(s.Pass))
	}

	var sb strings.Builder
	sb.WriteString(ruleStyle.Sprintf("%-*s", width, "input"))
	sb.WriteString(lineStyle.Sprint(" | "))
	sb.WriteString(input.String() + "\n")
	for _, s := range steps {
		sb.WriteString(ruleStyle.Sprintf("%-*s", width, s.Pass))
		sb.WriteString(lineStyle.Sprint(" | "))
		sb.WriteString(s.Expr.String() + "\n")
	}
	return sb.String()
}

// FormatModel renders an assignment in symbol order, e.g. "A=1 B=0".
func FormatModel(symbols []string, model map[string]bool) string {
	parts := make([]string, 0, len(symbols))
	for _, s := range symbols {
		parts = append(parts, s+"="+bit(model[s]))
	}
	return strings.Join(parts, " ")
}
