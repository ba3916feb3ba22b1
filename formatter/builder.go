package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/tt/bexpr"
)

const tabWidth = 8

// diagnostic kinds
const (
	GrammarError    = "grammar-error"
	TooManySymbols  = "too-many-symbols"
	InvalidArgument = "invalid-argument"
	InternalError   = "internal-error"
	GeneralError    = "error"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	bugStyle        = color.New(color.FgMagenta, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// SetColor turns colored output on or off for every style in the package.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Diagnostic is everything needed to render one failed equation.
type Diagnostic struct {
	Kind     string
	Severity string
	Filename string
	// Line is the 1-based line of the equation in Filename.
	Line int
	// Column is the 1-based rune column of the offending token, 0 if the
	// failure has no position.
	Column  int
	Source  string
	Message string
	Note    string
	// Symbols is the symbol count of a too-many-symbols failure.
	Symbols int
}

// NewDiagnostic classifies err. source is the equation text; it is only
// needed for errors that do not carry it themselves.
func NewDiagnostic(err error, filename string, line int, source string) Diagnostic {
	d := Diagnostic{
		Kind:     GeneralError,
		Severity: "error",
		Filename: filename,
		Line:     line,
		Source:   source,
		Message:  err.Error(),
	}
	if d.Filename == "" {
		d.Filename = "<input>"
	}
	if d.Line < 1 {
		d.Line = 1
	}

	var (
		ge *bexpr.GrammarError
		ts *bexpr.TooManySymbolsError
		it *bexpr.InvalidArgumentTypeError
		ia *bexpr.InvalidArgumentError
		ie *bexpr.InternalError
	)
	switch {
	case errors.As(err, &ge):
		d.Kind = GrammarError
		d.Source = ge.Expr
		d.Column = ge.Pos() + 1
		d.Message = ge.Msg
	case errors.As(err, &ts):
		d.Kind = TooManySymbols
		d.Symbols = ts.Count
		d.Message = fmt.Sprintf("%d distinct symbols, the limit is %d", ts.Count, ts.Max)
		d.Note = fmt.Sprintf("a truth table over %d symbols has 2^%d rows; raise max_symbols (at most %d) or split the equation", ts.Count, ts.Count, bexpr.HardMaxSymbols)
	case errors.As(err, &it), errors.As(err, &ia):
		d.Kind = InvalidArgument
	case errors.As(err, &ie):
		d.Kind = InternalError
		d.Severity = "bug"
		d.Note = "this is a bug in tt, not a problem with the equation"
	}
	return d
}

// diagnosticFormatter is the interface that wraps the DiagnosticTemplate
// method.
type diagnosticFormatter interface {
	DiagnosticTemplate() string
}

// getDiagnosticFormatter returns the formatter for a diagnostic kind.
func getDiagnosticFormatter(kind string) diagnosticFormatter {
	switch kind {
	case TooManySymbols:
		return &TooManySymbolsFormatter{}
	default:
		return &GeneralDiagnosticFormatter{}
	}
}

// FormatDiagnostics renders diagnostics one after another.
func FormatDiagnostics(diags []Diagnostic) string {
	var builder strings.Builder
	for _, d := range diags {
		builder.WriteString(buildDiagnostic(d, getDiagnosticFormatter(d.Kind)))
	}
	return builder.String()
}

// FormatError is a shortcut for rendering a single error.
func FormatError(err error, filename string, line int, source string) string {
	return FormatDiagnostics([]Diagnostic{NewDiagnostic(err, filename, line, source)})
}

type diagnosticData struct {
	Diagnostic
	MaxLineNumWidth int
	Padding         string
}

func buildDiagnostic(d Diagnostic, formatter diagnosticFormatter) string {
	maxLineNumWidth := calculateMaxLineNumWidth(d.Line)
	data := diagnosticData{
		Diagnostic:      d,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
	}

	funcMap := template.FuncMap{
		"header":          header,
		"snippet":         snippet,
		"caretAndMessage": caretAndMessage,
		"rowsInfo":        rowsInfo,
		"note":            note,
	}

	tmpl := template.Must(template.New("diagnostic").Funcs(funcMap).Parse(formatter.DiagnosticTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting diagnostic: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(kind string, severity string, maxLineNumWidth int, filename string, line int, column int) string {
	var endString string
	if severity == "bug" {
		endString = bugStyle.Sprint("bug: ")
	} else {
		endString = errorStyle.Sprint("error: ")
	}
	endString += ruleStyle.Sprintf("%s\n", kind)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	if column > 0 {
		endString += fileStyle.Sprintf("%s:%d:%d\n", filename, line, column)
	} else {
		endString += fileStyle.Sprintf("%s:%d\n", filename, line)
	}
	return endString
}

func snippet(source string, line int, maxLineNumWidth int, padding string) string {
	if source == "" {
		return ""
	}
	endString := lineStyle.Sprintf("%s|\n", padding)
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, line)
	endString += lineStyle.Sprintf("%s | ", lineNum) + source + "\n"
	return endString
}

func caretAndMessage(msg string, padding string, source string, column int) string {
	var endString string
	if source != "" && column > 0 {
		endString = lineStyle.Sprintf("%s| ", padding)
		endString += strings.Repeat(" ", calculateVisualColumn(source, column))
		endString += messageStyle.Sprint("^") + "\n"
	}
	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", msg)
	return endString
}

func note(n string) string {
	if n == "" {
		return ""
	}
	return suggestionStyle.Sprint("Note: ") + lineStyle.Sprintf("%s\n", n)
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// calculateVisualColumn returns how many cells precede the 1-based rune
// column in line, expanding tabs.
func calculateVisualColumn(line string, column int) int {
	if column < 1 {
		return 0
	}
	visualColumn := 0
	i := 0
	for _, ch := range line {
		i++
		if i == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	if column > i {
		// caret past the end of the line
		visualColumn += column - i - 1
	}
	return visualColumn
}
