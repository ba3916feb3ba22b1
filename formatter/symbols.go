package formatter

import "fmt"

type TooManySymbolsFormatter struct{}

func (f *TooManySymbolsFormatter) DiagnosticTemplate() string {
	return `{{header .Kind .Severity .MaxLineNumWidth .Filename .Line .Column -}}
{{snippet .Source .Line .MaxLineNumWidth .Padding -}}
{{caretAndMessage .Message .Padding .Source .Column -}}
{{rowsInfo .Padding .Symbols}}
{{- if .Note }}{{note .Note}}{{ end }}
`
}

func rowsInfo(padding string, symbols int) string {
	if symbols <= 0 {
		return ""
	}
	var rows string
	if symbols < 64 {
		rows = fmt.Sprintf("Rows: %d", uint64(1)<<uint(symbols))
	} else {
		rows = fmt.Sprintf("Rows: 2^%d", symbols)
	}
	return lineStyle.Sprintf("%s| ", padding) + messageStyle.Sprintf("%s\n", rows)
}
