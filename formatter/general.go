package formatter

type GeneralDiagnosticFormatter struct{}

func (f *GeneralDiagnosticFormatter) DiagnosticTemplate() string {
	return `{{header .Kind .Severity .MaxLineNumWidth .Filename .Line .Column -}}
{{snippet .Source .Line .MaxLineNumWidth .Padding -}}
{{caretAndMessage .Message .Padding .Source .Column}}
{{- if .Note }}{{note .Note}}{{ end }}
`
}
