package cli

const globalStatusTemplate = `=== Storage Status ===

Server:         {{.ServerID}}
{{- if .Global }}
Status:         Synchronized
Server version: {{.Global.ServerVersion}}
Last sync:      {{.LastSync}}
{{- else }}
Status:         Not synchronized

Run 'rulekeeper sync' to synchronize.
{{- end }}
`

const moduleStatusTemplate = `
Module:         {{.ModuleKey}}
{{- if .Module }}
Module sync:    {{.LastSync}}
{{- else }}
Module sync:    never

Run 'rulekeeper update-module {{.ModuleKey}}' to synchronize it.
{{- end }}
`

const ruleDetailsTemplate = `
=== Rule Details ===

Key:      {{.Key}}
Name:     {{.Name}}
{{- if .Severity }}
Severity: {{.Severity}}
{{- end}}
{{- if .Language }}
Language: {{.Language}}
{{- end}}
{{- if .HTMLDescription }}

Description:
---
{{.HTMLDescription}}
---
{{- end}}
`
