package compiler

import (
	"strings"
	"text/template"
)

// Unit shells are rendered through text/template so the fixed scaffolding
// stays readable; compiled statement bodies are injected pre-rendered.

var shellFuncs = template.FuncMap{
	"indent": func(spaces int, s string) string {
		pad := strings.Repeat(" ", spaces)
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			if line != "" {
				lines[i] = pad + line
			}
		}
		return strings.Join(lines, "\n")
	},
	"join": strings.Join,
}

var pageShell = template.Must(template.New("page").Funcs(shellFuncs).Parse(
	`// Generated by verogen from page {{.Name}}. Do not edit.
import { Page, Locator } from '@playwright/test';
{{- if .UsesRuntime}}
import { vero } from '@verolang/runtime';
{{- end}}
{{- if .UsesTables}}

const tables = vero.tables();
{{- end}}

export class {{.ClassName}} {
  readonly page: Page;
{{- range .Variables}}
  readonly {{.Name}}: {{.Type}} = {{.Value}};
{{- end}}

  constructor(page: Page) {
    this.page = page;
  }
{{- range .Fields}}

  get {{.Name}}(): Locator {
    return {{.Locator}};
  }
{{- end}}
{{- range .Actions}}

  async {{.Name}}({{.Params}}): Promise<{{.Returns}}> {
{{.Body}}  }
{{- end}}
}
`))

var groupShell = template.Must(template.New("group").Funcs(shellFuncs).Parse(
	`// Generated by verogen from action group {{.Name}}. Do not edit.
import { Page } from '@playwright/test';
{{- if .UsesRuntime}}
import { vero } from '@verolang/runtime';
{{- end}}
{{- if .UsesTables}}

const tables = vero.tables();
{{- end}}
{{- range .Actions}}

export async function {{.Name}}({{.Params}}): Promise<{{.Returns}}> {
{{.Body}}}
{{- end}}
`))

var fixtureShell = template.Must(template.New("fixture").Funcs(shellFuncs).Parse(
	`// Generated by verogen from fixture {{.Name}}. Do not edit.
import { Page } from '@playwright/test';
{{- if .UsesRuntime}}
import { vero } from '@verolang/runtime';
{{- end}}

// Scope: {{.Scope}}{{if .Auto}}, auto{{end}}.
export async function {{.FuncName}}({{.Params}}, use: (value: void) => Promise<void>): Promise<void> {
{{.Setup}}  await use(undefined);
{{.Teardown}}}
`))

var indexShell = template.Must(template.New("index").Funcs(shellFuncs).Parse(
	`// Generated by verogen. Central fixture index. Do not edit.
import { test as base, expect } from '@playwright/test';
{{- range .Imports}}
{{.}}
{{- end}}

{{- if .Stepper}}

{{.Stepper}}
{{- end}}

export const test = base.extend<{ {{join .TestTypes "; "}} }{{if .WorkerTypes}}, { {{join .WorkerTypes "; "}} }{{end}}>({
{{- range .Entries}}
  {{.}},
{{- end}}
});

export { expect };
`))
