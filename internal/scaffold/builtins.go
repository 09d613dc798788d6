package scaffold

// builtins are the default scaffold templates, keyed by output file name.
var builtins = map[string]string{
	"playwright.config.ts": playwrightConfigTemplate,
	"package.json":         packageJSONTemplate,
}

const playwrightConfigTemplate = `import { defineConfig } from '@playwright/test';

export default defineConfig({
  testDir: './{{ .TestsDir }}',
  fullyParallel: false,
  retries: process.env.CI ? 2 : 0,
  reporter: 'html',
  use: {
{{- if .BaseURL }}
    baseURL: '{{ .BaseURL }}',
{{- end }}
    trace: 'on-first-retry',
  },
});
`

const packageJSONTemplate = `{
  "name": "{{ toLower .ProjectName }}",
  "private": true,
  "scripts": {
    "test": "playwright test"
  },
  "dependencies": {
    "@verolang/runtime": "^1.0.0"
  },
  "devDependencies": {
    "@playwright/test": "^1.48.0"
  }
}
`
