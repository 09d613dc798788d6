// Package scaffold renders the Playwright project shell that hosts
// generated test suites: playwright.config.ts and package.json, from
// built-in templates that a template directory can override.
package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/verolang/verogen/internal/config"
	"github.com/verolang/verogen/internal/domain"
)

// Data is the struct passed to scaffold templates.
type Data struct {
	ProjectName string
	TestsDir    string
	PagesDir    string
	FixturesDir string
	BaseURL     string
	DataFile    string
}

// Engine renders scaffold files from named templates.
type Engine struct {
	templates   map[string]*template.Template
	templateDir string
}

// NewEngine creates an engine with the built-in templates loaded. When
// templateDir is non-empty, .tmpl files in it override the built-ins and
// may add new scaffold files.
func NewEngine(templateDir string) (*Engine, error) {
	engine := &Engine{
		templates:   make(map[string]*template.Template),
		templateDir: templateDir,
	}

	funcMap := CustomFuncMap()
	for name, content := range builtins {
		tmpl, err := template.New(name).Funcs(funcMap).Parse(content)
		if err != nil {
			return nil, domain.NewError("scaffold", name, 0, "failed to parse built-in template", err)
		}
		engine.templates[name] = tmpl
	}

	if templateDir != "" {
		if err := engine.loadOverrides(funcMap); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// loadOverrides reads all .tmpl files from the template directory.
func (e *Engine) loadOverrides(funcMap template.FuncMap) error {
	entries, err := os.ReadDir(e.templateDir)
	if err != nil {
		return domain.NewError("scaffold", e.templateDir, 0, "failed to read template directory", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := filepath.Join(e.templateDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return domain.NewError("scaffold", path, 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError("scaffold", path, 0, "failed to parse template", err)
		}

		e.templates[name] = tmpl
	}

	return nil
}

// Render renders one named scaffold file.
func (e *Engine) Render(name string, data Data) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", domain.NewError("scaffold", "", 0,
			"template "+name+" not found (available: "+strings.Join(e.ListTemplates(), ", ")+")", nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", domain.NewError("scaffold", name, 0, "failed to execute template", err)
	}
	return buf.String(), nil
}

// ListTemplates returns the names of all loaded templates, sorted.
func (e *Engine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write renders every loaded template into the output directory, skipping
// files that already exist so a re-run never clobbers local edits.
func (e *Engine) Write(outputDir string, data Data) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, domain.NewError("scaffold", outputDir, 0, "failed to create output directory", err)
	}

	var written []string
	for _, name := range e.ListTemplates() {
		path := filepath.Join(outputDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		content, err := e.Render(name, data)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return written, domain.NewError("scaffold", path, 0, "failed to write scaffold file", err)
		}
		written = append(written, path)
	}
	return written, nil
}

// DataFromConfig derives scaffold template data from the loaded
// configuration.
func DataFromConfig(cfg *config.Config) Data {
	return Data{
		ProjectName: filepath.Base(cfg.Output.Directory),
		TestsDir:    cfg.Output.TestsDir,
		PagesDir:    cfg.Output.PagesDir,
		FixturesDir: cfg.Output.FixturesDir,
		BaseURL:     cfg.Generate.BaseURL,
		DataFile:    cfg.Generate.DataFile,
	}
}
