package compiler

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/verolang/verogen/internal/ast"
)

type fixtureData struct {
	Name        string
	FuncName    string
	Scope       ast.FixtureScope
	Auto        bool
	Params      string
	Setup       string
	Teardown    string
	UsesRuntime bool
}

// fixtureFuncName is the exported setup function for a fixture.
func fixtureFuncName(name string) string {
	return tsIdent(name) + "Fixture"
}

// compileFixture emits one fixture-extension unit: an exported async
// function running setup, yielding to the test, then running teardown.
func compileFixture(fx *ast.Fixture, opts Options, warnings *[]string) Unit {
	p := newPass(opts, warnings)

	setup := &writer{indent: 1}
	if tables := fixtureTables(fx); len(tables) > 0 {
		quoted := make([]string, len(tables))
		for i, t := range tables {
			quoted[i] = tsString(t)
		}
		setup.line("await vero.preload(%s, [%s]);", tsString(opts.DataFile), strings.Join(quoted, ", "))
		setup.line("const tables = vero.tables();")
	}
	p.compileStatements(setup, fx.Setup, false)

	teardown := &writer{indent: 1}
	p.compileStatements(teardown, fx.Teardown, false)

	// Worker-scoped fixtures cannot touch the per-test page.
	params := "{ page }: { page: Page }"
	if fx.Scope == ast.ScopeWorker {
		params = "{}: {}"
	}
	if len(fx.Deps) > 0 {
		deps := make([]string, len(fx.Deps))
		types := make([]string, len(fx.Deps))
		for i, d := range fx.Deps {
			deps[i] = tsIdent(d)
			types[i] = tsIdent(d) + ": void"
		}
		if fx.Scope == ast.ScopeWorker {
			params = fmt.Sprintf("{ %s }: { %s }", strings.Join(deps, ", "), strings.Join(types, "; "))
		} else {
			params = fmt.Sprintf("{ page, %s }: { page: Page; %s }", strings.Join(deps, ", "), strings.Join(types, "; "))
		}
	}

	data := fixtureData{
		Name:        fx.Name,
		FuncName:    fixtureFuncName(fx.Name),
		Scope:       fx.Scope,
		Auto:        fx.Auto,
		Params:      params,
		Setup:       setup.String(),
		Teardown:    teardown.String(),
		UsesRuntime: len(fixtureTables(fx)) > 0 || usesRuntimeHelpers(append(append([]ast.Statement{}, fx.Setup...), fx.Teardown...)),
	}

	var buf bytes.Buffer
	_ = fixtureShell.Execute(&buf, data)
	return Unit{
		Name:     fx.Name,
		FileName: kebab(fx.Name) + ".fixture.ts",
		Kind:     UnitFixture,
		Code:     buf.String(),
	}
}

// fixtureTables collects the tables a fixture's setup/teardown reference.
func fixtureTables(fx *ast.Fixture) []string {
	set := map[string]struct{}{}
	visit := func(node any) {
		if ref, ok := node.(ast.TableReference); ok {
			set[ref.Key()] = struct{}{}
		}
	}
	Inspect(fx.Setup, visit)
	Inspect(fx.Teardown, visit)
	return sortedKeys(set)
}

type indexData struct {
	Imports     []string
	Stepper     string
	TestTypes   []string
	WorkerTypes []string
	Entries     []string
}

// compileFixtureIndex emits the combined fixture index: one test object
// extending the base with every fixture and fixture option, plus the debug
// stepper module when debug mode is on.
func compileFixtureIndex(fixtures []*ast.Fixture, opts Options, warnings *[]string) Unit {
	p := newPass(opts, warnings)

	data := indexData{}
	for _, fx := range fixtures {
		data.Imports = append(data.Imports, fmt.Sprintf("import { %s } from './%s.fixture';", fixtureFuncName(fx.Name), kebab(fx.Name)))

		entry := fmt.Sprintf("%s: [%s, { scope: '%s'", tsIdent(fx.Name), fixtureFuncName(fx.Name), fx.Scope)
		if fx.Auto {
			entry += ", auto: true"
		}
		entry += " }]"
		data.Entries = append(data.Entries, entry)

		if fx.Scope == ast.ScopeWorker {
			data.WorkerTypes = append(data.WorkerTypes, tsIdent(fx.Name)+": void")
		} else {
			data.TestTypes = append(data.TestTypes, tsIdent(fx.Name)+": void")
		}

		for _, opt := range fx.Options {
			data.Entries = append(data.Entries, fmt.Sprintf("%s: [%s, { option: true }]", tsIdent(opt.Name), p.compileExpr(opt.Default)))
			data.TestTypes = append(data.TestTypes, tsIdent(opt.Name)+": unknown")
		}
	}
	sort.Strings(data.Imports)
	if len(data.TestTypes) == 0 {
		data.TestTypes = []string{"_vero: void"}
		data.Entries = append([]string{"_vero: [async ({}, use: (value: void) => Promise<void>) => { await use(undefined); }, { scope: 'test' }]"}, data.Entries...)
	}

	if opts.Debug {
		data.Stepper = stepperModule()
	}

	var buf bytes.Buffer
	_ = indexShell.Execute(&buf, data)
	return Unit{
		Name:     "fixtures",
		FileName: "fixtures.ts",
		Kind:     UnitFixtureIndex,
		Code:     buf.String(),
	}
}
