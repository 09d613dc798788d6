package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verolang/verogen/internal/ast"
)

// UnitKind classifies an output code unit.
type UnitKind string

const (
	UnitPage         UnitKind = "page"
	UnitActions      UnitKind = "actions"
	UnitFeature      UnitKind = "feature"
	UnitFixture      UnitKind = "fixture"
	UnitFixtureIndex UnitKind = "fixture-index"
)

// Unit is one generated code unit: plain text in the target runtime's
// syntax. The compiler performs no file I/O.
type Unit struct {
	Name     string
	FileName string
	Kind     UnitKind
	Code     string
}

// Output groups the generated units. Warnings lists constructs that compiled
// to placeholders so the caller can surface them instead of hiding a missing
// rule behind silent output.
type Output struct {
	Pages        []Unit
	Actions      []Unit
	Features     []Unit
	Fixtures     []Unit
	FixtureIndex *Unit
	Warnings     []string
}

// Compile turns a program into code units. It never fails: unsupported
// constructs degrade to placeholders and are reported through Warnings.
// Compiling the same program with the same options yields identical output.
func Compile(program *ast.Program, opts Options) *Output {
	opts = opts.withDefaults()
	out := &Output{}

	for _, page := range program.Pages {
		out.Pages = append(out.Pages, compilePage(page, opts, &out.Warnings))
	}
	for _, group := range program.Actions {
		out.Actions = append(out.Actions, compileGroup(group, opts, &out.Warnings))
	}
	for _, fx := range program.Fixtures {
		out.Fixtures = append(out.Fixtures, compileFixture(fx, opts, &out.Warnings))
	}
	if len(program.Fixtures) > 0 || opts.Debug {
		unit := compileFixtureIndex(program.Fixtures, opts, &out.Warnings)
		out.FixtureIndex = &unit
	}
	for _, feature := range program.Features {
		out.Features = append(out.Features, compileFeature(program, feature, opts, &out.Warnings))
	}
	return out
}

// compileFeature assembles one feature test suite: imports derived from the
// reference scan, the per-feature preload block, hooks and scenarios.
func compileFeature(program *ast.Program, feature *ast.Feature, opts Options, warnings *[]string) Unit {
	groups := map[string]*ast.ActionGroup{}
	for _, g := range program.Actions {
		groups[g.Name] = g
	}
	p := newPass(opts, warnings)
	p.inFeature = true
	for _, page := range program.Pages {
		p.pages[page.Name] = page
	}
	p.groups = groups
	refs := CollectRefs(feature, p.pages, groups)

	hasIndex := len(program.Fixtures) > 0 || opts.Debug
	usesFrames := featureUsesFrames(feature)

	w := &writer{}
	w.line("// Generated by verogen from feature %s. Do not edit.", tsString(feature.Name))
	if hasIndex {
		w.line("import { test, expect } from '%s';", opts.FixturesImport)
		if opts.Debug {
			w.line("import { __stepper } from '%s';", opts.FixturesImport)
		}
	} else {
		w.line("import { test, expect } from '@playwright/test';")
	}
	if usesFrames {
		w.line("import type { Page } from '@playwright/test';")
	}
	if len(refs.Tables) > 0 || refs.UsesUtil {
		w.line("import { vero } from '@verolang/runtime';")
	}
	for _, name := range refs.Pages {
		if _, ok := p.pages[name]; ok {
			w.line("import { %s } from '%s/%s';", tsIdent(name), opts.PagesImport, tsIdent(name))
		}
	}
	for _, name := range refs.Groups {
		exports := groupExportNames(groups[name])
		w.line("import { %s } from '%s/%s.actions';", strings.Join(exports, ", "), opts.PagesImport, kebab(name))
	}
	w.line("")

	describe := "test.describe"
	switch {
	case feature.Annotations.Only:
		describe += ".only"
	case feature.Annotations.Skip:
		describe += ".skip"
	}
	w.line("%s(%s, () => {", describe, tsString(feature.Name))
	w.push()
	if feature.Annotations.Serial {
		w.line("test.describe.configure({ mode: 'serial' });")
	}

	if len(refs.Tables) > 0 {
		quoted := make([]string, len(refs.Tables))
		for i, t := range refs.Tables {
			quoted[i] = tsString(t)
		}
		w.line("")
		w.line("test.beforeAll(async () => {")
		w.push()
		w.line("await vero.preload(%s, [%s]);", tsString(opts.DataFile), strings.Join(quoted, ", "))
		w.pop()
		w.line("});")
		w.line("const tables = vero.tables();")
	}

	for _, hook := range feature.Hooks {
		compileHook(w, p, hook)
	}
	for _, scenario := range feature.Scenarios {
		compileScenario(w, p, scenario)
	}

	w.pop()
	w.line("});")

	return Unit{
		Name:     feature.Name,
		FileName: kebab(feature.Name) + ".spec.ts",
		Kind:     UnitFeature,
		Code:     w.String(),
	}
}

func groupExportNames(group *ast.ActionGroup) []string {
	if group == nil {
		return nil
	}
	names := make([]string, len(group.Actions))
	for i, a := range group.Actions {
		names[i] = tsIdent(a.Name)
	}
	sort.Strings(names)
	return names
}

// blockParams builds the destructured fixture parameter list for a hook or
// scenario, shaped by the capability pre-scan.
func blockParams(usesTabs, usesAPI bool) string {
	params := []string{"page"}
	if usesTabs {
		params = []string{"page: initialPage", "context"}
	}
	if usesAPI {
		params = append(params, "request")
	}
	return "{ " + strings.Join(params, ", ") + " }"
}

// blockPreamble emits the mutable bindings and page instances a statement
// block needs. The capability flags were set by the pre-scan before any code
// was emitted so the signature and bindings are produced once.
func blockPreamble(w *writer, p *pass, stmts []ast.Statement) {
	if p.usesTabs {
		w.line("let page = initialPage;")
	}
	if p.usesFrames {
		w.line("let frame: ReturnType<Page['frameLocator']> | null = null;")
	}
	for _, name := range blockPageRefs(stmts, p.groups) {
		if _, ok := p.pages[name]; ok {
			w.line("const %s = new %s(page);", lowerFirst(tsIdent(name)), tsIdent(name))
		}
	}
}

// blockPageRefs lists the pages referenced by one statement block.
func blockPageRefs(stmts []ast.Statement, groups map[string]*ast.ActionGroup) []string {
	set := map[string]struct{}{}
	Inspect(stmts, func(node any) {
		switch n := node.(type) {
		case ast.Target:
			if n.Page != "" {
				set[n.Page] = struct{}{}
			}
		case *ast.CallAction:
			if n.Page != "" {
				if _, ok := groups[n.Page]; !ok {
					set[n.Page] = struct{}{}
				}
			}
		}
	})
	return sortedKeys(set)
}

func compileHook(w *writer, p *pass, hook *ast.Hook) {
	p.usesTabs = usesTabContext(hook.Statements)
	p.usesFrames = usesFrameContext(hook.Statements)
	p.usesAPI = usesAPIContext(hook.Statements)
	defer func() { p.usesTabs, p.usesFrames, p.usesAPI = false, false, false }()

	var name string
	switch hook.Kind {
	case ast.BeforeAll:
		name = "beforeAll"
	case ast.BeforeEach:
		name = "beforeEach"
	case ast.AfterAll:
		name = "afterAll"
	case ast.AfterEach:
		name = "afterEach"
	default:
		p.warnf("hook kind %q has no compilation rule, emitting beforeEach", hook.Kind)
		name = "beforeEach"
	}

	w.line("")
	w.line("test.%s(async (%s) => {", name, blockParams(p.usesTabs, p.usesAPI))
	w.push()
	blockPreamble(w, p, hook.Statements)
	p.compileStatements(w, hook.Statements, false)
	w.pop()
	w.line("});")
}

func compileScenario(w *writer, p *pass, scenario *ast.Scenario) {
	p.usesTabs = usesTabContext(scenario.Statements)
	p.usesFrames = usesFrameContext(scenario.Statements)
	p.usesAPI = usesAPIContext(scenario.Statements)
	p.tmp = 0
	defer func() { p.usesTabs, p.usesFrames, p.usesAPI = false, false, false }()

	testFn := "test"
	switch {
	case scenario.Annotations.Only:
		testFn = "test.only"
	case scenario.Annotations.Fixme:
		testFn = "test.fixme"
	case scenario.Annotations.Skip:
		testFn = "test.skip"
	}

	w.line("")
	if len(scenario.Tags) > 0 {
		tags := make([]string, len(scenario.Tags))
		for i, tag := range scenario.Tags {
			if !strings.HasPrefix(tag, "@") {
				tag = "@" + tag
			}
			tags[i] = tsString(tag)
		}
		w.line("%s(%s, { tag: [%s] }, async (%s) => {", testFn, tsString(scenario.Name), strings.Join(tags, ", "), blockParams(p.usesTabs, p.usesAPI))
	} else {
		w.line("%s(%s, async (%s) => {", testFn, tsString(scenario.Name), blockParams(p.usesTabs, p.usesAPI))
	}
	w.push()
	if scenario.Annotations.Slow {
		w.line("test.slow();")
	}
	blockPreamble(w, p, scenario.Statements)
	p.compileStatements(w, scenario.Statements, true)
	w.pop()
	w.line("});")
}

// featureUsesFrames reports whether any block in the feature switches frames.
func featureUsesFrames(feature *ast.Feature) bool {
	for _, h := range feature.Hooks {
		if usesFrameContext(h.Statements) {
			return true
		}
	}
	for _, s := range feature.Scenarios {
		if usesFrameContext(s.Statements) {
			return true
		}
	}
	return false
}

// Summary is a short, human-readable account of one compilation.
func (o *Output) Summary() string {
	return fmt.Sprintf("%d page(s), %d action group(s), %d feature(s), %d fixture(s), %d warning(s)",
		len(o.Pages), len(o.Actions), len(o.Features), len(o.Fixtures), len(o.Warnings))
}
