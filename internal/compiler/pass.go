// Package compiler turns a Vero AST into Playwright TypeScript code units.
// It is pure: the same node and context always yield the same code string,
// every compilation function is total over its node-kind space, and all
// transient state lives in a per-unit pass object that is discarded when the
// unit is done.
package compiler

import (
	"fmt"
	"strings"

	"github.com/verolang/verogen/internal/ast"
)

// Options configure one compilation. All fields are optional.
type Options struct {
	// Debug wraps every top-level scenario statement with stepper
	// instrumentation and emits the stepper module into the fixture index.
	Debug bool
	// BaseURL prefixes relative open targets in generated code.
	BaseURL string
	// DataFile is the table-data file preloaded by generated tests.
	DataFile string
	// PagesImport is the import path prefix feature files use to reach
	// generated page and action-group modules.
	PagesImport string
	// FixturesImport is the import path feature files use to reach the
	// fixture directory index.
	FixturesImport string
}

func (o Options) withDefaults() Options {
	if o.DataFile == "" {
		o.DataFile = "vero-data.json"
	}
	if o.PagesImport == "" {
		o.PagesImport = "../pages"
	}
	if o.FixturesImport == "" {
		o.FixturesImport = "../fixtures"
	}
	return o
}

// pass is the transient, unit-scoped compilation state. A fresh pass is
// created per page, fixture or feature so independent compilations cannot
// interfere.
type pass struct {
	opts Options

	// usedTables collects every table key referenced by the unit.
	usedTables map[string]struct{}
	// tmp numbers generated temporaries.
	tmp int

	// capability flags, set by the structural pre-scan before emission.
	usesTabs   bool
	usesFrames bool
	usesAPI    bool

	// pages available to the unit, keyed by page name.
	pages map[string]*ast.Page
	// groups available to the unit, keyed by group name.
	groups map[string]*ast.ActionGroup
	// current is the page being compiled; a Target naming it resolves to a
	// self-reference, never an import of itself.
	current *ast.Page
	// inFeature marks a feature-unit pass. Only feature units import the
	// stepper module, so debug emission stays confined to them; page,
	// action-group and fixture units must never reference __stepper.
	inFeature bool

	warnings *[]string
}

func newPass(opts Options, warnings *[]string) *pass {
	return &pass{
		opts:       opts,
		usedTables: map[string]struct{}{},
		pages:      map[string]*ast.Page{},
		groups:     map[string]*ast.ActionGroup{},
		warnings:   warnings,
	}
}

// nextTmp returns a fresh generated-identifier name.
func (p *pass) nextTmp(prefix string) string {
	p.tmp++
	return fmt.Sprintf("__%s%d", prefix, p.tmp)
}

// useTable records a table reference and returns its preload accessor
// expression.
func (p *pass) useTable(ref ast.TableReference) string {
	key := ref.Key()
	p.usedTables[key] = struct{}{}
	return fmt.Sprintf("tables[%s]", tsString(key))
}

func (p *pass) warnf(format string, args ...any) {
	if p.warnings != nil {
		*p.warnings = append(*p.warnings, fmt.Sprintf(format, args...))
	}
}

// pageHandle is the active page binding. Inside a page's own action it is the
// instance handle, unless the action switches tabs and compiles a local
// reassignable binding instead.
func (p *pass) pageHandle() string {
	if p.current != nil && !p.usesTabs {
		return "this.page"
	}
	return "page"
}

// locatorBase is the handle locators resolve against. When the unit switches
// frames, every locator transparently prefers the frame-scoped handle while
// it is non-null, without call sites knowing which target is active.
func (p *pass) locatorBase() string {
	base := p.pageHandle()
	if p.usesFrames {
		return "(frame ?? " + base + ")"
	}
	return base
}

// writer accumulates generated lines at a tracked indent depth. Compound
// statements open and close indentation symmetrically through push/pop.
type writer struct {
	sb     strings.Builder
	indent int
}

func (w *writer) line(format string, args ...any) {
	if format == "" {
		w.sb.WriteByte('\n')
		return
	}
	w.sb.WriteString(strings.Repeat("  ", w.indent))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

func (w *writer) push() { w.indent++ }

func (w *writer) pop() {
	if w.indent > 0 {
		w.indent--
	}
}

func (w *writer) String() string { return w.sb.String() }

// tsString renders a Go string as a double-quoted TypeScript string literal.
func tsString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// tsIdent sanitizes a DSL name into a TypeScript identifier.
func tsIdent(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '$':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// lowerFirst lower-cases the first rune, for page instance variables.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// kebab converts a unit name to a file-name-friendly slug. camelCase
// boundaries become dashes before lowercasing so they are not lost.
func kebab(name string) string {
	var b strings.Builder
	prevDash := false
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			if i > 0 && !prevDash && isLowerOrDigit(runes[i-1]) {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func isLowerOrDigit(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
}
